package grading

import (
	"strconv"
	"strings"

	"github.com/mind-engage/quizsystem/internal/errors"
)

const answerPrefix = "question"

// Answers maps "question<ID>" to the selected choice ID.
type Answers map[string]int64

func AnswerKey(questionID int64) string {
	return answerPrefix + strconv.FormatInt(questionID, 10)
}

// ParseAnswers picks the question<ID> fields out of a submitted form. Other
// fields are ignored and empty values mean no selection. Keys are stored in
// AnswerKey form, so "question010" answers question 10.
func ParseAnswers(fields map[string]string) (Answers, error) {
	out := Answers{}
	for k, v := range fields {
		raw, ok := strings.CutPrefix(k, answerPrefix)
		if !ok || raw == "" || !isDigits(raw) {
			continue
		}
		questionID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		choice, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.New(errors.CodeValidationFailed,
				errors.WithMessagef("%s: choice must be an integer id", k),
				errors.WithCause(err))
		}
		key := AnswerKey(questionID)
		if prev, dup := out[key]; dup && prev != choice {
			return nil, errors.New(errors.CodeValidationFailed,
				errors.WithMessagef("question %d answered twice", questionID))
		}
		out[key] = choice
	}
	return out, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
