// Package grading scores single-choice quiz submissions.
package grading

import (
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

// ComputeScore counts the questions whose selected choice is the correct one.
// Questions without choices are skipped. A question with choices but none
// marked correct aborts with NoCorrectChoiceDefined. It does not modify its
// inputs.
func ComputeScore(quizID int64, answers Answers, questions []quiz.QuestionWithChoices) (int, error) {
	score := 0
	for _, q := range questions {
		if len(q.Choices) == 0 {
			continue
		}
		correct, ok := correctChoice(q.Choices)
		if !ok {
			return 0, errors.New(errors.CodeNoCorrectChoiceDefined,
				errors.WithMessagef("quiz %d: question %d has no correct choice", quizID, q.ID))
		}
		if selected, ok := answers[AnswerKey(q.ID)]; ok && selected == correct.ID {
			score++
		}
	}
	return score, nil
}

// MaxScore is the number of questions that can be answered correctly.
func MaxScore(questions []quiz.QuestionWithChoices) int {
	n := 0
	for _, q := range questions {
		if _, ok := correctChoice(q.Choices); ok {
			n++
		}
	}
	return n
}

func correctChoice(choices []quiz.Choice) (quiz.Choice, bool) {
	for _, c := range choices {
		if c.IsCorrect {
			return c, true
		}
	}
	return quiz.Choice{}, false
}
