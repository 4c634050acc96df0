package http

import (
	"log/slog"
	"net/http"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/grading"
	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/metrics"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type submitResp struct {
	ResultID      int64 `json:"result_id"`
	Score         int   `json:"score"`
	QuestionCount int   `json:"question_count"`
	MaxScore      int   `json:"max_score"`
}

// POST /quiz/{quizID}/submit with {studentID?, question<ID>: choiceID, ...}
// as JSON or form. studentID defaults to the caller and may not name anyone
// else.
func SubmitQuizHandler(store quiz.Store, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		fail := func(outcome string, err error) {
			m.ObserveSubmission(outcome, 0, 0)
			httpx.WriteError(w, r, err)
		}

		c, err := caller(r)
		if err != nil {
			fail("rejected", err)
			return
		}
		quizID, err := pathID(r, "quizID")
		if err != nil {
			fail("rejected", err)
			return
		}
		fields, err := readFields(r)
		if err != nil {
			fail("rejected", err)
			return
		}

		studentID, given, err := optionalID(fields, "studentID", "student_id")
		if err != nil {
			fail("rejected", err)
			return
		}
		if given && studentID != c.SubjectID {
			fail("rejected", errors.New(errors.CodeForbidden, errors.WithMessagef("cannot submit for another student")))
			return
		}
		if bodyQuiz, ok, err := optionalID(fields, "quizID", "quiz_id"); err != nil || (ok && bodyQuiz != quizID) {
			fail("rejected", errors.New(errors.CodeValidationFailed, errors.WithMessagef("quizID does not match the path")))
			return
		}

		answers, err := grading.ParseAnswers(fields)
		if err != nil {
			fail("rejected", err)
			return
		}

		if _, err := store.GetQuiz(ctx, quizID); err != nil {
			fail("rejected", err)
			return
		}
		questions, err := store.QuestionsWithChoices(ctx, quizID)
		if err != nil {
			fail("error", err)
			return
		}

		score, err := grading.ComputeScore(quizID, answers, questions)
		if err != nil {
			fail(string(errors.CodeNoCorrectChoiceDefined), err)
			return
		}

		res, err := store.RecordResult(ctx, quiz.Result{StudentID: c.SubjectID, QuizID: quizID, Score: score})
		if err != nil {
			fail("error", err)
			return
		}

		maxScore := grading.MaxScore(questions)
		m.ObserveSubmission("scored", score, maxScore)
		slog.InfoContext(ctx, "api: quiz submitted",
			"quiz_id", quizID, "student_id", c.SubjectID, "score", score, "max_score", maxScore)

		httpx.WriteJSON(w, http.StatusCreated, submitResp{
			ResultID:      res.ID,
			Score:         score,
			QuestionCount: len(questions),
			MaxScore:      maxScore,
		})
	}
}
