package quiz_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/db/dbtest"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/eventlog"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type fixture struct {
	d            *db.DB
	s            *quiz.SQLStore
	instructorID int64
	studentID    int64
}

func makeStore(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	d := dbtest.Open(t)

	f := fixture{d: d, s: quiz.NewSQLStore(d)}
	require.NoError(t, d.SQL.QueryRowContext(ctx,
		`INSERT INTO instructor (username, email, password_hash, created_at) VALUES ('ann','ann@example.com','x',0) RETURNING id`).
		Scan(&f.instructorID))
	require.NoError(t, d.SQL.QueryRowContext(ctx,
		`INSERT INTO student (username, email, password_hash, created_at) VALUES ('sam','sam@example.com','x',0) RETURNING id`).
		Scan(&f.studentID))
	return f
}

func (f fixture) quizWithQuestions(t *testing.T, questions int) (quiz.Quiz, []quiz.QuestionWithChoices) {
	t.Helper()
	ctx := context.Background()

	q, err := f.s.CreateQuiz(ctx, quiz.Quiz{InstructorID: f.instructorID, Title: "Go basics", Description: "intro", TimeLimitMinutes: 10})
	require.NoError(t, err)

	out := make([]quiz.QuestionWithChoices, 0, questions)
	for i := 0; i < questions; i++ {
		qu, err := f.s.CreateQuestion(ctx, quiz.Question{QuizID: q.ID, Text: string(rune('A' + i))})
		require.NoError(t, err)
		qc := quiz.QuestionWithChoices{Question: qu}
		for j, correct := range []bool{false, true, false} {
			c, err := f.s.CreateChoice(ctx, quiz.Choice{QuestionID: qu.ID, Text: string(rune('a' + j)), IsCorrect: correct})
			require.NoError(t, err)
			qc.Choices = append(qc.Choices, c)
		}
		out = append(out, qc)
	}
	return q, out
}

func requireCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, code), "want %s, got %v", code, err)
}

func TestSQLStore_Quiz(t *testing.T) {
	f := makeStore(t)
	ctx := context.Background()

	q, err := f.s.CreateQuiz(ctx, quiz.Quiz{InstructorID: f.instructorID, Title: "T", Description: "D", TimeLimitMinutes: 5})
	require.NoError(t, err)
	require.NotZero(t, q.ID)

	got, err := f.s.GetQuiz(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, q, got)

	tests := map[string]struct {
		in   quiz.Quiz
		code errors.Code
	}{
		"same title and description": {quiz.Quiz{InstructorID: f.instructorID, Title: "T", Description: "D"}, errors.CodeDuplicateConflict},
		"unknown owner":              {quiz.Quiz{InstructorID: 999, Title: "X", Description: "Y"}, errors.CodeNotFound},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.s.CreateQuiz(ctx, tc.in)
			requireCode(t, err, tc.code)
		})
	}

	other, err := f.s.CreateQuiz(ctx, quiz.Quiz{InstructorID: f.instructorID, Title: "T", Description: "other"})
	require.NoError(t, err)

	_, err = f.s.UpdateQuiz(ctx, quiz.Quiz{ID: other.ID, Title: "T", Description: "D"})
	requireCode(t, err, errors.CodeDuplicateConflict)

	updated, err := f.s.UpdateQuiz(ctx, quiz.Quiz{ID: q.ID, Title: "T2", Description: "D", TimeLimitMinutes: 15})
	require.NoError(t, err)
	require.Equal(t, f.instructorID, updated.InstructorID, "owner never changes")
	require.Equal(t, 15, updated.TimeLimitMinutes)

	_, err = f.s.UpdateQuiz(ctx, quiz.Quiz{ID: 999, Title: "nope"})
	requireCode(t, err, errors.CodeNotFound)

	all, err := f.s.ListQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := f.s.ListQuizzesByInstructor(ctx, f.instructorID)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	none, err := f.s.ListQuizzesByInstructor(ctx, 999)
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = f.s.GetQuiz(ctx, 999)
	requireCode(t, err, errors.CodeNotFound)
}

func TestSQLStore_DeleteQuizCascades(t *testing.T) {
	f := makeStore(t)
	ctx := context.Background()
	q, qs := f.quizWithQuestions(t, 2)

	_, err := f.s.RecordResult(ctx, quiz.Result{StudentID: f.studentID, QuizID: q.ID, Score: 1})
	require.NoError(t, err)

	require.NoError(t, f.s.DeleteQuiz(ctx, q.ID))

	_, err = f.s.GetQuestion(ctx, qs[0].ID)
	requireCode(t, err, errors.CodeNotFound)
	_, err = f.s.GetChoice(ctx, qs[0].Choices[0].ID)
	requireCode(t, err, errors.CodeNotFound)
	results, err := f.s.ResultsByQuiz(ctx, q.ID)
	require.NoError(t, err)
	require.Empty(t, results)

	requireCode(t, f.s.DeleteQuiz(ctx, q.ID), errors.CodeNotFound)
}

func TestSQLStore_Question(t *testing.T) {
	f := makeStore(t)
	ctx := context.Background()
	q, qs := f.quizWithQuestions(t, 2)

	_, err := f.s.CreateQuestion(ctx, quiz.Question{QuizID: q.ID, Text: "A"})
	requireCode(t, err, errors.CodeDuplicateConflict)

	_, err = f.s.CreateQuestion(ctx, quiz.Question{QuizID: 999, Text: "Z"})
	requireCode(t, err, errors.CodeNotFound)

	_, err = f.s.UpdateQuestion(ctx, quiz.Question{ID: qs[1].ID, Text: "A"})
	requireCode(t, err, errors.CodeDuplicateConflict)

	u, err := f.s.UpdateQuestion(ctx, quiz.Question{ID: qs[1].ID, Text: "B2", CorrectAnswer: "b"})
	require.NoError(t, err)
	require.Equal(t, q.ID, u.QuizID)

	list, err := f.s.ListQuestions(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "B2", list[1].Text)

	require.NoError(t, f.s.DeleteQuestion(ctx, qs[0].ID))
	choices, err := f.s.ListChoicesByQuestion(ctx, qs[0].ID)
	require.NoError(t, err)
	require.Empty(t, choices, "choices go with their question")

	requireCode(t, f.s.DeleteQuestion(ctx, qs[0].ID), errors.CodeNotFound)
}

func TestSQLStore_QuestionsWithChoices(t *testing.T) {
	f := makeStore(t)
	ctx := context.Background()
	q, want := f.quizWithQuestions(t, 3)

	bare, err := f.s.CreateQuestion(ctx, quiz.Question{QuizID: q.ID, Text: "no choices yet"})
	require.NoError(t, err)
	want = append(want, quiz.QuestionWithChoices{Question: bare, Choices: []quiz.Choice{}})

	got, err := f.s.QuestionsWithChoices(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	empty, err := f.s.QuestionsWithChoices(ctx, 999)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSQLStore_Choice(t *testing.T) {
	f := makeStore(t)
	ctx := context.Background()
	q, qs := f.quizWithQuestions(t, 2)
	question := qs[0]

	t.Run("second correct choice is rejected", func(t *testing.T) {
		_, err := f.s.CreateChoice(ctx, quiz.Choice{QuestionID: question.ID, Text: "d", IsCorrect: true})
		requireCode(t, err, errors.CodeDuplicateConflict)
	})

	t.Run("correct choice may be re-saved", func(t *testing.T) {
		c, err := f.s.UpdateChoice(ctx, quiz.Choice{ID: question.Choices[1].ID, Text: "b!", IsCorrect: true})
		require.NoError(t, err)
		require.Equal(t, question.ID, c.QuestionID)
	})

	t.Run("marking a sibling correct moves the flag", func(t *testing.T) {
		other := qs[1]
		_, err := f.s.UpdateChoice(ctx, quiz.Choice{ID: other.Choices[0].ID, Text: "a", IsCorrect: true})
		require.NoError(t, err)

		cs, err := f.s.ListChoicesByQuestion(ctx, other.ID)
		require.NoError(t, err)
		got := map[int64]bool{}
		for _, c := range cs {
			got[c.ID] = c.IsCorrect
		}
		require.Equal(t, map[int64]bool{
			other.Choices[0].ID: true,
			other.Choices[1].ID: false,
			other.Choices[2].ID: false,
		}, got)
	})

	t.Run("correct choice cannot be unmarked", func(t *testing.T) {
		_, err := f.s.UpdateChoice(ctx, quiz.Choice{ID: question.Choices[1].ID, Text: "b"})
		requireCode(t, err, errors.CodeValidationFailed)
	})

	t.Run("unknown question", func(t *testing.T) {
		_, err := f.s.CreateChoice(ctx, quiz.Choice{QuestionID: 999, Text: "x"})
		requireCode(t, err, errors.CodeNotFound)
	})

	byQuiz, err := f.s.ListChoicesByQuiz(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, byQuiz, 6)

	correct, err := f.s.CorrectChoices(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, correct, 2)
	for _, c := range correct {
		require.True(t, c.IsCorrect)
	}

	t.Run("correct choice is deleted last", func(t *testing.T) {
		requireCode(t, f.s.DeleteChoice(ctx, question.Choices[1].ID), errors.CodeValidationFailed)

		require.NoError(t, f.s.DeleteChoice(ctx, question.Choices[2].ID))
		requireCode(t, f.s.DeleteChoice(ctx, question.Choices[2].ID), errors.CodeNotFound)
		_, err := f.s.UpdateChoice(ctx, quiz.Choice{ID: question.Choices[2].ID, Text: "gone"})
		requireCode(t, err, errors.CodeNotFound)

		require.NoError(t, f.s.DeleteChoice(ctx, question.Choices[0].ID))
		require.NoError(t, f.s.DeleteChoice(ctx, question.Choices[1].ID))
	})
}

func TestSQLStore_Result(t *testing.T) {
	f := makeStore(t)
	ctx := context.Background()
	q, _ := f.quizWithQuestions(t, 1)

	avg, err := f.s.AverageScore(ctx, q.ID)
	require.NoError(t, err)
	require.True(t, avg.Equal(decimal.Zero))

	var ids []int64
	for _, score := range []int{2, 1, 1} {
		r, err := f.s.RecordResult(ctx, quiz.Result{StudentID: f.studentID, QuizID: q.ID, Score: score})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	avg, err = f.s.AverageScore(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, "1.33", avg.StringFixed(2))

	events, err := eventlog.List(ctx, f.d.SQL, eventlog.TypeResultRecorded)
	require.NoError(t, err)
	require.Len(t, events, 3)

	_, err = f.s.RecordResult(ctx, quiz.Result{StudentID: 999, QuizID: q.ID})
	requireCode(t, err, errors.CodeNotFound)

	byStudent, err := f.s.ResultsByStudent(ctx, f.studentID)
	require.NoError(t, err)
	require.Len(t, byStudent, 3)

	u, err := f.s.UpdateResult(ctx, ids[0], 0)
	require.NoError(t, err)
	require.Equal(t, 0, u.Score)

	_, err = f.s.UpdateResult(ctx, 999, 1)
	requireCode(t, err, errors.CodeNotFound)

	require.NoError(t, f.s.DeleteResult(ctx, ids[1]))
	requireCode(t, f.s.DeleteResult(ctx, ids[1]), errors.CodeNotFound)

	byQuiz, err := f.s.ResultsByQuiz(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, byQuiz, 2)
}
