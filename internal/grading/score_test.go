package grading_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/grading"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

// question builds a question with one choice per id; correct marks the
// correct one, zero for none.
func question(id int64, correct int64, choiceIDs ...int64) quiz.QuestionWithChoices {
	q := quiz.QuestionWithChoices{Question: quiz.Question{ID: id, QuizID: 1}}
	for _, c := range choiceIDs {
		q.Choices = append(q.Choices, quiz.Choice{ID: c, QuestionID: id, IsCorrect: c == correct})
	}
	return q
}

func threeQuestions() []quiz.QuestionWithChoices {
	return []quiz.QuestionWithChoices{
		question(10, 101, 100, 101, 102),
		question(20, 200, 200, 201),
		question(30, 302, 300, 301, 302),
	}
}

func TestComputeScore(t *testing.T) {
	tests := map[string]struct {
		answers grading.Answers
		want    int
	}{
		"two of three correct": {
			answers: grading.Answers{"question10": 101, "question20": 201, "question30": 302},
			want:    2,
		},
		"all correct": {
			answers: grading.Answers{"question10": 101, "question20": 200, "question30": 302},
			want:    3,
		},
		"missing answers contribute nothing": {
			answers: grading.Answers{"question20": 200},
			want:    1,
		},
		"no answers": {
			answers: grading.Answers{},
			want:    0,
		},
		"choice from another question does not count": {
			answers: grading.Answers{"question10": 200},
			want:    0,
		},
		"unknown question keys are ignored": {
			answers: grading.Answers{"question99": 101, "question10": 101},
			want:    1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := grading.ComputeScore(1, tc.answers, threeQuestions())
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestComputeScore_OrderIndependent(t *testing.T) {
	answers := grading.Answers{"question10": 101, "question20": 201, "question30": 302}
	qs := threeQuestions()
	reversed := []quiz.QuestionWithChoices{qs[2], qs[1], qs[0]}

	a, err := grading.ComputeScore(1, answers, qs)
	require.NoError(t, err)
	b, err := grading.ComputeScore(1, answers, reversed)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestComputeScore_Pure(t *testing.T) {
	answers := grading.Answers{"question10": 101}
	qs := threeQuestions()

	_, err := grading.ComputeScore(1, answers, qs)
	require.NoError(t, err)
	require.Equal(t, threeQuestions(), qs)
	require.Equal(t, grading.Answers{"question10": 101}, answers)
}

func TestComputeScore_NoCorrectChoice(t *testing.T) {
	qs := append(threeQuestions(), question(40, 0, 400, 401))

	score, err := grading.ComputeScore(1, grading.Answers{"question10": 101}, qs)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.CodeNoCorrectChoiceDefined))
	require.Zero(t, score)
}

func TestComputeScore_SkipsQuestionsWithoutChoices(t *testing.T) {
	qs := append(threeQuestions(), question(40, 0))

	score, err := grading.ComputeScore(1, grading.Answers{"question10": 101, "question40": 1}, qs)
	require.NoError(t, err)
	require.Equal(t, 1, score)
}

func TestComputeScore_FirstCorrectChoiceWins(t *testing.T) {
	q := question(10, 0, 100, 101)
	q.Choices[0].IsCorrect = true
	q.Choices[1].IsCorrect = true

	score, err := grading.ComputeScore(1, grading.Answers{"question10": 101}, []quiz.QuestionWithChoices{q})
	require.NoError(t, err)
	require.Zero(t, score)
}

func TestMaxScore(t *testing.T) {
	qs := append(threeQuestions(), question(40, 0), question(50, 0, 500))
	require.Equal(t, 3, grading.MaxScore(qs))
	require.Zero(t, grading.MaxScore(nil))
}
