package quiz

import (
	"context"

	"github.com/shopspring/decimal"
)

type Store interface {
	CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
	GetQuiz(ctx context.Context, id int64) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	ListQuizzesByInstructor(ctx context.Context, instructorID int64) ([]Quiz, error)
	UpdateQuiz(ctx context.Context, q Quiz) (Quiz, error)
	DeleteQuiz(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, q Question) (Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	ListQuestions(ctx context.Context, quizID int64) ([]Question, error)
	UpdateQuestion(ctx context.Context, q Question) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	QuestionsWithChoices(ctx context.Context, quizID int64) ([]QuestionWithChoices, error)

	CreateChoice(ctx context.Context, c Choice) (Choice, error)
	GetChoice(ctx context.Context, id int64) (Choice, error)
	UpdateChoice(ctx context.Context, c Choice) (Choice, error)
	DeleteChoice(ctx context.Context, id int64) error
	ListChoicesByQuestion(ctx context.Context, questionID int64) ([]Choice, error)
	ListChoicesByQuiz(ctx context.Context, quizID int64) ([]Choice, error)
	CorrectChoices(ctx context.Context, quizID int64) ([]Choice, error)

	RecordResult(ctx context.Context, r Result) (Result, error)
	GetResult(ctx context.Context, id int64) (Result, error)
	ResultsByStudent(ctx context.Context, studentID int64) ([]Result, error)
	ResultsByQuiz(ctx context.Context, quizID int64) ([]Result, error)
	UpdateResult(ctx context.Context, id int64, score int) (Result, error)
	DeleteResult(ctx context.Context, id int64) error
	AverageScore(ctx context.Context, quizID int64) (decimal.Decimal, error)
}
