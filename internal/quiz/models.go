package quiz

import "time"

type Quiz struct {
	ID               int64  `json:"id"`
	InstructorID     int64  `json:"instructor_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

type Question struct {
	ID            int64  `json:"id"`
	QuizID        int64  `json:"quiz_id"`
	Text          string `json:"question_text"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"choice_text"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionWithChoices is a question and its choices in choice ID order.
type QuestionWithChoices struct {
	Question
	Choices []Choice `json:"choices"`
}

// ForStudent returns a copy without answer keys.
func (q QuestionWithChoices) ForStudent() QuestionWithChoices {
	out := QuestionWithChoices{Question: q.Question}
	out.CorrectAnswer = ""
	out.Choices = make([]Choice, len(q.Choices))
	for i, c := range q.Choices {
		c.IsCorrect = false
		out.Choices[i] = c
	}
	return out
}

type Result struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	QuizID    int64     `json:"quiz_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
