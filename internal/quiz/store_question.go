package quiz

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/mind-engage/quizsystem/internal/db"
)

const questionColumns = `id, quiz_id, question_text, correct_answer`

func scanQuestion(sc interface{ Scan(...any) error }) (Question, error) {
	var q Question
	err := sc.Scan(&q.ID, &q.QuizID, &q.Text, &q.CorrectAnswer)
	return q, err
}

func (s *SQLStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "quiz", q.QuizID, `SELECT 1 FROM quiz WHERE id=$1`); err != nil {
			return err
		}
		dup, err := exists(ctx, tx, `SELECT 1 FROM question WHERE quiz_id=$1 AND question_text=$2`, q.QuizID, q.Text)
		if err != nil {
			return err
		}
		if dup {
			return conflict("question already exists in quiz %d", q.QuizID)
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO question (quiz_id, question_text, correct_answer) VALUES ($1,$2,$3) RETURNING id`,
			q.QuizID, q.Text, q.CorrectAnswer).Scan(&q.ID)
	})
	if err != nil {
		return Question{}, db.Classify(err)
	}
	return q, nil
}

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (Question, error) {
	q, err := scanQuestion(s.db.SQL.QueryRowContext(ctx,
		`SELECT `+questionColumns+` FROM question WHERE id=$1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Question{}, notFound("question", id)
	}
	if err != nil {
		return Question{}, db.Classify(fmt.Errorf("get question %d: %w", id, err))
	}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, quizID int64) ([]Question, error) {
	rows, err := s.db.SQL.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM question WHERE quiz_id=$1 ORDER BY id`, quizID)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("list questions: %w", err))
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

// UpdateQuestion replaces text and correct answer. The quiz never changes.
func (s *SQLStore) UpdateQuestion(ctx context.Context, q Question) (Question, error) {
	var out Question
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, err := scanQuestion(tx.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM question WHERE id=$1`, q.ID))
		if stderrors.Is(err, sql.ErrNoRows) {
			return notFound("question", q.ID)
		}
		if err != nil {
			return err
		}
		dup, err := exists(ctx, tx,
			`SELECT 1 FROM question WHERE quiz_id=$1 AND question_text=$2 AND id<>$3`, cur.QuizID, q.Text, q.ID)
		if err != nil {
			return err
		}
		if dup {
			return conflict("question already exists in quiz %d", cur.QuizID)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE question SET question_text=$1, correct_answer=$2 WHERE id=$3`,
			q.Text, q.CorrectAnswer, q.ID); err != nil {
			return err
		}
		out = Question{ID: q.ID, QuizID: cur.QuizID, Text: q.Text, CorrectAnswer: q.CorrectAnswer}
		return nil
	})
	if err != nil {
		return Question{}, db.Classify(err)
	}
	return out, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id int64) error {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE question_id=$1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM question WHERE id=$1`, id)
		if err != nil {
			return err
		}
		return affectedOne(res, "question", id)
	})
	return db.Classify(err)
}

// QuestionsWithChoices loads every question of a quiz with its choices in one
// query. Questions without choices come back with an empty Choices slice.
func (s *SQLStore) QuestionsWithChoices(ctx context.Context, quizID int64) ([]QuestionWithChoices, error) {
	rows, err := s.db.SQL.QueryContext(ctx, `
		SELECT q.id, q.quiz_id, q.question_text, q.correct_answer,
		       c.id, c.choice_text, c.is_correct
		FROM question q
		LEFT JOIN choices c ON c.question_id = q.id
		WHERE q.quiz_id = $1
		ORDER BY q.id, c.id`, quizID)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("questions with choices: %w", err))
	}
	defer rows.Close()

	out := []QuestionWithChoices{}
	index := map[int64]int{}
	for rows.Next() {
		var (
			q         Question
			choiceID  sql.NullInt64
			text      sql.NullString
			isCorrect sql.NullBool
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.CorrectAnswer, &choiceID, &text, &isCorrect); err != nil {
			return nil, db.Classify(err)
		}

		i, seen := index[q.ID]
		if !seen {
			i = len(out)
			index[q.ID] = i
			out = append(out, QuestionWithChoices{Question: q, Choices: []Choice{}})
		}
		if choiceID.Valid {
			out[i].Choices = append(out[i].Choices, Choice{
				ID:         choiceID.Int64,
				QuestionID: q.ID,
				Text:       text.String,
				IsCorrect:  isCorrect.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}
