package quiz

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/errors"
)

const choiceColumns = `c.id, c.question_id, c.choice_text, c.is_correct`

func scanChoice(sc interface{ Scan(...any) error }) (Choice, error) {
	var c Choice
	err := sc.Scan(&c.ID, &c.QuestionID, &c.Text, &c.IsCorrect)
	return c, err
}

// ensureNoCorrect rejects a second correct choice on create. Once a question
// has a correct choice it keeps exactly one.
func ensureNoCorrect(ctx context.Context, q db.Querier, questionID int64) error {
	dup, err := exists(ctx, q,
		`SELECT 1 FROM choices WHERE question_id=$1 AND is_correct=$2`, questionID, true)
	if err != nil {
		return err
	}
	if dup {
		return conflict("question %d already has a correct choice", questionID)
	}
	return nil
}

func keepsCorrect(questionID int64, format string, args ...any) error {
	return errors.New(errors.CodeValidationFailed,
		errors.WithMessagef(format+"; mark another choice of question %d correct first", append(args, questionID)...))
}

// lockChoice reads the question and flag of choice id inside tx.
func lockChoice(ctx context.Context, tx *sql.Tx, id int64) (questionID int64, correct bool, err error) {
	err = tx.QueryRowContext(ctx, `SELECT question_id, is_correct FROM choices WHERE id=$1`, id).Scan(&questionID, &correct)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, false, notFound("choice", id)
	}
	return questionID, correct, err
}

func (s *SQLStore) CreateChoice(ctx context.Context, c Choice) (Choice, error) {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "question", c.QuestionID, `SELECT 1 FROM question WHERE id=$1`); err != nil {
			return err
		}
		if c.IsCorrect {
			if err := ensureNoCorrect(ctx, tx, c.QuestionID); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO choices (question_id, choice_text, is_correct) VALUES ($1,$2,$3) RETURNING id`,
			c.QuestionID, c.Text, c.IsCorrect).Scan(&c.ID)
	})
	if err != nil {
		return Choice{}, db.Classify(err)
	}
	return c, nil
}

func (s *SQLStore) GetChoice(ctx context.Context, id int64) (Choice, error) {
	c, err := scanChoice(s.db.SQL.QueryRowContext(ctx,
		`SELECT `+choiceColumns+` FROM choices c WHERE c.id=$1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Choice{}, notFound("choice", id)
	}
	if err != nil {
		return Choice{}, db.Classify(fmt.Errorf("get choice %d: %w", id, err))
	}
	return c, nil
}

// UpdateChoice replaces text and correctness. The question never changes.
// Marking a choice correct clears the flag on its siblings.
func (s *SQLStore) UpdateChoice(ctx context.Context, c Choice) (Choice, error) {
	var out Choice
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		questionID, wasCorrect, err := lockChoice(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		switch {
		case wasCorrect && !c.IsCorrect:
			return keepsCorrect(questionID, "choice %d cannot be unmarked", c.ID)
		case c.IsCorrect && !wasCorrect:
			if _, err := tx.ExecContext(ctx,
				`UPDATE choices SET is_correct=$1 WHERE question_id=$2 AND id<>$3`, false, questionID, c.ID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE choices SET choice_text=$1, is_correct=$2 WHERE id=$3`, c.Text, c.IsCorrect, c.ID); err != nil {
			return err
		}
		out = Choice{ID: c.ID, QuestionID: questionID, Text: c.Text, IsCorrect: c.IsCorrect}
		return nil
	})
	if err != nil {
		return Choice{}, db.Classify(err)
	}
	return out, nil
}

// DeleteChoice removes a choice. The correct choice goes only with the last
// of its siblings.
func (s *SQLStore) DeleteChoice(ctx context.Context, id int64) error {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		questionID, correct, err := lockChoice(ctx, tx, id)
		if err != nil {
			return err
		}
		if correct {
			others, err := exists(ctx, tx, `SELECT 1 FROM choices WHERE question_id=$1 AND id<>$2`, questionID, id)
			if err != nil {
				return err
			}
			if others {
				return keepsCorrect(questionID, "choice %d is the correct one and cannot be deleted", id)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE id=$1`, id)
		if err != nil {
			return fmt.Errorf("delete choice %d: %w", id, err)
		}
		return affectedOne(res, "choice", id)
	})
	return db.Classify(err)
}

func (s *SQLStore) ListChoicesByQuestion(ctx context.Context, questionID int64) ([]Choice, error) {
	return s.listChoices(ctx,
		`SELECT `+choiceColumns+` FROM choices c WHERE c.question_id=$1 ORDER BY c.id`, questionID)
}

func (s *SQLStore) ListChoicesByQuiz(ctx context.Context, quizID int64) ([]Choice, error) {
	return s.listChoices(ctx, `
		SELECT `+choiceColumns+` FROM choices c
		JOIN question q ON q.id = c.question_id
		WHERE q.quiz_id=$1 ORDER BY q.id, c.id`, quizID)
}

// CorrectChoices returns the correct choice of every question in a quiz.
func (s *SQLStore) CorrectChoices(ctx context.Context, quizID int64) ([]Choice, error) {
	return s.listChoices(ctx, `
		SELECT `+choiceColumns+` FROM choices c
		JOIN question q ON q.id = c.question_id
		WHERE q.quiz_id=$1 AND c.is_correct=$2 ORDER BY q.id, c.id`, quizID, true)
}

func (s *SQLStore) listChoices(ctx context.Context, query string, args ...any) ([]Choice, error) {
	rows, err := s.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("list choices: %w", err))
	}
	defer rows.Close()

	out := []Choice{}
	for rows.Next() {
		c, err := scanChoice(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}
