package quiz

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/mind-engage/quizsystem/internal/db"
)

const quizColumns = `id, instructor_id, title, description, time_limit_minutes`

func scanQuiz(sc interface{ Scan(...any) error }) (Quiz, error) {
	var q Quiz
	err := sc.Scan(&q.ID, &q.InstructorID, &q.Title, &q.Description, &q.TimeLimitMinutes)
	return q, err
}

// CreateQuiz fails with NotFound when the owner does not exist and with
// DuplicateConflict when a quiz with the same title and description exists.
func (s *SQLStore) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "instructor", q.InstructorID,
			`SELECT 1 FROM instructor WHERE id=$1`); err != nil {
			return err
		}
		dup, err := exists(ctx, tx, `SELECT 1 FROM quiz WHERE title=$1 AND description=$2`, q.Title, q.Description)
		if err != nil {
			return err
		}
		if dup {
			return conflict("quiz %q already exists", q.Title)
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO quiz (instructor_id, title, description, time_limit_minutes)
			 VALUES ($1,$2,$3,$4) RETURNING id`,
			q.InstructorID, q.Title, q.Description, q.TimeLimitMinutes).Scan(&q.ID)
	})
	if err != nil {
		return Quiz{}, db.Classify(err)
	}
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id int64) (Quiz, error) {
	q, err := scanQuiz(s.db.SQL.QueryRowContext(ctx,
		`SELECT `+quizColumns+` FROM quiz WHERE id=$1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Quiz{}, notFound("quiz", id)
	}
	if err != nil {
		return Quiz{}, db.Classify(fmt.Errorf("get quiz %d: %w", id, err))
	}
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	return s.listQuizzes(ctx, `SELECT `+quizColumns+` FROM quiz ORDER BY id`)
}

func (s *SQLStore) ListQuizzesByInstructor(ctx context.Context, instructorID int64) ([]Quiz, error) {
	return s.listQuizzes(ctx, `SELECT `+quizColumns+` FROM quiz WHERE instructor_id=$1 ORDER BY id`, instructorID)
}

func (s *SQLStore) listQuizzes(ctx context.Context, query string, args ...any) ([]Quiz, error) {
	rows, err := s.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("list quizzes: %w", err))
	}
	defer rows.Close()

	out := []Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
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

// UpdateQuiz replaces title, description and time limit. The owner never
// changes.
func (s *SQLStore) UpdateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	var out Quiz
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx,
			`SELECT 1 FROM quiz WHERE title=$1 AND description=$2 AND id<>$3`, q.Title, q.Description, q.ID)
		if err != nil {
			return err
		}
		if dup {
			return conflict("quiz %q already exists", q.Title)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE quiz SET title=$1, description=$2, time_limit_minutes=$3 WHERE id=$4`,
			q.Title, q.Description, q.TimeLimitMinutes, q.ID)
		if err != nil {
			return err
		}
		if err := affectedOne(res, "quiz", q.ID); err != nil {
			return err
		}
		out, err = scanQuiz(tx.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quiz WHERE id=$1`, q.ID))
		return err
	})
	if err != nil {
		return Quiz{}, db.Classify(err)
	}
	return out, nil
}

// DeleteQuiz removes the quiz with its questions, choices and results.
func (s *SQLStore) DeleteQuiz(ctx context.Context, id int64) error {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteQuizTree(ctx, tx, `quiz_id=$1`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM quiz WHERE id=$1`, id)
		if err != nil {
			return err
		}
		return affectedOne(res, "quiz", id)
	})
	return db.Classify(err)
}

// deleteQuizTree deletes the children of the quizzes selected by where,
// a condition on the question/result quiz_id column.
func deleteQuizTree(ctx context.Context, q db.Querier, where string, arg any) error {
	stmts := []string{
		`DELETE FROM choices WHERE question_id IN (SELECT id FROM question WHERE ` + where + `)`,
		`DELETE FROM question WHERE ` + where,
		`DELETE FROM result WHERE ` + where,
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt, arg); err != nil {
			return fmt.Errorf("delete quiz children: %w", err)
		}
	}
	return nil
}

// DeleteInstructorQuizzes removes every quiz owned by instructorID and all
// their children through q, which callers pass as their transaction. It
// returns the number of quizzes removed.
func DeleteInstructorQuizzes(ctx context.Context, q db.Querier, instructorID int64) (int64, error) {
	if err := deleteQuizTree(ctx, q, `quiz_id IN (SELECT id FROM quiz WHERE instructor_id=$1)`, instructorID); err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, `DELETE FROM quiz WHERE instructor_id=$1`, instructorID)
	if err != nil {
		return 0, fmt.Errorf("delete quizzes: %w", err)
	}
	return db.Affected(res)
}
