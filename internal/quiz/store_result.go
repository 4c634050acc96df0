package quiz

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/eventlog"
)

const resultColumns = `id, student_id, quiz_id, score, created_at`

func scanResult(sc interface{ Scan(...any) error }) (Result, error) {
	var (
		r       Result
		created int64
	)
	if err := sc.Scan(&r.ID, &r.StudentID, &r.QuizID, &r.Score, &created); err != nil {
		return Result{}, err
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	return r, nil
}

// RecordResult stores a score and appends a ResultRecorded event in the same
// transaction. A student may hold several results for one quiz.
func (s *SQLStore) RecordResult(ctx context.Context, r Result) (Result, error) {
	r.CreatedAt = s.now().UTC().Truncate(time.Second)
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "student", r.StudentID, `SELECT 1 FROM student WHERE id=$1`); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, "quiz", r.QuizID, `SELECT 1 FROM quiz WHERE id=$1`); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO result (student_id, quiz_id, score, created_at) VALUES ($1,$2,$3,$4) RETURNING id`,
			r.StudentID, r.QuizID, r.Score, r.CreatedAt.Unix()).Scan(&r.ID); err != nil {
			return err
		}
		return eventlog.Append(ctx, tx, eventlog.TypeResultRecorded,
			fmt.Sprintf("quiz:%d/student:%d", r.QuizID, r.StudentID), r)
	})
	if err != nil {
		return Result{}, db.Classify(err)
	}
	return r, nil
}

func (s *SQLStore) GetResult(ctx context.Context, id int64) (Result, error) {
	r, err := scanResult(s.db.SQL.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM result WHERE id=$1`, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return Result{}, notFound("result", id)
	}
	if err != nil {
		return Result{}, db.Classify(fmt.Errorf("get result %d: %w", id, err))
	}
	return r, nil
}

func (s *SQLStore) ResultsByStudent(ctx context.Context, studentID int64) ([]Result, error) {
	return s.listResults(ctx, `SELECT `+resultColumns+` FROM result WHERE student_id=$1 ORDER BY id`, studentID)
}

func (s *SQLStore) ResultsByQuiz(ctx context.Context, quizID int64) ([]Result, error) {
	return s.listResults(ctx, `SELECT `+resultColumns+` FROM result WHERE quiz_id=$1 ORDER BY id`, quizID)
}

func (s *SQLStore) listResults(ctx context.Context, query string, args ...any) ([]Result, error) {
	rows, err := s.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("list results: %w", err))
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

func (s *SQLStore) UpdateResult(ctx context.Context, id int64, score int) (Result, error) {
	var out Result
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE result SET score=$1 WHERE id=$2`, score, id)
		if err != nil {
			return err
		}
		if err := affectedOne(res, "result", id); err != nil {
			return err
		}
		out, err = scanResult(tx.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM result WHERE id=$1`, id))
		return err
	})
	if err != nil {
		return Result{}, db.Classify(err)
	}
	return out, nil
}

func (s *SQLStore) DeleteResult(ctx context.Context, id int64) error {
	res, err := s.db.SQL.ExecContext(ctx, `DELETE FROM result WHERE id=$1`, id)
	if err != nil {
		return db.Classify(fmt.Errorf("delete result %d: %w", id, err))
	}
	return db.Classify(affectedOne(res, "result", id))
}

// AverageScore is the mean score of a quiz rounded to two places, zero when
// nobody has taken it.
func (s *SQLStore) AverageScore(ctx context.Context, quizID int64) (decimal.Decimal, error) {
	var avg decimal.NullDecimal
	err := s.db.SQL.QueryRowContext(ctx,
		`SELECT AVG(score) FROM result WHERE quiz_id=$1`, quizID).Scan(&avg)
	if err != nil {
		return decimal.Zero, db.Classify(fmt.Errorf("average score %d: %w", quizID, err))
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal.Round(2), nil
}
