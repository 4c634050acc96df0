// Package announcement stores messages instructors post to students.
package announcement

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/errors"
)

type Announcement struct {
	ID           int64     `json:"id"`
	InstructorID int64     `json:"instructor_id"`
	StudentID    int64     `json:"student_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

type Store struct {
	db  *db.DB
	now func() time.Time
}

func NewStore(d *db.DB) *Store {
	return &Store{db: d, now: time.Now}
}

// Save fails with NotFound when the instructor or student does not exist.
func (s *Store) Save(ctx context.Context, a Announcement) (Announcement, error) {
	a.CreatedAt = s.now().UTC().Truncate(time.Second)
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, ref := range []struct {
			table string
			id    int64
		}{{"instructor", a.InstructorID}, {"student", a.StudentID}} {
			var one int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+ref.table+` WHERE id=$1`, ref.id).Scan(&one)
			if stderrors.Is(err, sql.ErrNoRows) {
				return errors.New(errors.CodeNotFound, errors.WithMessagef("%s %d not found", ref.table, ref.id))
			}
			if err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO announcement (instructor_id, student_id, content, created_at) VALUES ($1,$2,$3,$4) RETURNING id`,
			a.InstructorID, a.StudentID, a.Content, a.CreatedAt.Unix()).Scan(&a.ID)
	})
	if err != nil {
		return Announcement{}, db.Classify(err)
	}
	return a, nil
}

// ListForStudent returns the newest announcements first.
func (s *Store) ListForStudent(ctx context.Context, studentID int64) ([]Announcement, error) {
	rows, err := s.db.SQL.QueryContext(ctx,
		`SELECT id, instructor_id, student_id, content, created_at FROM announcement
		 WHERE student_id=$1 ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("list announcements: %w", err))
	}
	defer rows.Close()

	out := []Announcement{}
	for rows.Next() {
		var (
			a       Announcement
			created int64
		)
		if err := rows.Scan(&a.ID, &a.InstructorID, &a.StudentID, &a.Content, &created); err != nil {
			return nil, db.Classify(err)
		}
		a.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Announcement, error) {
	var (
		a       Announcement
		created int64
	)
	err := s.db.SQL.QueryRowContext(ctx,
		`SELECT id, instructor_id, student_id, content, created_at FROM announcement WHERE id=$1`, id).
		Scan(&a.ID, &a.InstructorID, &a.StudentID, &a.Content, &created)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Announcement{}, errors.New(errors.CodeNotFound, errors.WithMessagef("announcement %d not found", id))
	}
	if err != nil {
		return Announcement{}, db.Classify(err)
	}
	a.CreatedAt = time.Unix(created, 0).UTC()
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.SQL.ExecContext(ctx, `DELETE FROM announcement WHERE id=$1`, id)
	if err != nil {
		return db.Classify(fmt.Errorf("delete announcement %d: %w", id, err))
	}
	n, err := db.Affected(res)
	if err != nil {
		return db.Classify(err)
	}
	if n == 0 {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("announcement %d not found", id))
	}
	return nil
}
