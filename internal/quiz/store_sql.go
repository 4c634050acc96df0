package quiz

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/errors"
)

type SQLStore struct {
	db  *db.DB
	now func() time.Time
}

func NewSQLStore(d *db.DB) *SQLStore {
	return &SQLStore{db: d, now: time.Now}
}

var _ Store = (*SQLStore)(nil)

func notFound(what string, id int64) error {
	return errors.New(errors.CodeNotFound, errors.WithMessagef("%s %d not found", what, id))
}

func conflict(format string, args ...any) error {
	return errors.New(errors.CodeDuplicateConflict, errors.WithMessagef(format, args...))
}

// exists runs a SELECT 1 style query.
func exists(ctx context.Context, q db.Querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func mustExist(ctx context.Context, q db.Querier, what string, id int64, query string) error {
	ok, err := exists(ctx, q, query, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(what, id)
	}
	return nil
}

// affectedOne turns a zero row mutation into NotFound.
func affectedOne(res sql.Result, what string, id int64) error {
	n, err := db.Affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(what, id)
	}
	return nil
}
