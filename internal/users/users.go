// Package users stores instructor and student accounts. Both roles share
// one implementation over their own table.
package users

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/eventlog"
	"github.com/mind-engage/quizsystem/internal/quiz"
)

type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateInput replaces username and email. An empty Password keeps the
// current one.
type UpdateInput struct {
	Username string
	Email    string
	Password string
}

type Store struct {
	db    *db.DB
	role  auth.Role
	table string
	cost  int
	now   func() time.Time
}

func NewInstructorStore(d *db.DB, bcryptCost int) *Store {
	return &Store{db: d, role: auth.RoleInstructor, table: "instructor", cost: bcryptCost, now: time.Now}
}

func NewStudentStore(d *db.DB, bcryptCost int) *Store {
	return &Store{db: d, role: auth.RoleStudent, table: "student", cost: bcryptCost, now: time.Now}
}

func (s *Store) Role() auth.Role { return s.role }

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (s *Store) notFound(format string, args ...any) error {
	return errors.New(errors.CodeNotFound, errors.WithMessagef("%s %s not found", s.role, fmt.Sprintf(format, args...)))
}

// checkUnique rejects a username or email held by another account. except is
// the account being updated, zero on register.
func (s *Store) checkUnique(ctx context.Context, q db.Querier, username, email string, except int64) error {
	var taken string
	err := q.QueryRowContext(ctx,
		`SELECT CASE WHEN username=$1 THEN 'username' ELSE 'email' END FROM `+s.table+`
		 WHERE (username=$1 OR email=$2) AND id<>$3 LIMIT 1`,
		username, email, except).Scan(&taken)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return errors.New(errors.CodeDuplicateConflict, errors.WithMessagef("%s already taken", taken))
}

func (s *Store) Register(ctx context.Context, in RegisterInput) (Account, error) {
	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return Account{}, errors.New(errors.CodeValidationFailed, errors.WithMessagef("password cannot be hashed"), errors.WithCause(err))
	}
	a := Account{
		Username:  strings.TrimSpace(in.Username),
		Email:     normEmail(in.Email),
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.checkUnique(ctx, tx, a.Username, a.Email, 0); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO `+s.table+` (username, email, password_hash, created_at) VALUES ($1,$2,$3,$4) RETURNING id`,
			a.Username, a.Email, hash, a.CreatedAt.Unix()).Scan(&a.ID)
	})
	if err != nil {
		return Account{}, db.Classify(err)
	}
	return a, nil
}

type identityRow struct {
	Account
	hash string
}

func (s *Store) scanOne(ctx context.Context, q db.Querier, where string, arg any) (identityRow, error) {
	var (
		r       identityRow
		created int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM `+s.table+` WHERE `+where, arg).
		Scan(&r.ID, &r.Username, &r.Email, &r.hash, &created)
	if err != nil {
		return identityRow{}, err
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	return r, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Account, error) {
	r, err := s.scanOne(ctx, s.db.SQL, `id=$1`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Account{}, s.notFound("%d", id)
	}
	if err != nil {
		return Account{}, db.Classify(fmt.Errorf("get %s %d: %w", s.role, id, err))
	}
	return r.Account, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (Account, error) {
	id, err := s.FindIdentity(ctx, email)
	if err != nil {
		return Account{}, err
	}
	return Account{ID: id.ID, Username: id.Username, Email: id.Email, CreatedAt: id.CreatedAt}, nil
}

// FindIdentity returns the login record for email, NotFound when absent.
func (s *Store) FindIdentity(ctx context.Context, email string) (auth.Identity, error) {
	r, err := s.scanOne(ctx, s.db.SQL, `email=$1`, normEmail(email))
	if stderrors.Is(err, sql.ErrNoRows) {
		return auth.Identity{}, s.notFound("with email %q", normEmail(email))
	}
	if err != nil {
		return auth.Identity{}, db.Classify(fmt.Errorf("find %s identity: %w", s.role, err))
	}
	return auth.Identity{ID: r.ID, Username: r.Username, Email: r.Email, PasswordHash: r.hash, CreatedAt: r.CreatedAt}, nil
}

func (s *Store) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := s.db.SQL.QueryContext(ctx, `SELECT username FROM `+s.table+` ORDER BY id`)
	if err != nil {
		return nil, db.Classify(fmt.Errorf("list %s usernames: %w", s.role, err))
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, db.Classify(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateInput) (Account, error) {
	var hash string
	if in.Password != "" {
		var err error
		if hash, err = auth.HashPassword(in.Password, s.cost); err != nil {
			return Account{}, errors.New(errors.CodeValidationFailed, errors.WithMessagef("password cannot be hashed"), errors.WithCause(err))
		}
	}
	username, email := strings.TrimSpace(in.Username), normEmail(in.Email)

	var out Account
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, err := s.scanOne(ctx, tx, `id=$1`, id)
		if stderrors.Is(err, sql.ErrNoRows) {
			return s.notFound("%d", id)
		}
		if err != nil {
			return err
		}
		if err := s.checkUnique(ctx, tx, username, email, id); err != nil {
			return err
		}
		if hash == "" {
			hash = cur.hash
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE `+s.table+` SET username=$1, email=$2, password_hash=$3 WHERE id=$4`,
			username, email, hash, id); err != nil {
			return err
		}
		out = Account{ID: id, Username: username, Email: email, CreatedAt: cur.CreatedAt}
		return nil
	})
	if err != nil {
		return Account{}, db.Classify(err)
	}
	return out, nil
}

func (s *Store) ChangePassword(ctx context.Context, id int64, password string) error {
	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return errors.New(errors.CodeValidationFailed, errors.WithMessagef("password cannot be hashed"), errors.WithCause(err))
	}
	res, err := s.db.SQL.ExecContext(ctx, `UPDATE `+s.table+` SET password_hash=$1 WHERE id=$2`, hash, id)
	if err != nil {
		return db.Classify(fmt.Errorf("change %s password: %w", s.role, err))
	}
	n, err := db.Affected(res)
	if err != nil {
		return db.Classify(err)
	}
	if n == 0 {
		return s.notFound("%d", id)
	}
	return nil
}

// Delete removes an account with everything it owns in one transaction. For
// an instructor that is their quizzes (with questions, choices and results)
// and announcements; for a student their results and announcements.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var removedQuizzes int64
		switch s.role {
		case auth.RoleInstructor:
			n, err := quiz.DeleteInstructorQuizzes(ctx, tx, id)
			if err != nil {
				return err
			}
			removedQuizzes = n
			if _, err := tx.ExecContext(ctx, `DELETE FROM announcement WHERE instructor_id=$1`, id); err != nil {
				return err
			}
		case auth.RoleStudent:
			for _, stmt := range []string{
				`DELETE FROM result WHERE student_id=$1`,
				`DELETE FROM announcement WHERE student_id=$1`,
			} {
				if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
					return err
				}
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE id=$1`, id)
		if err != nil {
			return err
		}
		n, err := db.Affected(res)
		if err != nil {
			return err
		}
		if n == 0 {
			return s.notFound("%d", id)
		}

		if s.role == auth.RoleInstructor {
			return eventlog.Append(ctx, tx, eventlog.TypeInstructorDeleted, fmt.Sprintf("instructor:%d", id),
				map[string]int64{"instructor_id": id, "quizzes_removed": removedQuizzes})
		}
		return nil
	})
	return db.Classify(err)
}
