package auth

import (
	"context"
	"sync"
	"time"

	"github.com/mind-engage/quizsystem/internal/errors"
)

// Identity is the stored login record of an instructor or a student.
type Identity struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type IdentityFinder interface {
	FindIdentity(ctx context.Context, email string) (Identity, error)
}

type LoginResult struct {
	Credential Credential
	Token      string
	Identity   Identity
}

type Authenticator struct {
	tokens  *Service
	cost    int
	finders map[Role]IdentityFinder

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthenticator(tokens *Service, cost int, instructors, students IdentityFinder) *Authenticator {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &Authenticator{
		tokens: tokens,
		cost:   cost,
		finders: map[Role]IdentityFinder{
			RoleInstructor: instructors,
			RoleStudent:    students,
		},
	}
}

// Login verifies email and password against the role's identities and issues
// a token. It fails with NotFound for an unknown email and InvalidCredentials
// for a wrong password.
func (a *Authenticator) Login(ctx context.Context, role Role, email, password string) (LoginResult, error) {
	finder, ok := a.finders[role]
	if !ok || finder == nil {
		return LoginResult{}, errors.New(errors.CodeForbidden, errors.WithMessagef("unknown role %q", role))
	}

	id, err := finder.FindIdentity(ctx, email)
	if errors.Is(err, errors.CodeNotFound) {
		// keep the timing of unknown emails close to a real comparison
		CheckPassword(a.dummy(), password)
		return LoginResult{}, err
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !CheckPassword(id.PasswordHash, password) {
		return LoginResult{}, errors.New(errors.CodeInvalidCredentials)
	}

	cred := Credential{SubjectID: id.ID, Role: role}
	token, err := a.tokens.IssueToken(cred)
	if err != nil {
		return LoginResult{}, errors.Internal(err)
	}
	return LoginResult{Credential: cred, Token: token, Identity: id}, nil
}

func (a *Authenticator) dummy() string {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = HashPassword("not-a-real-password", a.cost)
	})
	return a.dummyHash
}
