package auth

import (
	"net/http"
	"strings"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/rbac"
)

type Kind int

const (
	Unauthenticated Kind = iota
	Forbidden
	Instructor
	Student
)

func (k Kind) String() string {
	switch k {
	case Forbidden:
		return "forbidden"
	case Instructor:
		return "instructor"
	case Student:
		return "student"
	default:
		return "unauthenticated"
	}
}

// Decision is the outcome of gating one request. Credential is only set for
// Instructor and Student.
type Decision struct {
	Kind       Kind
	Credential Credential
	Err        error
}

// BearerToken extracts the token from an Authorization header value. The
// scheme match is case-insensitive.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Gate classifies an Authorization header. It never touches storage.
func (s *Service) Gate(header string) Decision {
	token, ok := BearerToken(header)
	if !ok {
		return Decision{Kind: Unauthenticated}
	}

	cred, err := s.VerifyToken(token)
	if err != nil {
		return Decision{Kind: Forbidden, Err: err}
	}

	switch cred.Role {
	case RoleInstructor:
		return Decision{Kind: Instructor, Credential: cred}
	case RoleStudent:
		return Decision{Kind: Student, Credential: cred}
	default:
		return Decision{Kind: Forbidden, Err: errors.New(errors.CodeForbidden,
			errors.WithMessagef("unknown role %q", cred.Role))}
	}
}

// Middleware admits requests whose bearer token verifies to a known role and
// attaches the credential to the request context.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := s.Gate(r.Header.Get("Authorization"))
			switch d.Kind {
			case Unauthenticated:
				httpx.WriteError(w, r, errors.New(errors.CodeUnauthenticated,
					errors.WithMessagef("missing bearer token")))
				return
			case Forbidden:
				httpx.WriteError(w, r, errors.New(errors.CodeForbidden, errors.WithCause(d.Err)))
				return
			}

			ctx := WithCredential(r.Context(), d.Credential)
			ctx = rbac.WithRole(ctx, string(d.Credential.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
