package auth

import "context"

type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Known reports whether r is one of the two roles the system grants access to.
func (r Role) Known() bool {
	return r == RoleInstructor || r == RoleStudent
}

// Credential is the identity established at login and carried by tokens.
type Credential struct {
	SubjectID int64 `json:"subject_id"`
	Role      Role  `json:"role"`
}

type ctxKey struct{}

func WithCredential(ctx context.Context, c Credential) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func CredentialFromContext(ctx context.Context) (Credential, bool) {
	c, ok := ctx.Value(ctxKey{}).(Credential)
	return c, ok
}
