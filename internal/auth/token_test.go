package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/auth"
)

func TestService_IssueAndVerify(t *testing.T) {
	s := auth.NewService("secret", auth.WithIssuer("quizsystem"))

	token, err := s.IssueToken(auth.Credential{SubjectID: 42, Role: auth.RoleInstructor})
	require.NoError(t, err)

	got, err := s.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, auth.Credential{SubjectID: 42, Role: auth.RoleInstructor}, got)
}

func TestService_VerifyToken_Failures(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := auth.NewService("secret", auth.WithTTL(time.Minute), auth.WithClock(func() time.Time { return t0 }))
	token, err := issuer.IssueToken(auth.Credential{SubjectID: 1, Role: auth.RoleStudent})
	require.NoError(t, err)

	tests := map[string]struct {
		verifier *auth.Service
		token    string
		cause    error
	}{
		"wrong secret": {
			verifier: auth.NewService("other", auth.WithClock(func() time.Time { return t0 })),
			token:    token,
			cause:    jwt.ErrTokenSignatureInvalid,
		},
		"expired": {
			verifier: auth.NewService("secret", auth.WithClock(func() time.Time { return t0.Add(2 * time.Minute) })),
			token:    token,
			cause:    jwt.ErrTokenExpired,
		},
		"malformed": {
			verifier: issuer,
			token:    "not-a-jwt",
			cause:    jwt.ErrTokenMalformed,
		},
		"missing issuer": {
			verifier: auth.NewService("secret", auth.WithIssuer("quizsystem"), auth.WithClock(func() time.Time { return t0 })),
			token:    token,
			cause:    jwt.ErrTokenRequiredClaimMissing,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tc.verifier.VerifyToken(tc.token)
			require.ErrorIs(t, err, auth.ErrInvalidToken)
			require.ErrorIs(t, err, tc.cause)
		})
	}
}

func TestService_NoExpiryByDefault(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := auth.NewService("secret", auth.WithClock(func() time.Time { return t0 })).
		IssueToken(auth.Credential{SubjectID: 7, Role: auth.RoleStudent})
	require.NoError(t, err)

	later := auth.NewService("secret", auth.WithClock(func() time.Time { return t0.AddDate(5, 0, 0) }))
	_, err = later.VerifyToken(token)
	require.NoError(t, err)
}

func TestService_KeyRotation(t *testing.T) {
	old := auth.NewService("old-secret")
	token, err := old.IssueToken(auth.Credential{SubjectID: 3, Role: auth.RoleStudent})
	require.NoError(t, err)

	rotated := auth.NewService("new-secret", auth.WithPreviousSecrets("old-secret"))
	got, err := rotated.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.SubjectID)

	retired := auth.NewService("new-secret")
	_, err = retired.VerifyToken(token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
