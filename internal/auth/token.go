package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Service issues and verifies HS256 tokens. Tokens are signed with the
// current secret; previous secrets are still accepted for verification so a
// key can be rotated without logging everyone out.
type Service struct {
	secret   []byte
	previous [][]byte
	ttl      time.Duration
	issuer   string
	now      func() time.Time
}

type Option func(*Service)

// WithTTL sets token lifetime. Zero means tokens carry no exp claim.
func WithTTL(d time.Duration) Option { return func(s *Service) { s.ttl = d } }

func WithIssuer(iss string) Option { return func(s *Service) { s.issuer = iss } }

func WithPreviousSecrets(secrets ...string) Option {
	return func(s *Service) {
		for _, p := range secrets {
			if p != "" {
				s.previous = append(s.previous, []byte(p))
			}
		}
	}
}

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(secret string, opts ...Option) *Service {
	s := &Service{secret: []byte(secret), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) IssueToken(c Credential) (string, error) {
	now := s.now()
	claims := &Claims{
		Role: string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(c.SubjectID, 10),
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// VerifyToken checks signature, algorithm, expiry and issuer. The returned
// role is whatever the token says; callers decide whether it is acceptable.
func (s *Service) VerifyToken(tokenStr string) (Credential, error) {
	keys := append([][]byte{s.secret}, s.previous...)

	var lastErr error
	for _, key := range keys {
		claims, err := s.parse(tokenStr, key)
		if err == nil {
			id, err := strconv.ParseInt(claims.Subject, 10, 64)
			if err != nil {
				return Credential{}, fmt.Errorf("%w: subject %q", ErrInvalidToken, claims.Subject)
			}
			return Credential{SubjectID: id, Role: Role(claims.Role)}, nil
		}
		lastErr = err
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			break
		}
	}
	return Credential{}, fmt.Errorf("%w: %w", ErrInvalidToken, lastErr)
}

func (s *Service) parse(tokenStr string, key []byte) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("unexpected claims")
	}
	return c, nil
}
