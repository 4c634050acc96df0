// Package session keeps the credential of a browser session in Redis. A
// session is addressed by a random ID carried in a cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/quizsystem/internal/auth"
	apperrors "github.com/mind-engage/quizsystem/internal/errors"
)

const (
	DefaultTTL        = 24 * time.Hour
	DefaultCookieName = "quizsystem_session"
)

type Session struct {
	ID         string          `json:"-"`
	Credential auth.Credential `json:"credential"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Config struct {
	Redis  redis.UniversalClient
	Prefix string
	TTL    time.Duration
	Now    func() time.Time
}

type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(c Config) *Store {
	s := &Store{
		redis:  c.Redis,
		prefix: c.Prefix,
		ttl:    c.TTL,
		now:    c.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) key(id string) string {
	return fmt.Sprintf("%ssession:%s", s.prefix, id)
}

// Create stores cred under a fresh session ID.
func (s *Store) Create(ctx context.Context, cred auth.Credential) (Session, error) {
	sess := Session{
		ID:         uuid.NewString(),
		Credential: cred,
		CreatedAt:  s.now().UTC(),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return Session{}, apperrors.Internal(err)
	}
	if err := s.redis.Set(ctx, s.key(sess.ID), b, s.ttl).Err(); err != nil {
		return Session{}, apperrors.Storage(fmt.Errorf("session: create: %w", err))
	}
	return sess, nil
}

// Get returns NotFound when the session is absent or has expired.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, apperrors.New(apperrors.CodeNotFound, apperrors.WithMessagef("session not found"))
	}
	b, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, apperrors.New(apperrors.CodeNotFound, apperrors.WithMessagef("session not found"))
	}
	if err != nil {
		return Session{}, apperrors.Storage(fmt.Errorf("session: get: %w", err))
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, apperrors.Internal(fmt.Errorf("session: decode %s: %w", id, err))
	}
	sess.ID = id
	return sess, nil
}

// Destroy is idempotent.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.redis.Del(ctx, s.key(id)).Err(); err != nil {
		return apperrors.Storage(fmt.Errorf("session: destroy: %w", err))
	}
	return nil
}

type CookieConfig struct {
	Name   string
	Secure bool
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// SetCookie writes the session cookie for sess.
func (c CookieConfig) SetCookie(w http.ResponseWriter, sess Session, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c CookieConfig) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ID returns the session ID carried by r, if any.
func (c CookieConfig) ID(r *http.Request) string {
	ck, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	return ck.Value
}
