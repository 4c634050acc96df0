package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/session"
)

func makeStore(t *testing.T) (*session.Store, *miniredis.Miniredis) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{rs.Addr()},
	})
	require.NoError(t, rc.Ping(ctx).Err(), "should be able to ping redis")
	t.Cleanup(func() { _ = rc.Close() })

	return session.NewStore(session.Config{Redis: rc, Prefix: "test:", TTL: time.Hour}), rs
}

func TestStore_Lifecycle(t *testing.T) {
	s, rs := makeStore(t)
	ctx := context.Background()
	cred := auth.Credential{SubjectID: 4, Role: auth.RoleStudent}

	sess, err := s.Create(ctx, cred)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	require.True(t, rs.Exists("test:session:"+sess.ID))
	require.Equal(t, time.Hour, rs.TTL("test:session:"+sess.ID))

	got, err := s.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, cred, got.Credential)
	require.Equal(t, sess.ID, got.ID)

	require.NoError(t, s.Destroy(ctx, sess.ID))
	_, err = s.Get(ctx, sess.ID)
	require.True(t, errors.Is(err, errors.CodeNotFound))

	require.NoError(t, s.Destroy(ctx, sess.ID), "destroy should be idempotent")
}

func TestStore_Expiry(t *testing.T) {
	s, rs := makeStore(t)
	ctx := context.Background()

	sess, err := s.Create(ctx, auth.Credential{SubjectID: 1, Role: auth.RoleInstructor})
	require.NoError(t, err)

	rs.FastForward(2 * time.Hour)

	_, err = s.Get(ctx, sess.ID)
	require.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestStore_StorageFailure(t *testing.T) {
	s, rs := makeStore(t)
	rs.Close()

	_, err := s.Create(context.Background(), auth.Credential{SubjectID: 1, Role: auth.RoleInstructor})
	require.True(t, errors.Is(err, errors.CodeStorageFailure))
}

func TestCookieConfig(t *testing.T) {
	c := session.CookieConfig{Secure: true}

	rec := httptest.NewRecorder()
	c.SetCookie(rec, session.Session{ID: "abc"}, time.Hour)

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.DefaultCookieName, cookies[0].Name)
	require.Equal(t, "abc", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.True(t, cookies[0].Secure)
	require.Equal(t, 3600, cookies[0].MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	require.Equal(t, "abc", c.ID(req))

	require.Empty(t, c.ID(httptest.NewRequest(http.MethodGet, "/", nil)))
}
