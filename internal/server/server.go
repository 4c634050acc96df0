package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/quizsystem/internal/announcement"
	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/metrics"
	"github.com/mind-engage/quizsystem/internal/quiz"
	"github.com/mind-engage/quizsystem/internal/session"
	"github.com/mind-engage/quizsystem/internal/telemetry"
	"github.com/mind-engage/quizsystem/internal/users"
)

type Server struct {
	c Config

	infra struct {
		db    *db.DB
		redis redis.UniversalClient
	}

	service struct {
		tokens        *auth.Service
		authenticator *auth.Authenticator
		sessions      *session.Store
		instructors   *users.Store
		students      *users.Store
		quizzes       *quiz.SQLStore
		announcements *announcement.Store
	}

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	handler http.Handler
	http    *http.Server
}

// Init connects to the database and Redis and assembles the server.
func Init(c Config) (*Server, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	d, err := openDB(c)
	if err != nil {
		return nil, fmt.Errorf("server: init db: %w", err)
	}

	r, err := connectRedis(c)
	if err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("server: init redis: %w", err)
	}

	s, err := New(c, d, r)
	if err != nil {
		_ = r.Close()
		_ = d.Close()
		return nil, err
	}
	return s, nil
}

// New assembles a server on already connected infrastructure. The server
// takes ownership of d and r and closes them on Shutdown.
func New(c Config, d *db.DB, r redis.UniversalClient) (*Server, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{c: c}
	s.infra.db = d
	s.infra.redis = r

	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = metrics.New(s.registry)

	s.initService()
	s.handler = s.routes()
	s.http = &http.Server{
		Addr:              c.HTTP.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func openDB(c Config) (*db.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	driver, err := db.ParseDriver(c.DB.Driver)
	if err != nil {
		return nil, err
	}
	return db.Open(ctx, driver, c.DB.DSN)
}

func connectRedis(c Config) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    c.Session.Addrs,
		Password: c.Session.Password,
	})

	if err := telemetry.MonitorRedis(r); err != nil {
		_ = r.Close()
		return nil, err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func (s *Server) initService() {
	s.service.tokens = auth.NewService(s.c.Auth.Secret,
		auth.WithTTL(s.c.Auth.TokenTTL),
		auth.WithIssuer(s.c.Auth.Issuer),
		auth.WithPreviousSecrets(s.c.Auth.PreviousSecrets...),
	)

	s.service.instructors = users.NewInstructorStore(s.infra.db, s.c.Auth.BcryptCost)
	s.service.students = users.NewStudentStore(s.infra.db, s.c.Auth.BcryptCost)
	s.service.authenticator = auth.NewAuthenticator(s.service.tokens, s.c.Auth.BcryptCost,
		s.service.instructors, s.service.students)

	s.service.sessions = session.NewStore(session.Config{
		Redis:  s.infra.redis,
		Prefix: s.c.Session.Prefix,
		TTL:    s.c.Session.TTL,
	})

	s.service.quizzes = quiz.NewSQLStore(s.infra.db)
	s.service.announcements = announcement.NewStore(s.infra.db)
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Start serves HTTP until ctx is cancelled or the listener fails, then drains
// in-flight requests. Call Shutdown afterwards to release Redis and the
// database.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer cancel()
		slog.InfoContext(ctx, "server: HTTP listening", "addr", s.c.HTTP.Addr, "db", s.infra.db.Driver)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", s.c.HTTP.Addr, err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		return s.drainHTTP()
	})

	if err := eg.Wait(); err != nil {
		slog.Error("server: stopped with error", "error", err)
		return err
	}
	return nil
}

func (s *Server) drainHTTP() error {
	timeout := s.c.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then closes Redis and the database.
func (s *Server) Shutdown() {
	ctx := context.Background()

	if err := s.drainHTTP(); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}
	if err := s.infra.redis.Close(); err != nil {
		slog.ErrorContext(ctx, "server: close redis failed", "error", err)
	}
	if err := s.infra.db.Close(); err != nil {
		slog.ErrorContext(ctx, "server: close db failed", "error", err)
	}

	slog.InfoContext(ctx, "server: shutdown completed")
}

type redisPinger struct{ r redis.UniversalClient }

func (p redisPinger) Ping(ctx context.Context) error { return p.r.Ping(ctx).Err() }
