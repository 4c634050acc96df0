package http

import (
	"log/slog"
	"net/http"

	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/metrics"
	"github.com/mind-engage/quizsystem/internal/session"
)

type LoginConfig struct {
	Authenticator *auth.Authenticator
	Sessions      *session.Store
	Cookie        session.CookieConfig
	Metrics       *metrics.Metrics
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	Token   string    `json:"token"`
	Role    auth.Role `json:"role"`
	Account account   `json:"account"`
}

type account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// POST /instructor-login, POST /student-login with {email, password} as JSON
// or form. An unknown email and a wrong password look the same to clients.
func LoginHandler(c LoginConfig, role auth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fields, err := readFields(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		req := loginReq{Email: fields["email"], Password: fields["password"]}
		if err := validateRequest(req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		res, err := c.Authenticator.Login(ctx, role, req.Email, req.Password)
		if errors.Is(err, errors.CodeNotFound) || errors.Is(err, errors.CodeInvalidCredentials) {
			c.Metrics.ObserveLogin(string(role), string(errors.CodeInvalidCredentials))
			httpx.WriteError(w, r, errors.New(errors.CodeInvalidCredentials, errors.WithCause(err)))
			return
		}
		if err != nil {
			c.Metrics.ObserveLogin(string(role), "error")
			httpx.WriteError(w, r, err)
			return
		}

		// one credential per browser session
		if old := c.Cookie.ID(r); old != "" {
			if err := c.Sessions.Destroy(ctx, old); err != nil {
				slog.WarnContext(ctx, "api: destroy previous session failed", "error", err)
			}
		}
		sess, err := c.Sessions.Create(ctx, res.Credential)
		if err != nil {
			c.Metrics.ObserveLogin(string(role), "error")
			httpx.WriteError(w, r, err)
			return
		}
		c.Cookie.SetCookie(w, sess, c.Sessions.TTL())
		c.Metrics.ObserveLogin(string(role), "success")

		slog.InfoContext(ctx, "api: login", "role", role, "subject_id", res.Credential.SubjectID)
		httpx.WriteJSON(w, http.StatusOK, loginResp{
			Token: res.Token,
			Role:  role,
			Account: account{
				ID:       res.Identity.ID,
				Username: res.Identity.Username,
				Email:    res.Identity.Email,
			},
		})
	}
}

// GET|POST /logout
func LogoutHandler(c LoginConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Sessions.Destroy(r.Context(), c.Cookie.ID(r)); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		c.Cookie.ClearCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
