package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
	"github.com/mind-engage/quizsystem/internal/users"
)

// AccountStore is the instructor or student account table.
type AccountStore interface {
	Role() auth.Role
	Register(ctx context.Context, in users.RegisterInput) (users.Account, error)
	Get(ctx context.Context, id int64) (users.Account, error)
	GetByEmail(ctx context.Context, email string) (users.Account, error)
	ListUsernames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id int64, in users.UpdateInput) (users.Account, error)
	ChangePassword(ctx context.Context, id int64, password string) error
	Delete(ctx context.Context, id int64) error
}

type registerReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,password"`
}

// POST /instruct, POST /student
func RegisterHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		a, err := store.Register(r.Context(), users.RegisterInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, a)
	}
}

func GetAccountHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		a, err := store.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, a)
	}
}

// GET /instruct-email/{email}
func GetAccountByEmailHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if err := validate.Var(email, "required,email"); err != nil {
			httpx.WriteError(w, r, errors.New(errors.CodeValidationFailed, errors.WithMessagef("email is invalid")))
			return
		}
		a, err := store.GetByEmail(r.Context(), email)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, a)
	}
}

func ListUsernamesHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := store.ListUsernames(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"usernames": names})
	}
}

type updateAccountReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"omitempty,password"`
}

func UpdateAccountHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req updateAccountReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		a, err := store.Update(r.Context(), id, users.UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, a)
	}
}

type changePasswordReq struct {
	NewPassword string `json:"new_password" validate:"required,password"`
}

// PUT /instruct-pass/{id}, PUT /student-pass/{id}
func ChangePasswordHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req changePasswordReq
		if err := decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := store.ChangePassword(r.Context(), id, req.NewPassword); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteAccountHandler(store AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
