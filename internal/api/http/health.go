package http

import (
	"context"
	"net/http"
	"time"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz pings every dependency with a short deadline.
func Readyz(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, p := range deps {
			if err := p.Ping(ctx); err != nil {
				httpx.WriteError(w, r, errors.New(errors.CodeStorageFailure,
					errors.WithMessagef("%s not ready", name), errors.WithCause(err)))
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
