package http

import (
	"net/http"

	"github.com/mind-engage/quizsystem/internal/db"
	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/eventlog"
	"github.com/mind-engage/quizsystem/internal/httpx"
)

// EventsHandler serves GET /events?type=ResultRecorded, the audit trail of
// one event type in append order.
func EventsHandler(q db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := r.URL.Query().Get("type")
		if !eventlog.Known(typ) {
			httpx.WriteError(w, r, errors.New(errors.CodeValidationFailed,
				errors.WithMessagef("unknown event type %q", typ)))
			return
		}
		events, err := eventlog.List(r.Context(), q, typ)
		if err != nil {
			httpx.WriteError(w, r, errors.Storage(err))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, events)
	}
}
