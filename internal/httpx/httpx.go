// Package httpx holds the JSON response helpers shared by handlers and
// middlewares.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mind-engage/quizsystem/internal/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError logs err with the request context and writes a bounded JSON
// error. Causes never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := errors.Convert(err)
	status := e.HTTPStatusCode()
	ctx := r.Context()

	attrs := []any{
		"code", e.Code,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(ctx),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "api: request failed", attrs...)
	} else {
		slog.InfoContext(ctx, "api: request rejected", attrs...)
	}

	msg := e.Message
	if !e.Public() {
		msg = errors.New(e.Code).Message
	}
	WriteJSON(w, status, errorBody{Error: errorDetail{Code: e.Code, Message: msg}})
}

// DecodeJSON decodes the request body into dst and rejects unknown trailing
// data.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New(errors.CodeValidationFailed,
			errors.WithMessagef("request body must be a JSON object"),
			errors.WithCause(err))
	}
	return nil
}
