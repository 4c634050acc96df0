package http

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/errors"
)

const maxBodyBytes = 1 << 20

// pathID parses an integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.CodeValidationFailed, errors.WithMessagef("%s must be a positive integer", name))
	}
	return id, nil
}

func caller(r *http.Request) (auth.Credential, error) {
	c, ok := auth.CredentialFromContext(r.Context())
	if !ok {
		return auth.Credential{}, errors.New(errors.CodeUnauthenticated)
	}
	return c, nil
}

func isStudent(r *http.Request) bool {
	c, ok := auth.CredentialFromContext(r.Context())
	return ok && c.Role == auth.RoleStudent
}

// Self reports whether the caller has role and the URL parameter param is
// the caller's own ID.
func Self(role auth.Role, param string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		c, ok := auth.CredentialFromContext(r.Context())
		if !ok || c.Role != role {
			return false
		}
		id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
		return err == nil && id == c.SubjectID
	}
}

// readFields flattens a JSON object or a url-encoded form into string values.
// Login and quiz submission accept either encoding.
func readFields(r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, errors.New(errors.CodeValidationFailed, errors.WithMessagef("malformed form"), errors.WithCause(err))
		}
		out := make(map[string]string, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
		return out, nil
	}

	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.New(errors.CodeValidationFailed,
			errors.WithMessagef("request body must be a JSON object or a form"), errors.WithCause(err))
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case bool:
			out[k] = strconv.FormatBool(v)
		default:
			return nil, errors.New(errors.CodeValidationFailed, errors.WithMessagef("%s must be a scalar", k))
		}
	}
	return out, nil
}

func optionalID(fields map[string]string, keys ...string) (int64, bool, error) {
	for _, k := range keys {
		v := strings.TrimSpace(fields[k])
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false, errors.New(errors.CodeValidationFailed, errors.WithMessagef("%s must be an integer", k))
		}
		return id, true, nil
	}
	return 0, false, nil
}
