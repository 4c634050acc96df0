package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/auth"
	"github.com/mind-engage/quizsystem/internal/errors"
)

func TestReadFields(t *testing.T) {
	tests := map[string]struct {
		contentType string
		body        string
		want        map[string]string
		wantErr     bool
	}{
		"json scalars": {
			contentType: "application/json",
			body:        `{"email":"a@b.c","question7":12,"flag":true,"skip":null}`,
			want:        map[string]string{"email": "a@b.c", "question7": "12", "flag": "true", "skip": ""},
		},
		"form": {
			contentType: "application/x-www-form-urlencoded; charset=utf-8",
			body:        "email=a%40b.c&question7=12",
			want:        map[string]string{"email": "a@b.c", "question7": "12"},
		},
		"json nested value": {
			contentType: "application/json",
			body:        `{"question7":[1,2]}`,
			wantErr:     true,
		},
		"not json": {
			contentType: "text/plain",
			body:        "hello",
			wantErr:     true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)

			got, err := readFields(req)
			if tc.wantErr {
				require.True(t, errors.Is(err, errors.CodeValidationFailed), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestOptionalID(t *testing.T) {
	id, ok, err := optionalID(map[string]string{"student_id": "9"}, "studentID", "student_id")
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 9, id)

	_, ok, err = optionalID(map[string]string{"studentID": " "}, "studentID")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = optionalID(map[string]string{"studentID": "x"}, "studentID")
	require.True(t, errors.Is(err, errors.CodeValidationFailed))
}

func TestSelf(t *testing.T) {
	request := func(id string, cred *auth.Credential) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx := context.WithValue(context.Background(), chi.RouteCtxKey, rctx)
		if cred != nil {
			ctx = auth.WithCredential(ctx, *cred)
		}
		return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	}
	self := Self(auth.RoleStudent, "id")

	require.True(t, self(request("4", &auth.Credential{SubjectID: 4, Role: auth.RoleStudent})))
	require.False(t, self(request("5", &auth.Credential{SubjectID: 4, Role: auth.RoleStudent})))
	require.False(t, self(request("4", &auth.Credential{SubjectID: 4, Role: auth.RoleInstructor})))
	require.False(t, self(request("4", nil)))
}

func TestValidatePassword(t *testing.T) {
	type req struct {
		Password string `json:"password" validate:"required,password"`
	}

	tests := map[string]struct {
		password string
		valid    bool
	}{
		"ok":            {"Secret1!", true},
		"too short":     {"Ab!", false},
		"no uppercase":  {"secret1!", false},
		"no special":    {"Secret12", false},
		"too long":      {"A!" + strings.Repeat("x", 71), false},
		"exactly six":   {"Abcd#e", true},
		"other special": {"Secret1?", false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := validateRequest(req{Password: tc.password})
			if tc.valid {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, errors.CodeValidationFailed))
			require.Contains(t, err.Error(), "password (password)")
		})
	}
}
