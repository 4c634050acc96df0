package rbac

import (
	"net/http"
	"strings"

	"github.com/mind-engage/quizsystem/internal/errors"
	"github.com/mind-engage/quizsystem/internal/httpx"
)

var defaultChecker = NewChecker(nil)

// guard builds a middleware that admits a request when allow returns true
// and otherwise answers 403 with reason.
func guard(reason string, allow func(r *http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(r) {
				httpx.WriteError(w, r, errors.New(errors.CodeForbidden, errors.WithMessagef("%s", reason)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Require(perm string) func(http.Handler) http.Handler {
	return guard("missing permission "+perm, func(r *http.Request) bool {
		return defaultChecker.Has(RoleFromContext(r.Context()), perm)
	})
}

// RequireAny admits roles holding at least one of perms.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return guard("missing permission "+strings.Join(perms, " or "), func(r *http.Request) bool {
		return defaultChecker.Any(RoleFromContext(r.Context()), perms...)
	})
}

// RequireOwnerOr admits the owner of the addressed resource, as judged by
// isOwner, and any role holding perm.
func RequireOwnerOr(perm string, isOwner func(r *http.Request) bool) func(http.Handler) http.Handler {
	return guard("missing permission "+perm, func(r *http.Request) bool {
		return isOwner(r) || defaultChecker.Has(RoleFromContext(r.Context()), perm)
	})
}

// RequireOwner admits only the owner of the addressed resource.
func RequireOwner(isOwner func(r *http.Request) bool) func(http.Handler) http.Handler {
	return guard("only the owner may do this", isOwner)
}
