package rbac

import (
	"context"
	"strings"
)

// grants is one role's policy split into exact permissions and the
// prefixes of trailing-wildcard patterns. A bare "*" is the empty prefix.
type grants struct {
	exact    map[string]struct{}
	prefixes []string
}

func (g grants) allows(perm string) bool {
	if _, ok := g.exact[perm]; ok {
		return true
	}
	for _, p := range g.prefixes {
		if strings.HasPrefix(perm, p) {
			return true
		}
	}
	return false
}

// Checker answers permission questions for a fixed policy. It is safe for
// concurrent use.
type Checker struct {
	roles map[string]grants
}

// NewChecker compiles a role → permission patterns policy. A nil policy
// means RolePermissions.
func NewChecker(policy map[string][]string) *Checker {
	if policy == nil {
		policy = RolePermissions
	}
	c := &Checker{roles: make(map[string]grants, len(policy))}
	for role, patterns := range policy {
		g := grants{exact: make(map[string]struct{}, len(patterns))}
		for _, p := range patterns {
			if prefix, ok := strings.CutSuffix(p, "*"); ok {
				g.prefixes = append(g.prefixes, prefix)
				continue
			}
			g.exact[p] = struct{}{}
		}
		c.roles[role] = g
	}
	return c
}

func (c *Checker) Has(role, perm string) bool {
	g, ok := c.roles[role]
	return ok && g.allows(perm)
}

// Any reports whether role holds at least one of perms.
func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// RoleFromContext returns "" when no role was attached.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
