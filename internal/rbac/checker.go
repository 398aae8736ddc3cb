package rbac

import (
	"context"
	"strings"
)

// Checker answers permission questions against a role -> permissions map.
// A nil map falls back to the default policy in rules.go.
type Checker struct {
	perms map[string][]string
}

func NewChecker(perms map[string][]string) *Checker {
	if perms == nil {
		perms = RolePermissions
	}
	return &Checker{perms: perms}
}

func (c *Checker) Has(role, perm string) bool {
	for _, p := range c.perms[role] {
		if matchPerm(p, perm) {
			return true
		}
	}
	return false
}

func (c *Checker) Any(role string, perms ...string) bool {
	for _, p := range perms {
		if c.Has(role, p) {
			return true
		}
	}
	return false
}

// matchPerm supports exact matches and a trailing-* prefix wildcard, so
// "block:*" grants every block permission and "*" grants everything.
func matchPerm(pattern, perm string) bool {
	if pattern == "*" || pattern == perm {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(perm, strings.TrimSuffix(pattern, "*"))
	}
	return false
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	s, _ := ctx.Value(roleKey{}).(string)
	return s
}
