// ABOUTME: Authenticated principal carried through request handlers
// ABOUTME: Provides WithPrincipal/FromContext and the username fallback rules

package auth

import (
	"context"
	"fmt"
	"slices"
)

// Role values granted to principals.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Name  string
	Roles []string
}

// Username returns the principal's login name.
func (p *Principal) Username() string {
	return p.Name
}

// HasRole reports whether the principal was granted role.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

func (p *Principal) String() string {
	return fmt.Sprintf("Principal [name=%s, roles=%v]", p.Name, p.Roles)
}

// Identified is implemented by principals that expose a structured username.
type Identified interface {
	Username() string
}

// UsernameOf returns the display name of an arbitrary principal value.
// Structured identities win; anything else falls back to its string form.
func UsernameOf(principal any) string {
	switch p := principal.(type) {
	case nil:
		return ""
	case Identified:
		return p.Username()
	case fmt.Stringer:
		return p.String()
	default:
		return fmt.Sprint(p)
	}
}

// principalContextKey is the key type for storing the principal in context.Context.
type principalContextKey struct{}

// WithPrincipal returns a new context with the principal attached.
func WithPrincipal(ctx context.Context, principal any) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// FromContext retrieves the principal from the context, returning nil if not present.
func FromContext(ctx context.Context) any {
	return ctx.Value(principalContextKey{})
}

// CurrentUser returns the username of the principal in ctx, or "" when the
// request is anonymous.
func CurrentUser(ctx context.Context) string {
	return UsernameOf(FromContext(ctx))
}

// rolesOf returns the roles of principals that carry them.
func rolesOf(principal any) []string {
	if p, ok := principal.(*Principal); ok && p != nil {
		return p.Roles
	}
	return nil
}
