// Package auth gates mutating operations behind the two static staff roles.
// Credentials are an injectable table, sessions are signed tokens, and the
// authenticated role travels in the request context rather than any ambient
// global state.
package auth

import "context"

type contextKey string

const roleKey contextKey = "role"

// Role names understood by the authorization layer.
const (
	RoleDoctor = "doctor"
	RoleAdmin  = "admin"
)

// WithRole returns a context carrying the authenticated role.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromContext returns the authenticated role, or "" for anonymous
// requests.
func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
