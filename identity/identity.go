// Package identity carries the current user and tenant on the request
// context. Handlers read them through Accessor and never from globals.
package identity

import "context"

// User identifies the caller of a request.
type User struct {
	ID       string
	TenantID string
}

type userKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// FromContext returns the user stored on ctx.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userKey{}).(User)
	return u, ok
}

// Accessor reads the current user and tenant. A false result means absent.
type Accessor interface {
	UserID(ctx context.Context) (string, bool)
	TenantID(ctx context.Context) (string, bool)
}

// ContextAccessor reads the user stored by WithUser.
type ContextAccessor struct{}

func (ContextAccessor) UserID(ctx context.Context) (string, bool) {
	u, ok := FromContext(ctx)
	if !ok || u.ID == "" {
		return "", false
	}
	return u.ID, true
}

func (ContextAccessor) TenantID(ctx context.Context) (string, bool) {
	u, ok := FromContext(ctx)
	if !ok || u.TenantID == "" {
		return "", false
	}
	return u.TenantID, true
}

// Static always reports the same user. It is meant for tools and tests that
// run outside a request.
type Static struct {
	User   string
	Tenant string
}

func (s Static) UserID(context.Context) (string, bool) {
	return s.User, s.User != ""
}

func (s Static) TenantID(context.Context) (string, bool) {
	return s.Tenant, s.Tenant != ""
}
