package dispatcher

import (
	"context"
	"reflect"
)

// Handler executes a single request type.
type Handler[TReq, TResp any] interface {
	Handle(ctx context.Context, req TReq) (TResp, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[TReq, TResp any] func(ctx context.Context, req TReq) (TResp, error)

// Handle calls f(ctx, req).
func (f HandlerFunc[TReq, TResp]) Handle(ctx context.Context, req TReq) (TResp, error) {
	return f(ctx, req)
}

// Unit is the response of commands that return nothing.
type Unit struct{}

// Route describes a registered handler.
type Route struct {
	RequestType  reflect.Type
	ResponseType reflect.Type
	Name         string
}

type routeKey struct{}

// WithRoute returns a copy of ctx carrying route.
func WithRoute(ctx context.Context, route Route) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// RouteFromContext returns the route of the request being dispatched.
func RouteFromContext(ctx context.Context) (Route, bool) {
	route, ok := ctx.Value(routeKey{}).(Route)
	return route, ok
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
