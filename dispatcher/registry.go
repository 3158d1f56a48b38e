package dispatcher

import (
	"context"
	"reflect"
	"sync"

	"github.com/goliatone/go-dispatch/internal/naming"
	"github.com/puzpuzpuz/xsync/v3"
)

type invoker func(ctx context.Context, req any) (any, error)

type registration struct {
	route  Route
	invoke invoker
}

// Registry maps request types to handlers. Requests are matched on their
// dynamic type first; if no handler is registered for it, handlers
// registered for interface types the request implements are considered.
type Registry struct {
	mu         sync.RWMutex
	exact      map[reflect.Type]*registration
	interfaces []*registration
	resolved   *xsync.MapOf[reflect.Type, *registration]
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		exact:    make(map[reflect.Type]*registration),
		resolved: xsync.NewMapOf[reflect.Type, *registration](),
	}
}

// Register adds h as the handler of TReq. A second handler for the same
// request type is rejected with a HANDLER_AMBIGUOUS error.
func Register[TReq, TResp any](r *Registry, h Handler[TReq, TResp]) error {
	reqType := typeOf[TReq]()
	reg := &registration{
		route: Route{
			RequestType:  reqType,
			ResponseType: typeOf[TResp](),
			Name:         naming.TypeNameOf(reqType),
		},
		invoke: func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(TReq)
			if !ok {
				return nil, handlerNotFound(reflect.TypeOf(req))
			}
			return h.Handle(ctx, typed)
		},
	}
	return r.add(reg)
}

// RegisterFunc is Register for a plain function.
func RegisterFunc[TReq, TResp any](r *Registry, fn func(ctx context.Context, req TReq) (TResp, error)) error {
	return Register[TReq, TResp](r, HandlerFunc[TReq, TResp](fn))
}

func (r *Registry) add(reg *registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reqType := reg.route.RequestType
	if reqType.Kind() == reflect.Interface {
		for _, existing := range r.interfaces {
			if existing.route.RequestType == reqType {
				return handlerAmbiguous(reqType)
			}
		}
		r.interfaces = append(r.interfaces, reg)
	} else {
		if _, exists := r.exact[reqType]; exists {
			return handlerAmbiguous(reqType)
		}
		r.exact[reqType] = reg
	}

	r.resolved.Clear()
	return nil
}

// Routes returns every registered route.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]Route, 0, len(r.exact)+len(r.interfaces))
	for _, reg := range r.exact {
		routes = append(routes, reg.route)
	}
	for _, reg := range r.interfaces {
		routes = append(routes, reg.route)
	}
	return routes
}

func (r *Registry) resolve(reqType reflect.Type) (*registration, error) {
	if reqType == nil {
		return nil, handlerNotFound(nil)
	}
	if reg, ok := r.resolved.Load(reqType); ok {
		return reg, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if reg, ok := r.exact[reqType]; ok {
		r.resolved.Store(reqType, reg)
		return reg, nil
	}

	var matches []*registration
	for _, reg := range r.interfaces {
		if reqType.Implements(reg.route.RequestType) {
			matches = append(matches, reg)
		}
	}

	switch len(matches) {
	case 0:
		return nil, handlerNotFound(reqType)
	case 1:
		r.resolved.Store(reqType, matches[0])
		return matches[0], nil
	default:
		candidates := make([]reflect.Type, len(matches))
		for i, m := range matches {
			candidates[i] = m.route.RequestType
		}
		return nil, handlerAmbiguous(reqType, candidates...)
	}
}
