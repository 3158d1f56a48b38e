package behavior

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/goliatone/go-dispatch/cache"
	"github.com/goliatone/go-dispatch/dispatcher"
)

// Caching serves CachableQuery requests read-through and invalidates the tags
// of TagInvalidator commands after they succeed. Cache failures never fail
// the request.
type Caching struct {
	cache  *cache.ReadThrough
	logger *slog.Logger
}

// NewCaching returns the caching stage. A nil logger uses slog.Default.
func NewCaching(rt *cache.ReadThrough, logger *slog.Logger) *Caching {
	if logger == nil {
		logger = slog.Default()
	}
	return &Caching{cache: rt, logger: logger}
}

func (c *Caching) Stage() dispatcher.Stage { return dispatcher.StageCaching }
func (c *Caching) Name() string            { return "caching" }

func (c *Caching) Handle(ctx context.Context, req any, next dispatcher.Next) (any, error) {
	switch r := req.(type) {
	case CachableQuery:
		return c.read(ctx, r, req, next)
	case TagInvalidator:
		return c.write(ctx, r, req, next)
	default:
		return next(ctx, req)
	}
}

func (c *Caching) read(ctx context.Context, q CachableQuery, req any, next dispatcher.Next) (any, error) {
	var target reflect.Type
	if route, ok := dispatcher.RouteFromContext(ctx); ok && route.ResponseType.Kind() != reflect.Interface {
		target = route.ResponseType
	}

	key := q.CacheKey()
	resp, hit, err := c.cache.Fetch(ctx, key, q.CacheTags(), target, func(ctx context.Context) (any, error) {
		return next(ctx, req)
	})
	if hit {
		c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	}
	return resp, err
}

func (c *Caching) write(ctx context.Context, cmd TagInvalidator, req any, next dispatcher.Next) (any, error) {
	resp, err := next(ctx, req)
	if err != nil {
		return resp, err
	}

	tags := cmd.InvalidatesTags()
	if len(tags) == 0 {
		return resp, nil
	}

	if ctx.Err() != nil {
		c.logger.WarnContext(ctx, "request cancelled after commit, tags not invalidated",
			slog.Any("tags", tags))
		return resp, nil
	}

	if err := c.cache.Invalidate(ctx, tags...); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("tags", tags), slog.Any("error", err))
	}
	return resp, nil
}
