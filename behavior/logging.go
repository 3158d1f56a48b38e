package behavior

import (
	"context"
	"log/slog"
	"time"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/internal/naming"
	"github.com/goliatone/go-dispatch/validation"
)

// Logging records the name, duration and outcome of every request.
type Logging struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewLogging returns the logging stage. A nil logger uses slog.Default.
func NewLogging(logger *slog.Logger) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logging{logger: logger, now: time.Now}
}

func (l *Logging) Stage() dispatcher.Stage { return dispatcher.StageLogging }
func (l *Logging) Name() string            { return "logging" }

func (l *Logging) Handle(ctx context.Context, req any, next dispatcher.Next) (any, error) {
	name := naming.TypeName(req)
	if route, ok := dispatcher.RouteFromContext(ctx); ok {
		name = route.Name
	}

	start := l.now()
	resp, err := next(ctx, req)
	attrs := []any{
		slog.String("request", name),
		slog.Duration("duration", l.now().Sub(start)),
	}

	switch {
	case err == nil:
		l.logger.DebugContext(ctx, "request handled", attrs...)
	case validation.IsValidationFailed(err):
		l.logger.InfoContext(ctx, "request rejected", append(attrs, slog.Any("violations", validation.Violations(err)))...)
	default:
		l.logger.ErrorContext(ctx, "request failed", append(attrs, slog.Any("error", err))...)
	}
	return resp, err
}
