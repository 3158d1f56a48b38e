package dispatcher

import "context"

// Stage orders behaviors in the chain. Lower stages run first, so they wrap
// every later stage.
type Stage int

const (
	StageLogging Stage = iota * 100
	StageValidation
	StageCaching
)

// StageTenancy sits between validation and caching, so cache keys are built
// from a request already scoped to the caller's tenant.
const StageTenancy = StageValidation + 50

// Next invokes the rest of the chain.
type Next func(ctx context.Context, req any) (any, error)

// Behavior is a cross-cutting step around request execution. Returning
// without calling next short-circuits the chain.
type Behavior interface {
	Stage() Stage
	Name() string
	Handle(ctx context.Context, req any, next Next) (any, error)
}
