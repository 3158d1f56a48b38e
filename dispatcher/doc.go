// Package dispatcher routes request values to exactly one registered handler
// and threads each call through an ordered chain of behaviors.
//
// Handlers are registered per request type:
//
//	reg := dispatcher.NewRegistry()
//	_ = dispatcher.Register(reg, dispatcher.HandlerFunc[catalog.GetProductByIDQuery, catalog.ProductDto](h.Get))
//
//	d := dispatcher.New(reg, loggingBehavior, validationBehavior, cachingBehavior)
//	product, err := dispatcher.Send[catalog.ProductDto](ctx, d, catalog.GetProductByIDQuery{ID: id})
//
// Behaviors run in (Stage, Name) order no matter the order they are passed
// to New. A behavior may return without calling next, which skips every
// later behavior and the handler.
package dispatcher
