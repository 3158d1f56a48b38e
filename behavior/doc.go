// Package behavior provides the cross-cutting stages of the dispatcher chain:
// request logging, rule validation, tenant scoping and tag-aware caching.
//
// Caching is driven only by the shape of the request. Queries implementing
// CachableQuery are served read-through; commands implementing TagInvalidator
// invalidate their tags after the handler succeeds. TenantScoped requests
// are bound to the caller's tenant before the caching stage sees them.
package behavior
