package behavior

// CachableQuery is a read-only request whose response may be cached.
// CacheKey must depend only on the fields of the query.
type CachableQuery interface {
	CacheKey() string
	CacheTags() []string
}

// TagInvalidator is a command that invalidates cached responses tagged with
// any of InvalidatesTags once it succeeds.
type TagInvalidator interface {
	InvalidatesTags() []string
}

// TenantScoped is a request that reads the data of a single tenant.
// ScopedTo returns a copy of the request bound to tenantID.
type TenantScoped interface {
	RequestedTenant() string
	ScopedTo(tenantID string) any
}
