package behavior

import (
	"context"
	"fmt"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/identity"
	"github.com/goliatone/go-dispatch/internal/errcode"
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeTenantMismatch marks requests that ask for another tenant's data.
const TextCodeTenantMismatch = "TENANT_MISMATCH"

// Tenancy binds TenantScoped requests to the tenant reported by the accessor.
// An empty requested tenant is filled in and a different one is rejected.
// Without a current tenant the request passes unchanged.
type Tenancy struct {
	accessor identity.Accessor
}

// NewTenancy returns the tenancy stage. A nil accessor reads the request context.
func NewTenancy(accessor identity.Accessor) *Tenancy {
	if accessor == nil {
		accessor = identity.ContextAccessor{}
	}
	return &Tenancy{accessor: accessor}
}

func (t *Tenancy) Stage() dispatcher.Stage { return dispatcher.StageTenancy }
func (t *Tenancy) Name() string            { return "tenancy" }

func (t *Tenancy) Handle(ctx context.Context, req any, next dispatcher.Next) (any, error) {
	scoped, ok := req.(TenantScoped)
	if !ok {
		return next(ctx, req)
	}

	tenantID, ok := t.accessor.TenantID(ctx)
	if !ok {
		return next(ctx, req)
	}

	switch requested := scoped.RequestedTenant(); requested {
	case "":
		return next(ctx, scoped.ScopedTo(tenantID))
	case tenantID:
		return next(ctx, req)
	default:
		return nil, tenantMismatch(requested)
	}
}

func tenantMismatch(requested string) error {
	return goerrors.New(fmt.Sprintf("tenant %q is not accessible to the current user", requested), goerrors.CategoryAuthz).
		WithTextCode(TextCodeTenantMismatch)
}

// IsTenantMismatch reports whether err rejected a request for another tenant.
func IsTenantMismatch(err error) bool {
	return errcode.Has(err, TextCodeTenantMismatch)
}
