package behavior

import (
	"context"
	"testing"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/identity"
)

type tenantReport struct {
	TenantID string
}

func (q tenantReport) RequestedTenant() string { return q.TenantID }

func (q tenantReport) ScopedTo(tenantID string) any {
	q.TenantID = tenantID
	return q
}

func newTenantDispatcher(t *testing.T, accessor identity.Accessor, seen *[]string) *dispatcher.Dispatcher {
	t.Helper()
	reg := dispatcher.NewRegistry()
	err := dispatcher.RegisterFunc(reg, func(ctx context.Context, q tenantReport) (dispatcher.Unit, error) {
		*seen = append(*seen, q.TenantID)
		return dispatcher.Unit{}, nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return dispatcher.New(reg, NewTenancy(accessor))
}

func TestTenancy_ScopesRequests(t *testing.T) {
	tests := []struct {
		name      string
		accessor  identity.Accessor
		requested string
		want      string
		mismatch  bool
	}{
		{"empty tenant is filled in", identity.Static{Tenant: "acme"}, "", "acme", false},
		{"own tenant passes", identity.Static{Tenant: "acme"}, "acme", "acme", false},
		{"foreign tenant is rejected", identity.Static{Tenant: "acme"}, "globex", "", true},
		{"no current tenant keeps request", identity.Static{User: "admin"}, "globex", "globex", false},
		{"no current tenant and no request", identity.Static{}, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []string
			d := newTenantDispatcher(t, tt.accessor, &seen)

			_, err := d.Send(context.Background(), tenantReport{TenantID: tt.requested})
			if tt.mismatch {
				if !IsTenantMismatch(err) {
					t.Fatalf("expected tenant mismatch, got %v", err)
				}
				if len(seen) != 0 {
					t.Errorf("expected handler to be skipped, saw %v", seen)
				}
				return
			}
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}
			if len(seen) != 1 || seen[0] != tt.want {
				t.Errorf("expected handler to see tenant %q, saw %v", tt.want, seen)
			}
		})
	}
}

func TestTenancy_ReadsRequestContextByDefault(t *testing.T) {
	var seen []string
	d := newTenantDispatcher(t, nil, &seen)

	ctx := identity.WithUser(context.Background(), identity.User{ID: "u1", TenantID: "acme"})
	if _, err := d.Send(ctx, tenantReport{}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(seen) != 1 || seen[0] != "acme" {
		t.Errorf("expected tenant from context, saw %v", seen)
	}
}

func TestTenancy_RunsBeforeCaching(t *testing.T) {
	if stage := NewTenancy(nil).Stage(); stage <= dispatcher.StageValidation || stage >= dispatcher.StageCaching {
		t.Errorf("expected tenancy between validation and caching, got stage %d", stage)
	}
}
