package uow

import "time"

// Audit holds the audit columns of an entity. Embed it to make the entity
// Auditable.
type Audit struct {
	Created        time.Time  `bun:"created,nullzero"`
	CreatedBy      string     `bun:"created_by"`
	LastModified   *time.Time `bun:"last_modified"`
	LastModifiedBy string     `bun:"last_modified_by"`
}

// AuditFields returns a.
func (a *Audit) AuditFields() *Audit { return a }

// Auditable entities are stamped by SaveChanges.
type Auditable interface {
	AuditFields() *Audit
}

// TenantOwned entities receive the current tenant when they are added.
type TenantOwned interface {
	Tenant() string
	AssignTenant(id string)
}

func stampCreated(entity any, userID, tenantID string, at time.Time) {
	if a, ok := entity.(Auditable); ok {
		fields := a.AuditFields()
		fields.Created = at
		fields.CreatedBy = userID
	}
	if t, ok := entity.(TenantOwned); ok && t.Tenant() == "" && tenantID != "" {
		t.AssignTenant(tenantID)
	}
}

func stampModified(entity any, userID string, at time.Time) {
	if a, ok := entity.(Auditable); ok {
		fields := a.AuditFields()
		fields.LastModified = &at
		fields.LastModifiedBy = userID
	}
}

// stampSnapshot remembers the audit fields and tenant of an entity so a failed
// SaveChanges can put them back.
type stampSnapshot struct {
	audit  *Audit
	prev   Audit
	owned  TenantOwned
	tenant string
}

func snapshotStamps(entity any) stampSnapshot {
	var snap stampSnapshot
	if a, ok := entity.(Auditable); ok {
		snap.audit = a.AuditFields()
		snap.prev = *snap.audit
	}
	if t, ok := entity.(TenantOwned); ok {
		snap.owned = t
		snap.tenant = t.Tenant()
	}
	return snap
}

func (s stampSnapshot) restore() {
	if s.audit != nil {
		*s.audit = s.prev
	}
	if s.owned != nil {
		s.owned.AssignTenant(s.tenant)
	}
}
