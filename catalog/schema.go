package catalog

import (
	"context"

	"github.com/uptrace/bun"
)

// CreateSchema creates the catalog tables when they do not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*Product)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	if _, err := db.NewCreateTable().
		Model((*Stock)(nil)).
		IfNotExists().
		ForeignKey(`("product_id") REFERENCES "products" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return err
	}

	_, err := db.NewCreateIndex().
		Model((*Product)(nil)).
		Index("products_tenant_sku_idx").
		Column("tenant_id", "sku").
		IfNotExists().
		Exec(ctx)
	return err
}
