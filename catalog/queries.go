package catalog

import (
	"context"
	"strings"

	"github.com/goliatone/go-dispatch/cache"
	"github.com/goliatone/go-dispatch/paging"
	"github.com/goliatone/go-dispatch/uow"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	DefaultPageSize      = 15
	DefaultOrderBy       = "Id"
	DefaultSortDirection = "Descending"
)

var keys = cache.NewDefaultKeySerializer()

var productColumns = paging.NewColumns("id").
	Field("SKU", "sku").
	Field("Name", "name").
	Field("Category", "category").
	Field("Price", "price").
	Field("Created", "created")

var stockColumns = paging.NewColumns("id").
	Field("Location", "location").
	Field("Quantity", "quantity").
	Field("Created", "created")

// ProductsWithPaginationQuery lists products matching Keywords one page at a time.
type ProductsWithPaginationQuery struct {
	Keywords      string
	PageNumber    int
	PageSize      int
	OrderBy       string
	SortDirection string
	TenantID      string
}

// NewProductsWithPaginationQuery returns the first page of products matching keywords.
func NewProductsWithPaginationQuery(keywords string) ProductsWithPaginationQuery {
	return ProductsWithPaginationQuery{
		Keywords:      keywords,
		PageSize:      DefaultPageSize,
		OrderBy:       DefaultOrderBy,
		SortDirection: DefaultSortDirection,
	}
}

func (q ProductsWithPaginationQuery) CacheKey() string {
	return keys.SerializeKey("productswithpagination",
		q.TenantID, q.Keywords, q.PageNumber, q.PageSize, q.OrderBy, q.SortDirection)
}

func (ProductsWithPaginationQuery) CacheTags() []string { return []string{TagProducts} }

func (q ProductsWithPaginationQuery) RequestedTenant() string { return q.TenantID }

func (q ProductsWithPaginationQuery) ScopedTo(tenantID string) any {
	q.TenantID = tenantID
	return q
}

// GetProductByIDQuery loads a single product.
type GetProductByIDQuery struct {
	ID       string
	TenantID string
}

func (q GetProductByIDQuery) CacheKey() string {
	return keys.SerializeKey("product", q.TenantID, q.ID)
}

func (GetProductByIDQuery) CacheTags() []string { return []string{TagProducts} }

func (q GetProductByIDQuery) RequestedTenant() string { return q.TenantID }

func (q GetProductByIDQuery) ScopedTo(tenantID string) any {
	q.TenantID = tenantID
	return q
}

// StocksWithPaginationQuery lists stock entries with their product. Keywords
// match the location or the product name, SKU and description.
type StocksWithPaginationQuery struct {
	Keywords      string
	ProductID     string
	PageNumber    int
	PageSize      int
	OrderBy       string
	SortDirection string
	TenantID      string
}

// NewStocksWithPaginationQuery returns the first page of stocks matching keywords.
func NewStocksWithPaginationQuery(keywords string) StocksWithPaginationQuery {
	return StocksWithPaginationQuery{
		Keywords:      keywords,
		PageSize:      DefaultPageSize,
		OrderBy:       DefaultOrderBy,
		SortDirection: DefaultSortDirection,
	}
}

func (q StocksWithPaginationQuery) CacheKey() string {
	return keys.SerializeKey("stockswithpagination",
		q.TenantID, q.Keywords, q.ProductID, q.PageNumber, q.PageSize, q.OrderBy, q.SortDirection)
}

func (StocksWithPaginationQuery) CacheTags() []string { return []string{TagStocks} }

func (q StocksWithPaginationQuery) RequestedTenant() string { return q.TenantID }

func (q StocksWithPaginationQuery) ScopedTo(tenantID string) any {
	q.TenantID = tenantID
	return q
}

// ProductsWithPagination handles ProductsWithPaginationQuery.
func (m *Module) ProductsWithPagination(ctx context.Context, q ProductsWithPaginationQuery) (paging.PaginatedResult[ProductDto], error) {
	dir, err := paging.ParseSortDirection(q.SortDirection)
	if err != nil {
		return paging.PaginatedResult[ProductDto]{}, err
	}

	filter := func(sq *bun.SelectQuery) *bun.SelectQuery {
		sq = tenantScope(sq, q.TenantID)
		if kw := likePattern(q.Keywords); kw != "" {
			sq = sq.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
				return g.Where("?TableAlias.name LIKE ?", kw).
					WhereOr("?TableAlias.sku LIKE ?", kw).
					WhereOr("?TableAlias.description LIKE ?", kw)
			})
		}
		return sq
	}

	return paging.ProjectQuery(ctx, m.uow.DB(), productColumns, filter,
		q.OrderBy, dir, q.PageNumber, q.PageSize, toProductDto)
}

// GetProductByID handles GetProductByIDQuery.
func (m *Module) GetProductByID(ctx context.Context, q GetProductByIDQuery) (ProductDto, error) {
	id, err := uuid.Parse(strings.TrimSpace(q.ID))
	if err != nil {
		return ProductDto{}, notFound("product", q.ID)
	}

	p, found, err := uow.Collection(m.uow.Begin(), m.products).Find(ctx, id, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return tenantScope(sq, q.TenantID)
	})
	if err != nil {
		return ProductDto{}, err
	}
	if !found {
		return ProductDto{}, notFound("product", q.ID)
	}
	return toProductDto(p), nil
}

// StocksWithPagination handles StocksWithPaginationQuery.
func (m *Module) StocksWithPagination(ctx context.Context, q StocksWithPaginationQuery) (paging.PaginatedResult[StockDto], error) {
	dir, err := paging.ParseSortDirection(q.SortDirection)
	if err != nil {
		return paging.PaginatedResult[StockDto]{}, err
	}

	filter := func(sq *bun.SelectQuery) *bun.SelectQuery {
		sq = tenantScope(sq.Relation("Product"), q.TenantID)
		if id, err := uuid.Parse(strings.TrimSpace(q.ProductID)); err == nil {
			sq = sq.Where("?TableAlias.product_id = ?", id.String())
		}
		if kw := likePattern(q.Keywords); kw != "" {
			sq = sq.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
				return g.Where("?TableAlias.location LIKE ?", kw).
					WhereOr("product.name LIKE ?", kw).
					WhereOr("product.sku LIKE ?", kw).
					WhereOr("product.description LIKE ?", kw)
			})
		}
		return sq
	}

	return paging.ProjectQuery(ctx, m.uow.DB(), stockColumns, filter,
		q.OrderBy, dir, q.PageNumber, q.PageSize, toStockDto)
}

func tenantScope(q *bun.SelectQuery, tenantID string) *bun.SelectQuery {
	if tenantID == "" {
		return q
	}
	return q.Where("?TableAlias.tenant_id = ?", tenantID)
}

func likePattern(keywords string) string {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return ""
	}
	return "%" + keywords + "%"
}
