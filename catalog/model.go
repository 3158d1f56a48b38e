package catalog

import (
	"strings"

	"github.com/goliatone/go-dispatch/events"
	"github.com/goliatone/go-dispatch/uow"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Category groups products.
type Category string

const (
	Electronics Category = "Electronics"
	Furniture   Category = "Furniture"
	Clothing    Category = "Clothing"
	Food        Category = "Food"
	Beverages   Category = "Beverages"
	HealthCare  Category = "HealthCare"
	Sports      Category = "Sports"
)

// Categories lists every known category.
var Categories = []Category{Electronics, Furniture, Clothing, Food, Beverages, HealthCare, Sports}

// ParseCategory matches name case-insensitively. An empty name is Electronics.
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Electronics, true
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}

// Product is the product aggregate.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	events.Buffer `bun:"-"`
	uow.Audit

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	SKU         string    `bun:"sku,notnull"`
	Name        string    `bun:"name,notnull"`
	Category    Category  `bun:"category"`
	Description string    `bun:"description"`
	Price       float64   `bun:"price"`
	Currency    string    `bun:"currency"`
	UOM         string    `bun:"uom"`
	TenantID    string    `bun:"tenant_id"`
}

func (p *Product) Tenant() string          { return p.TenantID }
func (p *Product) AssignTenant(id string) { p.TenantID = id }

// Stock is a quantity of a product held at a location.
type Stock struct {
	bun.BaseModel `bun:"table:stocks,alias:s"`
	events.Buffer `bun:"-"`
	uow.Audit

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ProductID uuid.UUID `bun:"product_id,type:uuid,notnull"`
	Product   *Product  `bun:"rel:belongs-to,join:product_id=id"`
	Quantity  int       `bun:"quantity"`
	Location  string    `bun:"location,notnull"`
	TenantID  string    `bun:"tenant_id"`
}

func (s *Stock) Tenant() string          { return s.TenantID }
func (s *Stock) AssignTenant(id string) { s.TenantID = id }

// ProductDto is the response shape of a product.
type ProductDto struct {
	ID          string   `json:"id" msgpack:"id"`
	SKU         string   `json:"sku" msgpack:"sku"`
	Name        string   `json:"name" msgpack:"name"`
	Category    Category `json:"category" msgpack:"category"`
	Description string   `json:"description,omitempty" msgpack:"description"`
	Price       float64  `json:"price" msgpack:"price"`
	Currency    string   `json:"currency,omitempty" msgpack:"currency"`
	UOM         string   `json:"uom,omitempty" msgpack:"uom"`
}

// StockDto is the response shape of a stock entry.
type StockDto struct {
	ID        string     `json:"id" msgpack:"id"`
	ProductID string     `json:"product_id" msgpack:"product_id"`
	Product   ProductDto `json:"product" msgpack:"product"`
	Quantity  int        `json:"quantity" msgpack:"quantity"`
	Location  string     `json:"location" msgpack:"location"`
}

func toProductDto(p *Product) ProductDto {
	if p == nil {
		return ProductDto{Category: Electronics}
	}
	return ProductDto{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		UOM:         p.UOM,
	}
}

func toStockDto(s *Stock) StockDto {
	dto := StockDto{
		ID:       s.ID.String(),
		Product:  toProductDto(s.Product),
		Quantity: s.Quantity,
		Location: s.Location,
	}
	if s.ProductID != uuid.Nil {
		dto.ProductID = s.ProductID.String()
	}
	return dto
}
