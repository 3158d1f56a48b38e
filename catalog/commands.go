package catalog

import (
	"context"
	"strings"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/uow"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	TagProducts = "products"
	TagStocks   = "stocks"
)

// CreateProductCommand adds a product.
type CreateProductCommand struct {
	SKU         string
	Name        string
	Category    Category
	Description string
	Price       float64
	Currency    string
	UOM         string
}

func (CreateProductCommand) InvalidatesTags() []string { return []string{TagProducts} }

// UpdateProductCommand replaces the fields of an existing product.
type UpdateProductCommand struct {
	ID          string
	SKU         string
	Name        string
	Category    Category
	Description string
	Price       float64
	Currency    string
	UOM         string
}

func (UpdateProductCommand) InvalidatesTags() []string { return []string{TagProducts, TagStocks} }

// DeleteProductCommand removes products by id. Unknown ids are ignored.
type DeleteProductCommand struct {
	IDs []string
}

func (DeleteProductCommand) InvalidatesTags() []string { return []string{TagProducts, TagStocks} }

// ImportProductsCommand creates a product per CSV row. The header names the
// columns: SKU, Name, Category, Description, Price, Currency, UOM.
type ImportProductsCommand struct {
	CSV []byte
}

func (ImportProductsCommand) InvalidatesTags() []string { return []string{TagProducts} }

// AddStockCommand records a quantity of a product at a location.
type AddStockCommand struct {
	ProductID string
	Quantity  int
	Location  string
}

func (AddStockCommand) InvalidatesTags() []string { return []string{TagStocks} }

// CreateProduct handles CreateProductCommand.
func (m *Module) CreateProduct(ctx context.Context, cmd CreateProductCommand) (ProductDto, error) {
	u := m.uow.Begin()
	p := &Product{
		ID:          uuid.New(),
		SKU:         strings.TrimSpace(cmd.SKU),
		Name:        strings.TrimSpace(cmd.Name),
		Category:    cmd.Category,
		Description: cmd.Description,
		Price:       cmd.Price,
		Currency:    cmd.Currency,
		UOM:         cmd.UOM,
	}
	if p.Category == "" {
		p.Category = Electronics
	}
	p.Raise(ProductCreated{Product: toProductDto(p)})
	uow.Collection(u, m.products).Add(p)

	if err := u.SaveChanges(ctx); err != nil {
		return ProductDto{}, err
	}
	return toProductDto(p), nil
}

// UpdateProduct handles UpdateProductCommand.
func (m *Module) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (dispatcher.Unit, error) {
	id, err := uuid.Parse(cmd.ID)
	if err != nil {
		return dispatcher.Unit{}, notFound("product", cmd.ID)
	}

	u := m.uow.Begin()
	products := uow.Collection(u, m.products)
	p, found, err := products.Find(ctx, id)
	if err != nil {
		return dispatcher.Unit{}, err
	}
	if !found {
		return dispatcher.Unit{}, notFound("product", cmd.ID)
	}

	p.SKU = strings.TrimSpace(cmd.SKU)
	p.Name = strings.TrimSpace(cmd.Name)
	if cmd.Category != "" {
		p.Category = cmd.Category
	}
	p.Description = cmd.Description
	p.Price = cmd.Price
	p.Currency = cmd.Currency
	p.UOM = cmd.UOM
	p.Raise(ProductUpdated{Product: toProductDto(p)})
	products.Update(p)

	return dispatcher.Unit{}, u.SaveChanges(ctx)
}

// DeleteProducts handles DeleteProductCommand.
func (m *Module) DeleteProducts(ctx context.Context, cmd DeleteProductCommand) (dispatcher.Unit, error) {
	ids := make([]string, 0, len(cmd.IDs))
	for _, raw := range cmd.IDs {
		if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
			ids = append(ids, id.String())
		}
	}
	if len(ids) == 0 {
		return dispatcher.Unit{}, nil
	}

	u := m.uow.Begin()
	products := uow.Collection(u, m.products)
	matched, _, err := products.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.id IN (?)", bun.In(ids))
	})
	if err != nil {
		return dispatcher.Unit{}, err
	}

	for _, p := range matched {
		p.Raise(ProductDeleted{Product: toProductDto(p)})
		products.Remove(p)
	}
	return dispatcher.Unit{}, u.SaveChanges(ctx)
}

// ImportProducts handles ImportProductsCommand. Either every row is stored
// or none is.
func (m *Module) ImportProducts(ctx context.Context, cmd ImportProductsCommand) (dispatcher.Unit, error) {
	rows, err := parseProductCSV(cmd.CSV)
	if err != nil {
		return dispatcher.Unit{}, err
	}

	u := m.uow.Begin()
	products := uow.Collection(u, m.products)
	for _, row := range rows {
		p := &Product{
			ID:          uuid.New(),
			SKU:         row.SKU,
			Name:        row.Name,
			Category:    row.Category,
			Description: row.Description,
			Price:       row.Price,
			Currency:    row.Currency,
			UOM:         row.UOM,
		}
		p.Raise(ProductCreated{Product: toProductDto(p)})
		products.Add(p)
	}
	return dispatcher.Unit{}, u.SaveChanges(ctx)
}

// AddStock handles AddStockCommand.
func (m *Module) AddStock(ctx context.Context, cmd AddStockCommand) (StockDto, error) {
	productID, err := uuid.Parse(cmd.ProductID)
	if err != nil {
		return StockDto{}, notFound("product", cmd.ProductID)
	}

	u := m.uow.Begin()
	product, found, err := uow.Collection(u, m.products).Find(ctx, productID)
	if err != nil {
		return StockDto{}, err
	}
	if !found {
		return StockDto{}, notFound("product", cmd.ProductID)
	}

	s := &Stock{
		ID:        uuid.New(),
		ProductID: product.ID,
		Product:   product,
		Quantity:  cmd.Quantity,
		Location:  strings.TrimSpace(cmd.Location),
	}
	s.Raise(StockAdded{Stock: toStockDto(s)})
	uow.Collection(u, m.stocks).Add(s)

	if err := u.SaveChanges(ctx); err != nil {
		return StockDto{}, err
	}
	return toStockDto(s), nil
}
