package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/events"
	"github.com/goliatone/go-dispatch/uow"
	"github.com/goliatone/go-dispatch/validation"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// Module owns the catalog repositories and request handlers.
type Module struct {
	uow      *uow.Factory
	products repository.Repository[*Product]
	stocks   repository.Repository[*Stock]
	logger   *slog.Logger
}

// NewModule builds the catalog on top of factory. A nil logger uses slog.Default.
func NewModule(factory *uow.Factory, logger *slog.Logger) *Module {
	if logger == nil {
		logger = slog.Default()
	}
	db := factory.DB()
	return &Module{
		uow:      factory,
		products: repository.NewRepository[*Product](db, productHandlers()),
		stocks:   repository.NewRepository[*Stock](db, stockHandlers()),
		logger:   logger,
	}
}

// Register adds every catalog handler to reg.
func (m *Module) Register(reg *dispatcher.Registry) error {
	return errors.Join(
		dispatcher.RegisterFunc(reg, m.CreateProduct),
		dispatcher.RegisterFunc(reg, m.UpdateProduct),
		dispatcher.RegisterFunc(reg, m.DeleteProducts),
		dispatcher.RegisterFunc(reg, m.ImportProducts),
		dispatcher.RegisterFunc(reg, m.AddStock),
		dispatcher.RegisterFunc(reg, m.ProductsWithPagination),
		dispatcher.RegisterFunc(reg, m.GetProductByID),
		dispatcher.RegisterFunc(reg, m.StocksWithPagination),
	)
}

// Prototypes returns one value of every request the catalog handles, for
// dispatcher.Verify.
func Prototypes() []any {
	return []any{
		CreateProductCommand{},
		UpdateProductCommand{},
		DeleteProductCommand{},
		ImportProductsCommand{},
		AddStockCommand{},
		ProductsWithPaginationQuery{},
		GetProductByIDQuery{},
		StocksWithPaginationQuery{},
	}
}

func productHandlers() repository.ModelHandlers[*Product] {
	return repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID:         func(p *Product, id uuid.UUID) { p.ID = id },
		GetIdentifier: func() string { return "sku" },
	}
}

func stockHandlers() repository.ModelHandlers[*Stock] {
	return repository.ModelHandlers[*Stock]{
		NewRecord: func() *Stock { return &Stock{} },
		GetID: func(s *Stock) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID:         func(s *Stock, id uuid.UUID) { s.ID = id },
		GetIdentifier: func() string { return "location" },
	}
}

// SubscribeEventHandlers logs every catalog event.
func (m *Module) SubscribeEventHandlers(d *events.Dispatcher) {
	events.Subscribe(d, "catalog.log_product_created", func(ctx context.Context, e ProductCreated, env events.Envelope) error {
		return m.logEvent(ctx, env, slog.String("product_id", e.Product.ID))
	})
	events.Subscribe(d, "catalog.log_product_updated", func(ctx context.Context, e ProductUpdated, env events.Envelope) error {
		return m.logEvent(ctx, env, slog.String("product_id", e.Product.ID))
	})
	events.Subscribe(d, "catalog.log_product_deleted", func(ctx context.Context, e ProductDeleted, env events.Envelope) error {
		return m.logEvent(ctx, env, slog.String("product_id", e.Product.ID))
	})
	events.Subscribe(d, "catalog.log_stock_added", func(ctx context.Context, e StockAdded, env events.Envelope) error {
		return m.logEvent(ctx, env,
			slog.String("stock_id", e.Stock.ID),
			slog.String("product_id", e.Stock.ProductID),
			slog.Int("quantity", e.Stock.Quantity))
	})
}

func (m *Module) logEvent(ctx context.Context, env events.Envelope, attrs ...any) error {
	attrs = append([]any{
		slog.String("event", env.Name()),
		slog.Time("occurred_at", env.OccurredAt),
	}, attrs...)
	m.logger.InfoContext(ctx, "handled domain event", attrs...)
	return nil
}

// RegisterRules adds the catalog validation rules to rules.
func RegisterRules(rules *validation.Registry) {
	validation.Register(rules, deleteProductRules()...)
	validation.Register(rules, validation.Validatable[CreateProductCommand]())
	validation.Register(rules, validation.Validatable[UpdateProductCommand]())
	validation.Register(rules, validation.Validatable[ImportProductsCommand]())
	validation.Register(rules, validation.Validatable[AddStockCommand]())
}
