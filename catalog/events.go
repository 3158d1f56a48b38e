package catalog

import "github.com/goliatone/go-dispatch/events"

// Event is implemented only by the catalog event variants.
type Event interface {
	events.Payload
	catalogEvent()
}

// ProductCreated is raised for every new product, including imported ones.
type ProductCreated struct {
	Product ProductDto
}

// ProductUpdated is raised when product fields change.
type ProductUpdated struct {
	Product ProductDto
}

// ProductDeleted is raised when a product is removed.
type ProductDeleted struct {
	Product ProductDto
}

// StockAdded is raised when stock is recorded for a product.
type StockAdded struct {
	Stock StockDto
}

func (ProductCreated) EventName() string { return "catalog.product_created" }
func (ProductUpdated) EventName() string { return "catalog.product_updated" }
func (ProductDeleted) EventName() string { return "catalog.product_deleted" }
func (StockAdded) EventName() string     { return "catalog.stock_added" }

func (ProductCreated) catalogEvent() {}
func (ProductUpdated) catalogEvent() {}
func (ProductDeleted) catalogEvent() {}
func (StockAdded) catalogEvent()     {}
