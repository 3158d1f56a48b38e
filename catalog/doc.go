// Package catalog is the products and stocks feature served through the
// dispatcher.
//
// Commands declare the cache tags they invalidate and queries declare the
// tags their responses are stored under:
//
//	products: CreateProductCommand, UpdateProductCommand, DeleteProductCommand,
//	          ImportProductsCommand, ProductsWithPaginationQuery, GetProductByIDQuery
//	stocks:   AddStockCommand, UpdateProductCommand, DeleteProductCommand,
//	          StocksWithPaginationQuery
//
// Product changes also invalidate stocks because stock responses embed the
// product.
package catalog
