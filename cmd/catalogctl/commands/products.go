package commands

import (
	"fmt"
	"os"

	"github.com/goliatone/go-dispatch/catalog"
	"github.com/spf13/cobra"
)

type productFlags struct {
	sku         string
	name        string
	category    string
	description string
	price       float64
	currency    string
	uom         string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sku, "sku", "", "Stock keeping unit")
	cmd.Flags().StringVar(&f.name, "name", "", "Product name")
	cmd.Flags().StringVar(&f.category, "category", "", "Product category")
	cmd.Flags().StringVar(&f.description, "description", "", "Product description")
	cmd.Flags().Float64Var(&f.price, "price", 0, "Unit price")
	cmd.Flags().StringVar(&f.currency, "currency", "", "ISO currency code")
	cmd.Flags().StringVar(&f.uom, "uom", "", "Unit of measure")
}

func (f *productFlags) parseCategory() (catalog.Category, error) {
	category, ok := catalog.ParseCategory(f.category)
	if !ok {
		return "", fmt.Errorf("unknown category %q", f.category)
	}
	return category, nil
}

type pageFlags struct {
	keywords string
	page     int
	size     int
	orderBy  string
	dir      string
	tenant   string
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.keywords, "keywords", "k", "", "Filter by keywords")
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&f.size, "size", catalog.DefaultPageSize, "Page size")
	cmd.Flags().StringVar(&f.orderBy, "order-by", catalog.DefaultOrderBy, "Sort field")
	cmd.Flags().StringVar(&f.dir, "dir", catalog.DefaultSortDirection, "Sort direction: Ascending or Descending")
	cmd.Flags().StringVar(&f.tenant, "tenant", "", "Restrict results to a tenant")
}

func (c *CLI) newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage products",
	}
	cmd.AddCommand(c.newProductsListCmd())
	cmd.AddCommand(c.newProductsGetCmd())
	cmd.AddCommand(c.newProductsCreateCmd())
	cmd.AddCommand(c.newProductsUpdateCmd())
	cmd.AddCommand(c.newProductsDeleteCmd())
	cmd.AddCommand(c.newProductsImportCmd())
	return cmd
}

func (c *CLI) newProductsListCmd() *cobra.Command {
	var f pageFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd, catalog.ProductsWithPaginationQuery{
				Keywords:      f.keywords,
				PageNumber:    f.page,
				PageSize:      f.size,
				OrderBy:       f.orderBy,
				SortDirection: f.dir,
				TenantID:      f.tenant,
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) newProductsGetCmd() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd, catalog.GetProductByIDQuery{ID: args[0], TenantID: tenant})
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "Tenant owning the product")
	return cmd
}

func (c *CLI) newProductsCreateCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := f.parseCategory()
			if err != nil {
				return err
			}
			return c.send(cmd, catalog.CreateProductCommand{
				SKU:         f.sku,
				Name:        f.name,
				Category:    category,
				Description: f.description,
				Price:       f.price,
				Currency:    f.currency,
				UOM:         f.uom,
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) newProductsUpdateCmd() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := f.parseCategory()
			if err != nil {
				return err
			}
			return c.send(cmd, catalog.UpdateProductCommand{
				ID:          args[0],
				SKU:         f.sku,
				Name:        f.name,
				Category:    category,
				Description: f.description,
				Price:       f.price,
				Currency:    f.currency,
				UOM:         f.uom,
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *CLI) newProductsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [ids...]",
		Short: "Delete products",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd, catalog.DeleteProductCommand{IDs: args})
		},
	}
}

func (c *CLI) newProductsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import products from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return c.send(cmd, catalog.ImportProductsCommand{CSV: data})
		},
	}
}
