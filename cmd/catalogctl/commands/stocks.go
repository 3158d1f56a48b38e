package commands

import (
	"github.com/goliatone/go-dispatch/catalog"
	"github.com/spf13/cobra"
)

func (c *CLI) newStocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "Manage stock entries",
	}
	cmd.AddCommand(c.newStocksAddCmd())
	cmd.AddCommand(c.newStocksListCmd())
	return cmd
}

func (c *CLI) newStocksAddCmd() *cobra.Command {
	var (
		productID string
		quantity  int
		location  string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record stock for a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd, catalog.AddStockCommand{
				ProductID: productID,
				Quantity:  quantity,
				Location:  location,
			})
		},
	}
	cmd.Flags().StringVarP(&productID, "product", "p", "", "Product id")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "Quantity")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Storage location")
	return cmd
}

func (c *CLI) newStocksListCmd() *cobra.Command {
	var (
		f         pageFlags
		productID string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stock entries one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.send(cmd, catalog.StocksWithPaginationQuery{
				Keywords:      f.keywords,
				ProductID:     productID,
				PageNumber:    f.page,
				PageSize:      f.size,
				OrderBy:       f.orderBy,
				SortDirection: f.dir,
				TenantID:      f.tenant,
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&productID, "product", "p", "", "Only stock of this product")
	return cmd
}
