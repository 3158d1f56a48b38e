// Package commands implements the catalogctl command line interface.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Application sends requests through the dispatcher.
type Application interface {
	Send(ctx context.Context, req any) (any, error)
	Routes() []dispatcher.Route
}

// CLI represents the catalogctl command line interface.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	output  string
}

// New creates a CLI that sends its requests to a.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Send catalog commands and queries through the dispatcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &CLI{app: a, rootCmd: rootCmd}
	rootCmd.PersistentFlags().StringVarP(&c.output, "output", "o", "json", "Output format: json or yaml")

	rootCmd.AddCommand(c.newProductsCmd())
	rootCmd.AddCommand(c.newStocksCmd())
	rootCmd.AddCommand(c.newRoutesCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) send(cmd *cobra.Command, req any) error {
	resp, err := c.app.Send(cmd.Context(), req)
	if err != nil {
		return err
	}
	if _, ok := resp.(dispatcher.Unit); ok {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return err
	}
	return c.print(cmd.OutOrStdout(), resp)
}

func (c *CLI) print(w io.Writer, v any) error {
	switch c.output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", c.output)
	}
}

func (c *CLI) newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the registered request handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range c.app.Routes() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s -> %s\n", r.Name, r.RequestType, r.ResponseType); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
