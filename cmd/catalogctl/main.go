// Package main is the entry point for catalogctl.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-dispatch/cmd/catalogctl/commands"
	"github.com/goliatone/go-dispatch/config"
	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/identity"
	"github.com/goliatone/go-dispatch/pkg/di"
	"github.com/goliatone/go-dispatch/validation"
)

// ContainerProvider builds the container the commands run against.
type ContainerProvider func(ctx context.Context) (*di.Container, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, defaultProvider(os.Stderr)))
}

func defaultProvider(logs io.Writer) ContainerProvider {
	return func(ctx context.Context) (*di.Container, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		user := identity.Static{User: os.Getenv("USER"), Tenant: os.Getenv("DISPATCH_TENANT")}
		return di.NewContainer(ctx, cfg, di.WithLogOutput(logs), di.WithIdentity(user))
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, provider ContainerProvider) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	container, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer container.Close()

	if err := container.CreateSchema(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	cli := commands.New(app{container})
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		for _, v := range validation.Violations(err) {
			_, _ = fmt.Fprintf(stderr, "  %s: %s\n", v.Field, v.Message)
		}
		return 1
	}
	return 0
}

type app struct {
	container *di.Container
}

func (a app) Send(ctx context.Context, req any) (any, error) {
	return a.container.Dispatcher().Send(ctx, req)
}

func (a app) Routes() []dispatcher.Route {
	return a.container.Registry().Routes()
}
