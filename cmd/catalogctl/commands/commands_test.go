package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goliatone/go-dispatch/catalog"
	"github.com/goliatone/go-dispatch/cmd/catalogctl/commands"
	"github.com/goliatone/go-dispatch/dispatcher"
	"github.com/goliatone/go-dispatch/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	sent     []any
	sendFunc func(ctx context.Context, req any) (any, error)
	routes   []dispatcher.Route
}

func (m *mockApp) Send(ctx context.Context, req any) (any, error) {
	m.sent = append(m.sent, req)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, req)
	}
	return dispatcher.Unit{}, nil
}

func (m *mockApp) Routes() []dispatcher.Route {
	return m.routes
}

func execute(t *testing.T, app *mockApp, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := commands.New(app)
	cli.SetArgs(args)
	cli.SetOutput(&out, &out)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_ProductsList(t *testing.T) {
	app := &mockApp{sendFunc: func(_ context.Context, req any) (any, error) {
		return paging.NewPaginatedResult([]catalog.ProductDto{{SKU: "CH-001", Name: "Chair"}}, 1, 0, 15), nil
	}}

	out, err := execute(t, app, "products", "list", "-k", "chair", "--page", "1", "--size", "5", "--order-by", "Name", "--dir", "Ascending", "--tenant", "acme")
	require.NoError(t, err)

	require.Len(t, app.sent, 1)
	assert.Equal(t, catalog.ProductsWithPaginationQuery{
		Keywords:      "chair",
		PageNumber:    1,
		PageSize:      5,
		OrderBy:       "Name",
		SortDirection: "Ascending",
		TenantID:      "acme",
	}, app.sent[0])
	assert.Contains(t, out, `"sku": "CH-001"`)
}

func TestCommands_ProductsListDefaults(t *testing.T) {
	app := &mockApp{}

	_, err := execute(t, app, "products", "list")
	require.NoError(t, err)

	require.Len(t, app.sent, 1)
	assert.Equal(t, catalog.NewProductsWithPaginationQuery(""), app.sent[0])
}

func TestCommands_ProductsCreate(t *testing.T) {
	app := &mockApp{sendFunc: func(_ context.Context, req any) (any, error) {
		return catalog.ProductDto{ID: "1", SKU: "CH-001"}, nil
	}}

	out, err := execute(t, app, "products", "create", "--sku", "CH-001", "--name", "Chair", "--category", "furniture", "--price", "10", "-o", "yaml")
	require.NoError(t, err)

	require.Len(t, app.sent, 1)
	cmd, ok := app.sent[0].(catalog.CreateProductCommand)
	require.True(t, ok)
	assert.Equal(t, catalog.Furniture, cmd.Category)
	assert.Equal(t, 10.0, cmd.Price)
	assert.Contains(t, out, "sku: CH-001")
}

func TestCommands_ProductsCreateUnknownCategory(t *testing.T) {
	app := &mockApp{}

	_, err := execute(t, app, "products", "create", "--sku", "A", "--name", "B", "--category", "toys")
	require.Error(t, err)
	assert.Empty(t, app.sent)
}

func TestCommands_ProductsDelete(t *testing.T) {
	app := &mockApp{}

	out, err := execute(t, app, "products", "delete", "a", "b")
	require.NoError(t, err)

	assert.Equal(t, []any{catalog.DeleteProductCommand{IDs: []string{"a", "b"}}}, app.sent)
	assert.Equal(t, "ok\n", out)
}

func TestCommands_ProductsImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("SKU,Name\nCH-001,Chair\n"), 0o600))
	app := &mockApp{}

	_, err := execute(t, app, "products", "import", path)
	require.NoError(t, err)

	require.Len(t, app.sent, 1)
	assert.Equal(t, "SKU,Name\nCH-001,Chair\n", string(app.sent[0].(catalog.ImportProductsCommand).CSV))
}

func TestCommands_StocksAdd(t *testing.T) {
	app := &mockApp{sendFunc: func(_ context.Context, req any) (any, error) {
		return catalog.StockDto{ID: "s1", Quantity: 3}, nil
	}}

	_, err := execute(t, app, "stocks", "add", "-p", "p1", "-q", "3", "-l", "Warehouse A")
	require.NoError(t, err)

	assert.Equal(t, []any{catalog.AddStockCommand{ProductID: "p1", Quantity: 3, Location: "Warehouse A"}}, app.sent)
}

func TestCommands_SendError(t *testing.T) {
	app := &mockApp{sendFunc: func(context.Context, any) (any, error) {
		return nil, errors.New("simulated error")
	}}

	_, err := execute(t, app, "products", "get", "p1")
	assert.EqualError(t, err, "simulated error")
}

func TestCommands_Routes(t *testing.T) {
	app := &mockApp{routes: []dispatcher.Route{{
		Name:         "get_product_by_id_query",
		RequestType:  reflect.TypeOf(catalog.GetProductByIDQuery{}),
		ResponseType: reflect.TypeOf(catalog.ProductDto{}),
	}}}

	out, err := execute(t, app, "routes")
	require.NoError(t, err)
	assert.Equal(t, "get_product_by_id_query\tcatalog.GetProductByIDQuery -> catalog.ProductDto\n", out)
}

func TestCommands_UnknownOutput(t *testing.T) {
	app := &mockApp{sendFunc: func(context.Context, any) (any, error) {
		return catalog.ProductDto{}, nil
	}}

	_, err := execute(t, app, "products", "get", "p1", "-o", "xml")
	assert.Error(t, err)
}
