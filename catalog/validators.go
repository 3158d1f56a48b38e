package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-dispatch/validation"
	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	msgProductIDsRequired = "At least one product ID is required."
	msgProductIDsBlank    = "Product IDs must not be empty or whitespace."
)

func deleteProductRules() []validation.Rule[DeleteProductCommand] {
	return []validation.Rule[DeleteProductCommand]{
		validation.RuleFunc[DeleteProductCommand](func(ctx context.Context, cmd DeleteProductCommand) []validation.Violation {
			if len(cmd.IDs) == 0 {
				return []validation.Violation{{Field: "IDs", Message: msgProductIDsRequired}}
			}
			return nil
		}),
		validation.RuleFunc[DeleteProductCommand](func(ctx context.Context, cmd DeleteProductCommand) []validation.Violation {
			for _, id := range cmd.IDs {
				if strings.TrimSpace(id) == "" {
					return []validation.Violation{{Field: "IDs", Message: msgProductIDsBlank}}
				}
			}
			return nil
		}),
	}
}

var isUUID = ozzo.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
})

func categoryRule() ozzo.Rule {
	allowed := make([]any, len(Categories))
	for i, c := range Categories {
		allowed[i] = c
	}
	return ozzo.In(allowed...).Error("must be a known category")
}

func (c CreateProductCommand) Validate() error {
	return ozzo.ValidateStruct(&c,
		ozzo.Field(&c.SKU, ozzo.Required, ozzo.Length(1, 64)),
		ozzo.Field(&c.Name, ozzo.Required, ozzo.Length(1, 200)),
		ozzo.Field(&c.Category, categoryRule()),
		ozzo.Field(&c.Price, ozzo.Min(0.0)),
		ozzo.Field(&c.Currency, ozzo.Length(3, 3)),
	)
}

func (c UpdateProductCommand) Validate() error {
	return ozzo.ValidateStruct(&c,
		ozzo.Field(&c.ID, ozzo.Required, isUUID),
		ozzo.Field(&c.SKU, ozzo.Required, ozzo.Length(1, 64)),
		ozzo.Field(&c.Name, ozzo.Required, ozzo.Length(1, 200)),
		ozzo.Field(&c.Category, categoryRule()),
		ozzo.Field(&c.Price, ozzo.Min(0.0)),
		ozzo.Field(&c.Currency, ozzo.Length(3, 3)),
	)
}

func (c ImportProductsCommand) Validate() error {
	return ozzo.ValidateStruct(&c,
		ozzo.Field(&c.CSV, ozzo.Required.Error("import payload must not be empty")),
	)
}

func (c AddStockCommand) Validate() error {
	return ozzo.ValidateStruct(&c,
		ozzo.Field(&c.ProductID, ozzo.Required, isUUID),
		ozzo.Field(&c.Quantity, ozzo.Required, ozzo.Min(1)),
		ozzo.Field(&c.Location, ozzo.Required, ozzo.Length(1, 100)),
	)
}
