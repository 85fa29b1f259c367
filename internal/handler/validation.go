package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"order-management/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator builds the request validator: JSON tag names in error
// messages, custom handling for Date and decimal fields, and the
// orderstatus rule for the closed status enum.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Dates validate as their underlying time so `required` rejects the
	// zero value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(model.Date); ok {
			if d.IsZero() {
				return nil
			}
			return d.Time
		}
		return nil
	}, model.Date{})

	// Decimals validate as float64 so `required` and `gt=0` apply.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if dec, ok := field.Interface().(decimal.Decimal); ok {
			return dec.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// orderstatus accepts only the closed status enum.
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return model.OrderStatus(fl.Field().String()).Valid()
	})

	return v
}

// validateOrderDTO runs field validation on the payload and converts any
// failures into the field→message map returned with 400.
func validateOrderDTO(v *validator.Validate, dto *model.OrderDTO) error {
	err := v.Struct(dto)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string)
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}

	return &model.ValidationError{Fields: fields}
}

// fieldPath strips the root struct name from the validator namespace,
// leaving e.g. "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

// fieldMessage renders the human-readable message for a failed rule.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "orderstatus":
		return fmt.Sprintf("%s must be one of NEW, PROCESSING, SHIPPED, DELIVERED, CANCELLED", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
