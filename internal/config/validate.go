package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report configuration key names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// check validates v and flattens validator errors into one readable error.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing `%s`", field)
	case "min":
		return fmt.Sprintf("`%s` needs at least %s item(s)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("`%s` must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("`%s` must be at least %s", field, fe.Param())
	case "contains":
		return fmt.Sprintf("`%s` must contain `%s`", field, fe.Param())
	default:
		return fmt.Sprintf("`%s` failed `%s` validation", field, fe.Tag())
	}
}
