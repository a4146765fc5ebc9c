// Package validation wraps go-playground/validator with the rules the
// storefront payloads need and turns failures into models.ErrValidation.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jayjaytrn/storefront/models"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^[0-9+\- ]+$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// the "phone" tag is registered once here; a failure is a programming error
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(jsonName)

	return &Validator{v: v}
}

// Error lists the offending fields of a payload.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+" "+rule)
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

func (e *Error) Unwrap() error {
	return models.ErrValidation
}

func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldPath(fe)] = describe(fe)
	}
	return out
}

// Percent checks an optional 0-100 percentage such as VAT or discount.
func Percent(field string, p *decimal.Decimal) error {
	if p == nil {
		return nil
	}
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return &Error{Fields: map[string]string{field: "must be between 0 and 100"}}
	}
	return nil
}

// Positive checks that an amount such as a price or weight is above zero.
func Positive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return &Error{Fields: map[string]string{field: "must be greater than 0"}}
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "phone":
		return "may contain only digits, +, - and spaces"
	case "min":
		return "must have at least " + fe.Param()
	case "max":
		return "must have at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "failed " + fe.Tag()
}
