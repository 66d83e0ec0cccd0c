package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "storefront/internal/errors"
)

// phoneRe matches the accepted phone number shape: optional leading +,
// then 10-20 digits, spaces, dashes or parentheses.
var phoneRe = regexp.MustCompile(`^\+?[0-9\s\-()]{10,20}$`)

// Validator validates entity structs against their validate tags and
// reports failures as field-level validation errors.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom phone rule registered. Field names
// in errors come from json tags so they match column naming.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s and returns a ValidationError naming the first offending
// field and constraint, or nil.
func (v *Validator) Struct(entity string, s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.Validation(entity, fe.Field(), fe.Tag())
	}
	return apperrors.Validation(entity, "", "invalid")
}

// Var validates a single value against a rule, reporting failures under field.
func (v *Validator) Var(entity, field, rule string, value interface{}) error {
	if err := v.validate.Var(value, rule); err != nil {
		return apperrors.Validation(entity, field, rule)
	}
	return nil
}

// Underlying exposes the wrapped validator for echo request validation.
func (v *Validator) Underlying() *validator.Validate {
	return v.validate
}
