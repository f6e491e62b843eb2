// Package validator wraps go-playground validation for form input checking.
package validator

import "github.com/go-playground/validator/v10"

// Validator validates structs against their `validate` tags. A single
// instance is shared across modules; it caches struct metadata internally.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{
		v: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Struct validates s against its validation tags. On failure the returned
// error is a validator.ValidationErrors; see Errors.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a custom validation function under the given tag.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Errors unwraps err into per-field validation errors. The second return is
// false when err did not originate from Struct or Var.
func Errors(err error) (validator.ValidationErrors, bool) {
	ve, ok := err.(validator.ValidationErrors)
	return ve, ok
}
