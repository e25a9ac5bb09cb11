// Package validation checks request bodies and option documents with validator/v10.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/listenupapp/listenup-console/internal/domain"
	domainerrors "github.com/listenupapp/listenup-console/internal/errors"
)

// Document is an option document with its own semantic rules.
type Document interface {
	Validate() error
}

// Validator turns validator/v10 failures into VALIDATION errors keyed by
// JSON field path.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports JSON field names and knows the
// optionkey tag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		default:
			return name
		}
	})

	// optionkey accepts only keys the console registered.
	_ = v.RegisterValidation("optionkey", func(fl validator.FieldLevel) bool {
		_, ok := domain.LookupOption(fl.Field().String())
		return ok
	})

	return &Validator{v: v}
}

// Validate checks s against its struct tags. Failures come back as one
// VALIDATION error with a message per field.
func (v *Validator) Validate(s any) error {
	details := make(map[string]string)
	if err := v.collect(s, details); err != nil {
		return err
	}
	return detailsError(details)
}

// ValidateDocument runs the struct tag rules and then the document's own
// rules, reporting every failing field in one error. Tag failures win when
// both report the same field.
func (v *Validator) ValidateDocument(doc Document) error {
	details := make(map[string]string)
	if err := v.collect(doc, details); err != nil {
		return err
	}

	if err := doc.Validate(); err != nil {
		fieldErrs, ok := domain.AsValidationErrors(err)
		if !ok {
			return domainerrors.Wrap(err, domainerrors.CodeValidation, "validation failed")
		}
		for _, fe := range fieldErrs {
			if _, seen := details[fe.Field]; !seen {
				details[fe.Field] = fe.Message
			}
		}
	}
	return detailsError(details)
}

// collect adds a message per failing tag to details. Errors that are not
// tag failures, such as a non-struct argument, are returned as is.
func (v *Validator) collect(s any, details map[string]string) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) {
		return err
	}
	for _, fe := range tagErrs {
		details[fieldPath(fe)] = friendlyMessage(fe)
	}
	return nil
}

func detailsError(details map[string]string) error {
	if len(details) == 0 {
		return nil
	}
	return domainerrors.ValidationWithDetails("validation failed", details)
}

// fieldPath drops the struct name from the namespace:
// "HeaderNavModules.customMenus[0].url" becomes "customMenus[0].url".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "optionkey":
		return "is not a known option"
	default:
		return "is invalid"
	}
}
