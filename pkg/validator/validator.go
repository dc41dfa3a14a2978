package validator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

// newValidate builds the shared validator. Field names are reported by their
// JSON tag so errors line up with the wire shape ("offers[1].offerUrl").
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return v
}

// Validate validates a struct using go-playground/validator tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return fromValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError carries every violated field at once, keyed by its JSON
// path relative to the validated value.
type ValidationError struct {
	fields map[string]string
}

// NewValidationError returns an empty error that callers fill with Add.
func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string]string)}
}

func fromValidationErrors(errs validator.ValidationErrors) *ValidationError {
	ve := NewValidationError()
	for _, fe := range errs {
		ve.Add(fieldPath(fe), msgForTag(fe))
	}
	return ve
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if _, exists := e.fields[field]; !exists {
		e.fields[field] = message
	}
	return e
}

// Empty reports whether no field has been recorded.
func (e *ValidationError) Empty() bool {
	return len(e.fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", k, e.fields[k]))
	}
	return strings.Join(msgs, "; ")
}

// ErrorCode is the envelope code for schema violations.
func (e *ValidationError) ErrorCode() string { return "VALIDATION_ERROR" }

// ErrorMessage is the envelope message for schema violations.
func (e *ValidationError) ErrorMessage() string { return "validation failed" }

// Fields returns a map of field paths to error messages.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// fieldPath drops the root struct name from the namespace:
// "Form.offers[0].offerUrl" becomes "offers[0].offerUrl".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func msgForTag(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// DecodeAndValidate reads JSON from the request body, decodes it into dst,
// and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return Validate(dst)
}
