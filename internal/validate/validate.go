// Package validate checks decoded request payloads against their declared shape.
//
// A shape is a struct whose fields carry `json` and `validate` tags. Optional
// fields are pointers so that an absent field can be told apart from a zero
// value. Only the first violation is reported.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error describes the first constraint a payload violated.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates shape and returns *Error for the first violated constraint.
func Struct(shape any) error {
	err := engine.Struct(shape)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &Error{Field: fe.Field(), Message: message(fe)}
	}
	return fmt.Errorf("validate payload: %w", err)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if numeric {
			return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
		}
		if fe.Param() == "1" {
			return fmt.Sprintf("%q is not allowed to be empty", field)
		}
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		if numeric {
			return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
		}
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	default:
		return fmt.Sprintf("%q failed on the %q rule", field, fe.Tag())
	}
}

func isNumeric(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// DecodeError turns a JSON decoding failure into a validation error.
// An empty body is not an error: the shape is validated as an empty object.
func DecodeError(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return &Error{Message: "request body must be a JSON object"}
		}
		switch {
		case isInteger(typeErr.Type.Kind()) && strings.HasPrefix(typeErr.Value, "number"):
			return &Error{Field: field, Message: fmt.Sprintf("%q must be an integer", field)}
		case isNumeric(typeErr.Type.Kind()):
			return &Error{Field: field, Message: fmt.Sprintf("%q must be a number", field)}
		case typeErr.Type.Kind() == reflect.String:
			return &Error{Field: field, Message: fmt.Sprintf("%q must be a string", field)}
		default:
			return &Error{Field: field, Message: fmt.Sprintf("%q has an invalid type", field)}
		}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Message: "request body must be valid JSON"}
	}

	return &Error{Message: err.Error()}
}

// RejectNulls reports the first field of shape that body sets to an explicit null.
// Bodies that are not JSON objects are left to the decoder to report.
func RejectNulls(body []byte, shape any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil
	}

	t := reflect.TypeOf(shape)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := fields[name]
		if !ok || string(bytes.TrimSpace(raw)) != "null" {
			continue
		}
		return &Error{Field: name, Message: fmt.Sprintf("%q must be %s", name, expected(f.Type))}
	}
	return nil
}

func expected(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case isNumeric(t.Kind()):
		return "a number"
	case t.Kind() == reflect.String:
		return "a string"
	default:
		return "a valid value"
	}
}
