package shared

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Global validator instance for reuse
var validate = validator.New()

// DecodeForm parses the request form into v and validates it. v must be a
// pointer to a struct; fields tagged `form:"name"` are filled from the
// form or query value of that name. String fields get the raw value and
// bool fields report whether the key was present.
func DecodeForm(r *http.Request, v interface{}) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("form target must be a pointer to a struct, got %T", v)
	}

	elem := rv.Elem()
	typ := elem.Type()
	for i := 0; i < typ.NumField(); i++ {
		name := typ.Field(i).Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}

		field := elem.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(r.Form.Get(name))
		case reflect.Bool:
			_, present := r.Form[name]
			field.SetBool(present)
		default:
			return fmt.Errorf("unsupported form field %s of kind %s", typ.Field(i).Name, field.Kind())
		}
	}

	return ValidateRequest(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	return validate.Struct(v)
}
