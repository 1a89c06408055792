package middleware

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures the binding validator to report field names
// from json/form tags instead of Go struct field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationMessage renders a binding error as a single human-readable
// message for API responses
func ValidationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed validation: %s", e.Field(), e.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
