package validators

import (
	"reflect"
	"strings"
	"unicode"

	"notetaker/cmd/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

// New builds the validator shared by every service. Field errors are reported
// under their JSON names so they line up with the request payload.
func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	_ = validate.RegisterValidation("theme", Theme)
	_ = validate.RegisterValidation("notnumeric", NotNumeric)
	return validate
}

// Theme accepts only the enumerated category themes.
func Theme(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return entity.Theme(field.String()).Valid()
}

// NotNumeric rejects values made only of digits (e.g. "12345678" as a password).
func NotNumeric(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	for _, ch := range val {
		if !unicode.IsDigit(ch) {
			return true
		}
	}
	return false
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(fld.Name)
	}
	return name
}
