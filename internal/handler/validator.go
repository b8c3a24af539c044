package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator checks request bodies against their validate tags
type Validator struct {
	validate *validator.Validate
}

// resourceIDPattern accepts registry ids and namespaced item ids such as "minecraft:iron_ingot"
var resourceIDPattern = regexp.MustCompile(`^[a-z0-9_.\-]+(:[a-z0-9_./\-]+)?$`)

// GetValidator returns the shared validator, building it on first use
var GetValidator = sync.OnceValue(newValidator)

func newValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields under their JSON names so clients see what they sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("resource_id", func(fl validator.FieldLevel) bool {
		id := fl.Field().String()
		return id == "" || resourceIDPattern.MatchString(id)
	}); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

func (v *Validator) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

var fieldMessages = map[string]string{
	"required":    "This field is required",
	"resource_id": "Must be a lowercase id such as iron or minecraft:iron_ingot",
	"dive":        "Invalid entry",
}

// FormatValidationError maps each failing field, by JSON path, to a short
// message. Struct names stay out of the response.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		switch tag := fe.Tag(); tag {
		case "max":
			out[path] = fmt.Sprintf("Must be at most %s", fe.Param())
		case "min":
			out[path] = fmt.Sprintf("Must be at least %s", fe.Param())
		default:
			msg, ok := fieldMessages[tag]
			if !ok {
				msg = "Invalid value"
			}
			out[path] = msg
		}
	}
	return out
}
