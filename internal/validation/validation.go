// Package validation holds the request rules shared by the HTTP layer and
// the library service: ISBN format, dates strictly in the past, and the
// field-level error descriptions returned to clients.
//
// Rules are expressed as struct tags under the "binding" key so the same
// structs validate through gin's binding and through direct calls:
//
//	type CreateBookInput struct {
//		ISBN        string              `json:"isbn" binding:"required,isbn"`
//		PublishDate validation.Timestamp `json:"publish_date" binding:"required,past"`
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagISBN = "isbn"
	TagPast = "past"
)

// ISBNPattern is four hyphen-delimited groups, the last a single digit or X.
var ISBNPattern = regexp.MustCompile(`^[0-9]{1,5}-[0-9]{1,7}-[0-9]{1,5}-[0-9X]$`)

// ValidISBN reports whether s matches ISBNPattern.
func ValidISBN(s string) bool {
	return ISBNPattern.MatchString(s)
}

// InPast reports whether t is strictly before now, compared in UTC.
func InPast(t, now time.Time) bool {
	return t.UTC().Before(now.UTC())
}

// New builds a validator using the "binding" tag key, JSON field names in
// errors, and the isbn and past rules. now is consulted on every check.
func New(now func() time.Time) *validator.Validate {
	if now == nil {
		now = time.Now
	}

	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(timestampValue, Timestamp{})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(TagISBN, func(fl validator.FieldLevel) bool {
		return ValidISBN(fl.Field().String())
	})
	_ = v.RegisterValidation(TagPast, func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return InPast(t, now())
	})
	return v
}

func jsonFieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func timestampValue(v reflect.Value) any {
	if ts, ok := v.Interface().(Timestamp); ok {
		return ts.Time()
	}
	return nil
}

// GinValidator adapts a validator to gin's binding.StructValidator.
type GinValidator struct {
	validate *validator.Validate
}

// NewGinValidator wraps v for use as binding.Validator.
func NewGinValidator(v *validator.Validate) *GinValidator {
	return &GinValidator{validate: v}
}

// ValidateStruct validates structs and pointers to structs; other values pass.
func (g *GinValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return g.validate.Struct(obj)
}

// Engine returns the underlying *validator.Validate.
func (g *GinValidator) Engine() any {
	return g.validate
}

// UseWithGin makes gin's ShouldBind* helpers validate with v.
func UseWithGin(v *validator.Validate) {
	binding.Validator = NewGinValidator(v)
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Describe converts a binding or validation error into field errors.
// Errors that do not come from the validator become a single "body" entry.
func Describe(err error) []FieldError {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: message(fe),
			})
		}
		return out
	}

	var terr *TimestampError
	if errors.As(err, &terr) {
		return []FieldError{{Field: "body", Tag: "datetime", Message: terr.Error()}}
	}

	return []FieldError{{Field: "body", Tag: "decode", Message: err.Error()}}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case TagISBN:
		return fmt.Sprintf("String should match pattern '%s'", ISBNPattern.String())
	case TagPast:
		return humanize(fe.Field()) + " must be in the past."
	case "min":
		return fmt.Sprintf("Value should be greater than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("Value should be less than or equal to %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Value should be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Value should be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Value should be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}

// humanize turns "birth_date" into "Birth date".
func humanize(field string) string {
	words := strings.ReplaceAll(field, "_", " ")
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}
