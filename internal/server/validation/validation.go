// Package validation checks submitted form structs against their `validate`
// tags and reports failures as a *common.FieldError keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/go-playground/validator/v10"
)

const (
	MessageRequired = "This field is required."
	MessageEmail    = "Invalid email address."
	MessagePathSafe = "Username may only contain letters, digits and . _ - characters."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// registration only fails on programmer error
	mustRegister(v, "notblank", notBlank)
	mustRegister(v, "pathsafe", pathSafe)
	mustRegister(v, "length", length)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func pathSafe(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-' {
			continue
		}
		return false
	}
	return true
}

// length=min:max counts characters, not bytes.
func length(fl validator.FieldLevel) bool {
	lo, hi, err := lengthBounds(fl.Param())
	if err != nil {
		panic(err)
	}
	n := utf8.RuneCountInString(fl.Field().String())
	return n >= lo && n <= hi
}

func lengthBounds(param string) (int, int, error) {
	a, b, ok := strings.Cut(param, ":")
	if !ok {
		return 0, 0, fmt.Errorf("bad length param %q", param)
	}
	lo, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("bad length param %q: %w", param, err)
	}
	hi, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("bad length param %q: %w", param, err)
	}
	return lo, hi, nil
}

// Struct validates s. It returns nil, a *common.FieldError of kind
// common.ErrorValidation, or a plain error when s is not a struct.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fe := common.NewValidationError()
	for _, e := range ve {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return MessageRequired
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", e.Param())
	case "length":
		lo, hi, _ := lengthBounds(e.Param())
		return fmt.Sprintf("Field must be between %d and %d characters long.", lo, hi)
	case "email":
		return MessageEmail
	case "pathsafe":
		return MessagePathSafe
	default:
		return "Invalid value."
	}
}
