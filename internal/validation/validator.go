package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Error is a rejected payload. Message is safe to return to the client.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Invalid builds an Error outside of struct validation.
func Invalid(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

type Validator struct {
	validate *validator.Validate
}

// New registers the schema tags used by request payloads:
// username, hasupper, haslower, hasdigit, hasspecial and imageref.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "hasupper", containsRune(isASCIIUpper))
	mustRegister(v, "haslower", containsRune(isASCIILower))
	mustRegister(v, "hasdigit", containsRune(isASCIIDigit))
	mustRegister(v, "hasspecial", containsRune(func(r rune) bool {
		return !isASCIIUpper(r) && !isASCIILower(r) && !isASCIIDigit(r)
	}))
	mustRegister(v, "imageref", func(fl validator.FieldLevel) bool {
		return IsImageRef(fl.Field().String())
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Password character classes are ASCII only; any other rune counts as special.
func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func containsRune(match func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), match) >= 0
	}
}

// IsImageRef accepts an http(s) URL, an absolute path or an inline image data URI.
func IsImageRef(s string) bool {
	switch {
	case s == "":
		return true
	case strings.HasPrefix(s, "data:image/"):
		return strings.Contains(s, ";base64,")
	case strings.HasPrefix(s, "/"):
		return !strings.HasPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Struct validates s and reports only the first violated rule, in field order.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Error{Field: fe.Field(), Message: messageFor(fe)}
	}
	return err
}
