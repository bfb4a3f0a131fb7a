package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"username.min":      "Username must be at least 3 characters",
	"username.max":      "Username must be at most 20 characters",
	"username.username": "Username can only contain letters, numbers, and underscores",

	"email.required": "Email is required",
	"email.email":    "Invalid email address",

	"password.required":   "Password is required",
	"password.min":        "Password must be at least 8 characters",
	"password.hasupper":   "Password must contain at least one uppercase letter",
	"password.haslower":   "Password must contain at least one lowercase letter",
	"password.hasdigit":   "Password must contain at least one number",
	"password.hasspecial": "Password must contain at least one special character",

	"about.max": "About section must be at most 160 characters",

	"content.required": "Post cannot be empty",
	"content.max":      "Post must be at most 280 characters",

	"emailOrUsername.required": "Email or username is required",

	"profileImage.imageref": "Profile image must be a URL, an absolute path or an image data URI",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fallbackMessage(fe)
}

func fallbackMessage(fe validator.FieldError) string {
	field := fe.Field()
	if field != "" {
		field = strings.ToUpper(field[:1]) + field[1:]
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return "Invalid email address"
	case "uuid":
		return field + " must be a valid UUID"
	default:
		return field + " is invalid"
	}
}
