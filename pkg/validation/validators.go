package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// local@domain.tld with an ASCII local part and a TLD of at least two letters
var contactEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	TagRequired     = "required"
	TagContactEmail = "contact_email"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation(TagContactEmail, ContactEmail)
}

// NewValidator returns a validator with the custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// ContactEmail validates the address shape accepted by the contact form.
func ContactEmail(fl validator.FieldLevel) bool {
	return IsContactEmail(fl.Field().String())
}

func IsContactEmail(s string) bool {
	return contactEmailRegex.MatchString(s)
}

// MaxLengthTag builds the validator tag for a character limit.
func MaxLengthTag(limit int) string {
	return fmt.Sprintf("max=%d", limit)
}
