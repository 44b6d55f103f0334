package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Age is typed as a number in the form; keep it to 1-3 digits
var ageRegex = regexp.MustCompile(`^[0-9]{1,3}$`)

// New returns a validator with the custom rules registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_age", ValidAge)
}

// ValidAge validates numeric-as-text ages. Emptiness is checked by
// readiness, not here.
func ValidAge(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return ageRegex.MatchString(val)
}
