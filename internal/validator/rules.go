package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var cnMobileRe = regexp.MustCompile(`^1[3-9]\d{9}$`)

// registerCustomRules installs the domain validation tags.
func registerCustomRules(v *validator.Validate) error {
	// cnmobile: mainland mobile number, 11 digits starting 13-19.
	// Empty values pass; 'required' handles presence.
	return v.RegisterValidation("cnmobile", validateCNMobile)
}

func validateCNMobile(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return cnMobileRe.MatchString(value)
}
