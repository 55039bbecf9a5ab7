package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{6,19}$`)
	otpPattern   = regexp.MustCompile(`^[0-9]{6}$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("user_role", validateUserRole)
	_ = validate.RegisterValidation("phone", validatePhone)
	_ = validate.RegisterValidation("otp", validateOTP)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "admin":
		return true
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateOTP(fl validator.FieldLevel) bool {
	return otpPattern.MatchString(fl.Field().String())
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailPattern.MatchString(email)
}
