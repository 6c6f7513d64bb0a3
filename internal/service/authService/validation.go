package authService

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/service"
)

var (
	namePattern    = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func ValidateLogin(form model.LoginForm) error {
	if strings.TrimSpace(form.Email) == "" || form.Password == "" {
		return service.NewValidationError("Please enter both email and password")
	}
	return nil
}

// ValidateSignup returns the first problem found, in form order.
func ValidateSignup(form model.SignupForm) error {
	name := strings.TrimSpace(form.Name)
	switch {
	case utf8.RuneCountInString(name) < 2:
		return service.NewValidationError("Name must be at least 2 characters long")
	case !namePattern.MatchString(name):
		return service.NewValidationError("Name can only contain letters and spaces")
	}

	if err := ValidateEmail(form.Email); err != nil {
		return err
	}

	switch {
	case len(form.Password) < 8:
		return service.NewValidationError("Password must be at least 8 characters long")
	case !upperPattern.MatchString(form.Password):
		return service.NewValidationError("Password must contain at least one uppercase letter")
	case !lowerPattern.MatchString(form.Password):
		return service.NewValidationError("Password must contain at least one lowercase letter")
	case !digitPattern.MatchString(form.Password):
		return service.NewValidationError("Password must contain at least one number")
	case !specialPattern.MatchString(form.Password):
		return service.NewValidationError("Password must contain at least one special character")
	case form.Password != form.Confirm:
		return service.NewValidationError("Passwords do not match")
	}

	return nil
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return service.NewValidationError("Please enter your email address")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return service.NewValidationError("Please enter a valid email address")
	}
	return nil
}
