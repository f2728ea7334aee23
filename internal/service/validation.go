package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bookadzone/launch-api/internal/domain"
)

// emailPattern is deliberately loose: one local part, one domain, one dot.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// validator's builtin email tag is stricter than the form contract, so the
	// shared pattern is registered as its own rule.
	_ = v.RegisterValidation("launch_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// SignupInput is the trimmed-down signup payload handed to the service.
type SignupInput struct {
	FullName       string `validate:"required,min=2"`
	CompanyName    string `validate:"required,min=2"`
	Position       string `validate:"required"`
	Email          string `validate:"required,launch_email"`
	ProfileType    string `validate:"required,oneof=Advertiser Agency"`
	ClientLocation *domain.Location
	IPAddress      string
}

// Normalized returns a copy with whitespace trimmed and the email lower-cased.
func (in SignupInput) Normalized() SignupInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Position = strings.TrimSpace(in.Position)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ProfileType = strings.TrimSpace(in.ProfileType)
	return in
}

var signupFieldKeys = map[string]string{
	"FullName":    "fullName",
	"CompanyName": "companyName",
	"Position":    "position",
	"Email":       "email",
	"ProfileType": "profileType",
}

// ValidateSignupInput checks the normalized payload and reports every failing
// field at once, keyed by its form field name.
func ValidateSignupInput(in SignupInput) map[string]string {
	in = in.Normalized()

	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["payload"] = "Invalid request data"
		return fields
	}

	for _, fe := range validationErrors {
		key, known := signupFieldKeys[fe.Field()]
		if !known {
			continue
		}
		fields[key] = signupFieldMessage(key, fe.Tag())
	}
	return fields
}

func signupFieldMessage(field, tag string) string {
	switch field {
	case "fullName":
		if tag == "min" {
			return "Full name must be at least 2 characters long"
		}
		return "Full name is required"
	case "companyName":
		if tag == "min" {
			return "Company name must be at least 2 characters long"
		}
		return "Company name is required"
	case "position":
		return "Position is required"
	case "email":
		if tag == "launch_email" {
			return "Please enter a valid email address"
		}
		return "Email is required"
	case "profileType":
		if tag == "oneof" {
			return "Please select a profile type"
		}
		return "Profile type is required"
	}
	return "Invalid value"
}

// ValidEmail reports whether email matches the shared pattern after
// normalization.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(strings.TrimSpace(email)))
}
