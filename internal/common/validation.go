package common

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// basic address shape: something@something.something, no whitespace
var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("please enter a valid email address")
	}
	return nil
}

// NewValidator returns a validator that reports json field names and knows
// the "contactemail" tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String()) == nil
	}); err != nil {
		panic(fmt.Sprintf("register contactemail validation: %v", err))
	}
	return v
}

// ValidateStruct runs v over s and converts failures into a *ValidationError.
// It returns nil when s is valid.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError(FieldError{Field: "", Message: err.Error()})
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "contactemail", "email":
		return "please enter a valid email address"
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("%s is required", field)
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
