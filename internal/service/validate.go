package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"mindcare/internal/records"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request payload
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationError is the service-level name for rejected input.
type ValidationError = records.ValidationError

// validateRequest runs struct tag validation and reports the first failure.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "is not a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte", "lte":
		return "must be between 0 and 10"
	default:
		return "is invalid"
	}
}

// checkNewPassword enforces the length and confirmation rules.
func checkNewPassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("A senha deve ter pelo menos %d caracteres", minPasswordLength)}
	}
	if password != confirm {
		return &ValidationError{Message: "As senhas não coincidem"}
	}
	return nil
}
