package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks s against its `validate` tags and converts failures into
// a *ValidationError.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = message(fe)
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "email":
		return "enter a valid email address"
	case "slug":
		return "enter a valid slug of letters, numbers, underscores or hyphens"
	case "username":
		return "enter a valid username of letters, digits and @/./+/-/_"
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
