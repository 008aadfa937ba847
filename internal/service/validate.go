package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// ValidSlug reports whether s is a valid tag slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// RegisterValidators adds the project's custom tags to v. The HTTP layer calls
// it on gin's binding engine; the service uses its own instance.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		u := fl.Field().String()
		return usernamePattern.MatchString(u) && u != "me"
	})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

var validate = newValidator()

// validationFromStruct converts validator errors into a ValidationError keyed
// by the lower-cased field name.
func validationFromStruct(err error, fieldNames map[string]string) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := NewValidationError()
	for _, fe := range verrs {
		name := fieldNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		out.Add(name, "failed on '"+fe.Tag()+"' rule")
	}
	return out
}
