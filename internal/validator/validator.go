package validator

import (
	"errors"
	"github.com/go-playground/validator/v10"
	"regexp"
	"strings"
)

// GitHub logins are alphanumerics separated by single hyphens.
var githubUserRegex = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9]|-[a-zA-Z0-9])*$`)

type GistsearchValidator struct {
	v *validator.Validate
}

func NewValidator() *GistsearchValidator {
	v := validator.New()
	_ = v.RegisterValidation("githubuser", validateGithubUser)
	_ = v.RegisterValidation("regexp", validateRegexp)
	return &GistsearchValidator{v}
}

func (cv *GistsearchValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func (cv *GistsearchValidator) Var(field interface{}, tag string) error {
	return cv.v.Var(field, tag)
}

// ValidationFailure is returned when user input is rejected. Its message
// is meant to be shown to the user as is.
type ValidationFailure struct {
	Message string
	Err     error
}

func (e *ValidationFailure) Error() string {
	return e.Message
}

func (e *ValidationFailure) Unwrap() error {
	return e.Err
}

func IsValidationFailure(err error) bool {
	var failure *ValidationFailure
	return errors.As(err, &failure)
}

// Check validates a struct and turns validation errors into a
// *ValidationFailure.
func (cv *GistsearchValidator) Check(i interface{}) error {
	err := cv.Validate(i)
	if err == nil {
		return nil
	}

	return &ValidationFailure{Message: ValidationMessages(&err), Err: err}
}

func ValidationMessages(err *error) string {
	var errs validator.ValidationErrors
	if !errors.As(*err, &errs) {
		return (*err).Error()
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		switch e.Tag() {
		case "required":
			messages[i] = e.Field() + " field can not be empty"
		case "max":
			messages[i] = e.Field() + " is too long"
		default:
			messages[i] = "Invalid " + strings.ToLower(e.Field())
		}
	}

	return strings.Join(messages, " ; ")
}

func validateGithubUser(fl validator.FieldLevel) bool {
	return githubUserRegex.MatchString(fl.Field().String())
}

func validateRegexp(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}
