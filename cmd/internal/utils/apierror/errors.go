package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError = NewSimple(404, "Resource not found")

	// ActionFailedError is returned when a compound action was rolled back.
	ActionFailedError = NewSimple(500, "The action could not be completed, no changes were made")

	/*
	 * Used by compound category/note actions
	 */
	MissingTargetCategoryError  = NewSimple(400, "target_category_id is required")
	TargetCategoryNotFoundError = NewSimple(404, "Target category not found")

	/*
	 * Used for authentications
	 */
	UnauthorizedError        = NewSimple(401, "Authentication credentials were not provided")
	InvalidAuthTokenError    = NewSimple(401, "Token is invalid or expired")
	InvalidCredentialsError  = NewSimple(401, "Invalid email or password")
	InvalidRefreshTokenError = NewSimple(400, "Refresh token is invalid")
)

// FromValidationError maps validator failures to a 400 keyed by JSON field name.
// Anything else (e.g. *validator.InvalidValidationError) is a programming error and maps to a 500.
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		log.Errorf("unexpected validation failure: %v", err)
		return InternalServerError
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "gt":
			problems[field] = append(problems[field], "Value must be greater than "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "theme":
			problems[field] = append(problems[field], "Value is not a valid theme")
		case "notnumeric":
			problems[field] = append(problems[field], "Value cannot be entirely numeric")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewFieldError is a shortcut for a 400 StructuredError carrying a single problem.
func NewFieldError(field, problem string) *StructuredError {
	err := NewStructured(http.StatusBadRequest)
	err.Add(field, problem)
	return err
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}
