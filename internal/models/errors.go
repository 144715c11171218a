package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeNotFound                   = "NOT_FOUND"
	CodeValidation                 = "VALIDATION_ERROR"
	CodeAuthRequired               = "AUTH_REQUIRED"
	CodeInvalidCredentials         = "INVALID_CREDENTIALS"
	CodeDuplicateRegistrationField = "DUPLICATE_REGISTRATION_FIELD"
	CodeDuplicatePostField         = "DUPLICATE_POST_FIELD"
	CodeInternal                   = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewAuthRequiredError() *AppError {
	return &AppError{
		Code:    CodeAuthRequired,
		Message: "Login required",
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid username or password",
	}
}

// NewDuplicateRegistrationError deliberately carries no field name.
func NewDuplicateRegistrationError() *AppError {
	return &AppError{
		Code:    CodeDuplicateRegistrationField,
		Message: "User already exists",
	}
}

func NewDuplicatePostError() *AppError {
	return &AppError{
		Code:    CodeDuplicatePostField,
		Message: "A post with this title or content already exists",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
