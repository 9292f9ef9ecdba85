package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation indicates invalid input data
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeAlreadyExists indicates a resource already exists
	ErrorTypeAlreadyExists ErrorType = "already_exists"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden indicates insufficient permissions
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeDatabase indicates a database failure
	ErrorTypeDatabase ErrorType = "database"
	// ErrorTypeMethodNotAllowed indicates an unsupported HTTP method
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeExternal indicates an external service error
	ErrorTypeExternal ErrorType = "external"

	// ErrorTypeSelfTarget indicates an operation aimed at the caller's own civilization
	ErrorTypeSelfTarget ErrorType = "self_target"
	// ErrorTypeInsufficientForce indicates too few soldiers or spies for the operation
	ErrorTypeInsufficientForce ErrorType = "insufficient_force"
	// ErrorTypeInsufficientFunds indicates the civilization cannot afford a cost
	ErrorTypeInsufficientFunds ErrorType = "insufficient_funds"
	// ErrorTypeNotAtWar indicates a war-scoped operation without an ongoing war
	ErrorTypeNotAtWar ErrorType = "not_at_war"
	// ErrorTypeAlreadyAtWar indicates an ongoing war already exists for the pair
	ErrorTypeAlreadyAtWar ErrorType = "already_at_war"
	// ErrorTypeDuplicateOffer indicates a pending peace offer already exists
	ErrorTypeDuplicateOffer ErrorType = "duplicate_offer"
	// ErrorTypeNoPendingOffer indicates no pending peace offer to respond to
	ErrorTypeNoPendingOffer ErrorType = "no_pending_offer"
	// ErrorTypeInvalidCard indicates a card outside the pending selection
	ErrorTypeInvalidCard ErrorType = "invalid_card"
	// ErrorTypeNoSelection indicates no pending card selection
	ErrorTypeNoSelection ErrorType = "no_selection"
	// ErrorTypeTechCap indicates the tech level is already at its maximum
	ErrorTypeTechCap ErrorType = "tech_cap"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
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

// New creates an error of an explicit type with formatting
func New(errType ErrorType, format string, args ...interface{}) error {
	return &AppError{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Err:     err,
	}
}

// Conflictf creates a conflict error with formatting
func Conflictf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// AlreadyExistsf creates an already exists error with formatting
func AlreadyExistsf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeAlreadyExists,
		Message: fmt.Sprintf(format, args...),
	}
}

// SelfTargetf creates a self target error with formatting
func SelfTargetf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeSelfTarget,
		Message: fmt.Sprintf(format, args...),
	}
}

// InsufficientForcef creates an insufficient force error with formatting
func InsufficientForcef(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeInsufficientForce,
		Message: fmt.Sprintf(format, args...),
	}
}

// InsufficientFundsf creates an insufficient funds error with formatting
func InsufficientFundsf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeInsufficientFunds,
		Message: fmt.Sprintf(format, args...),
	}
}

// NotAtWarf creates a not at war error with formatting
func NotAtWarf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotAtWar,
		Message: fmt.Sprintf(format, args...),
	}
}

// AlreadyAtWarf creates an already at war error with formatting
func AlreadyAtWarf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeAlreadyAtWar,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapDatabase wraps an error as a database error
func WrapDatabase(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: message,
		Err:     err,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

// External creates an external service error
func External(message string) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
	}
}

// WrapExternal wraps an error as an external service error
func WrapExternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}
