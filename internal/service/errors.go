package service

import (
	"errors"
	"fmt"
)

const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeNoFields               = "NO_FIELDS"
	CodeInvalidID              = "INVALID_ID"
	CodeNotFound               = "NOT_FOUND"
	CodeDuplicateDetected      = "DUPLICATE_DETECTED"
	CodeEnhancementUnavailable = "ENHANCEMENT_UNAVAILABLE"
	CodeImageGenerationFailed  = "IMAGE_GENERATION_FAILED"
	CodeCreateFailed           = "CREATE_FAILED"
	CodeStoreFault             = "STORE_FAULT"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

// AsBusinessError reports whether err carries a BusinessError.
func AsBusinessError(err error) (*BusinessError, bool) {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr, true
	}
	return nil, false
}

// HasCode reports whether err is a BusinessError with the given code.
func HasCode(err error, code string) bool {
	businessErr, ok := AsBusinessError(err)
	return ok && businessErr.Code == code
}

// NewValidationError carries field name to reason.
func NewValidationError(fields map[string]string) *BusinessError {
	details := make(map[string]any, len(fields))
	for field, reason := range fields {
		details[field] = reason
	}
	return &BusinessError{
		Code:    CodeValidation,
		Message: "Invalid request body",
		Details: details,
	}
}

func NewNoFieldsError() *BusinessError {
	return &BusinessError{
		Code:    CodeNoFields,
		Message: "No fields to update",
		Details: map[string]any{},
	}
}

func NewInvalidID(token string) *BusinessError {
	return &BusinessError{
		Code:    CodeInvalidID,
		Message: "Invalid ID",
		Details: map[string]any{"id": token},
	}
}

func NewNotFound(id int64) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: "Task not found",
		Details: map[string]any{"id": id},
	}
}

func NewDuplicateDetected(id, otherID int64) *BusinessError {
	return &BusinessError{
		Code:    CodeDuplicateDetected,
		Message: "Duplicate task detected",
		Details: map[string]any{"id": id, "duplicateOf": otherID},
	}
}

func NewEnhancementUnavailable(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeEnhancementUnavailable,
		Message: "Enhancement provider unavailable, try later",
		Details: map[string]any{},
		Err:     err,
	}
}

func NewImageGenerationFailed(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeImageGenerationFailed,
		Message: "Image generation failed",
		Details: map[string]any{},
		Err:     err,
	}
}

func NewCreateFailed(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeCreateFailed,
		Message: "Failed to create task",
		Details: map[string]any{},
		Err:     err,
	}
}

func NewStoreFault(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStoreFault,
		Message: "Internal Server Error",
		Details: map[string]any{"operation": operation},
		Err:     err,
	}
}
