// Package errors provides custom error types for the Hisab API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Expense and earning errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrEarningNotFound = &AppError{Code: "EARNING_NOT_FOUND", Message: "Earning not found", StatusCode: http.StatusNotFound}
)

// Diary errors.
var (
	ErrDiaryEntryNotFound = &AppError{Code: "DIARY_ENTRY_NOT_FOUND", Message: "Diary entry not found", StatusCode: http.StatusNotFound}
)

// EMI plan errors.
var (
	ErrPlanNotFound     = &AppError{Code: "PLAN_NOT_FOUND", Message: "EMI plan not found", StatusCode: http.StatusNotFound}
	ErrDuplicatePlan    = &AppError{Code: "DUPLICATE_PLAN", Message: "An EMI plan with this note and start date already exists", StatusCode: http.StatusConflict}
	ErrDateNotScheduled = &AppError{Code: "DATE_NOT_SCHEDULED", Message: "Due date is not part of the plan's schedule", StatusCode: http.StatusBadRequest}
)
