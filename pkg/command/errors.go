package command

import "fmt"

// Machine-readable error codes. Validation codes surface from the validator,
// execution codes from the dispatcher.
const (
	CodeUnclosedQuote       = "UNCLOSED_QUOTE"
	CodeHandlerNotFound     = "HANDLER_NOT_FOUND"
	CodeMissingRequired     = "MISSING_REQUIRED_PARAMETER"
	CodeInvalidParamType    = "INVALID_PARAMETER_TYPE"
	CodeInvalidCommandName  = "INVALID_COMMAND_NAME"
	CodeTooManyArguments    = "TOO_MANY_ARGUMENTS"
	CodeHandlerCannotHandle = "HANDLER_CANNOT_HANDLE"
	CodeMaxConcurrent       = "MAX_CONCURRENT_EXCEEDED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeTimeout             = "TIMEOUT"
	CodeExecutionError      = "EXECUTION_ERROR"
)

// ValidationError describes one malformed-input finding. Validation never
// throws for normal invalid input; errors are collected into a
// ValidationResult.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError builds a coded validation error.
func NewValidationError(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// ExecutionError describes a dispatch-time failure. It is always delivered
// inside a failed Result, never raised past the router boundary.
type ExecutionError struct {
	Code      string
	CommandID string
	Message   string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError builds a coded execution error.
func NewExecutionError(code, message string, err error) *ExecutionError {
	return &ExecutionError{Code: code, Message: message, Err: err}
}
