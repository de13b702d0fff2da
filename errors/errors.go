package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the closest HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Client construction ---

// Configuration creates a ConfigurationError for a malformed client setting.
func Configuration(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeConfiguration, Message: fmt.Sprintf("Invalid client configuration: %s", reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Details: details,
	}
}

// PluginAttachment creates a PluginAttachmentError for the plugin at the
// given position of the attached sequence.
func PluginAttachment(index int, plugin, reason string) *AppError {
	return &AppError{
		Code: ErrCodePluginAttachment, Message: fmt.Sprintf("Plugin #%d (%s) rejected: %s", index, plugin, reason),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"index": index, "plugin": plugin},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// --- Request decoration ---

// MissingCredentials creates a MissingCredentialsError naming the credential
// that could not be resolved.
func MissingCredentials(name string) *AppError {
	return &AppError{
		Code: ErrCodeMissingCredentials, Message: fmt.Sprintf("Credential %s is not configured.", name),
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Details: map[string]any{"credential": name},
	}
}

// RequestRejected creates a new AppError for a request refused by a plugin.
func RequestRejected(plugin string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRequestRejected, Message: fmt.Sprintf("Request rejected by plugin %s.", plugin),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"plugin": plugin}, Cause: cause,
	}
}

// --- Transport ---

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to reach %s.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long or was cancelled.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool { return HasCode(err, ErrCodeConfiguration) }

// IsMissingCredentials reports whether err is a MissingCredentialsError.
func IsMissingCredentials(err error) bool { return HasCode(err, ErrCodeMissingCredentials) }

// IsPluginAttachment reports whether err is a PluginAttachmentError.
func IsPluginAttachment(err error) bool { return HasCode(err, ErrCodePluginAttachment) }

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
