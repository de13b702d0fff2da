package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates a failed connection to the remote API.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates the request timed out or was cancelled.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Client construction errors
const (
	// ErrCodeConfiguration indicates a malformed client configuration
	// (base URL, API version, proxy or auth settings).
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodePluginAttachment indicates a plugin was rejected while being
	// attached to a client.
	ErrCodePluginAttachment ErrorCode = "PLUGIN_ATTACHMENT"
	// ErrCodeInvalidInput indicates a struct failed validation.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Request decoration errors
const (
	// ErrCodeMissingCredentials indicates the API key or instance could not
	// be resolved when a request was decorated.
	ErrCodeMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
	// ErrCodeRequestRejected indicates a request observer refused a request.
	ErrCodeRequestRejected ErrorCode = "REQUEST_REJECTED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
