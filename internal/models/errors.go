package models

// ErrorKind classifies every failure the submission workflow can surface.
type ErrorKind string

const (
	ErrorUnsupportedType    ErrorKind = "unsupported_type"
	ErrorTooLarge           ErrorKind = "too_large"
	ErrorTimeout            ErrorKind = "timeout"
	ErrorNetworkUnreachable ErrorKind = "network_unreachable"
	ErrorServerError        ErrorKind = "server_error"
	ErrorUnknown            ErrorKind = "unknown"
)

const (
	MessageNoFile        = "Please select an image first!"
	messageServerDefault = "Server error occurred. Please try again."
)

// Message returns the user-facing text for kind. detail carries the server's
// own error text for server errors and the endpoint for network errors.
func (k ErrorKind) Message(detail string) string {
	switch k {
	case ErrorUnsupportedType:
		return "Please select a valid image file (JPG, PNG, or JPEG)"
	case ErrorTooLarge:
		return "File size must be less than 10MB"
	case ErrorTimeout:
		return "Request timeout. Please try again."
	case ErrorNetworkUnreachable:
		if detail == "" {
			return "Cannot connect to server. Make sure the prediction service is running."
		}
		return "Cannot connect to server. Make sure the prediction service is running at " + detail
	case ErrorServerError:
		if detail != "" {
			return detail
		}
		return messageServerDefault
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// Retryable reports whether submitting the same file again may succeed.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorTimeout, ErrorNetworkUnreachable, ErrorServerError, ErrorUnknown:
		return true
	default:
		return false
	}
}
