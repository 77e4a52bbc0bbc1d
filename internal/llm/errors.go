package llm

import "errors"

var (
	// ErrNotConfigured indicates no API key (or an unknown provider) was
	// supplied. Callers surface it instead of falling back.
	ErrNotConfigured = errors.New("ai provider not configured: api key required")

	// ErrUnavailable indicates the provider endpoint is unreachable.
	ErrUnavailable = errors.New("ai provider unavailable")

	// ErrUnauthorized indicates the provider rejected the credentials.
	ErrUnauthorized = errors.New("ai provider rejected credentials")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response carried no usable text.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// ErrorCode maps an error to the short code recorded in call events and
// playbook metadata.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "NOT_CONFIGURED"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
