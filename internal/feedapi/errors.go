package feedapi

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed operation against the feed service.
type Kind string

const (
	// KindValidation is a client-side rejection; no request was sent.
	KindValidation Kind = "validation"
	// KindNetwork covers transport failures: refused, reset, timed out, breaker open.
	KindNetwork Kind = "network"
	// KindServer is a non-2xx response or a body that could not be decoded.
	KindServer Kind = "server"
)

// Error is the typed error returned by every Client call.
type Error struct {
	Kind      Kind
	Op        string
	Message   string // server-supplied text, empty when the server sent none
	Status    int
	RequestID string
	Cause     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.RequestID != "" {
		b.WriteString(" [request ")
		b.WriteString(e.RequestID)
		b.WriteString("]")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError reports input rejected before any request is issued.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Op: "validate", Message: message}
}

// KindOf returns the Kind of err, or "" when err carries no *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// UserMessage returns the text shown to the user for err: the server's own
// message when it sent one (or the validation message), otherwise fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return strings.TrimSpace(apiErr.Message)
	}
	return fallback
}

// GenericReason is a short description used when the server gave no message.
func GenericReason(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "unexpected error"
	}
	switch apiErr.Kind {
	case KindNetwork:
		return "could not reach the feed service"
	case KindServer:
		if apiErr.Status != 0 {
			return fmt.Sprintf("server responded with status %d", apiErr.Status)
		}
		return "unexpected response from the feed service"
	default:
		return "invalid input"
	}
}
