package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error according to how callers should react to it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration marks missing or invalid device profiles and
	// credential fields. Fatal, never retried.
	KindConfiguration
	// KindAuthentication marks explicit credential or session rejection
	// by the server. Triggers token invalidation and a password login.
	KindAuthentication
	// KindServerBusy marks an explicit "busy" signal from the backend.
	// The caller should wait and retry the specific operation.
	KindServerBusy
	// KindRetryableAcquisition marks the generic "try again later"
	// purchase outcome. Only the purchase call should be retried.
	KindRetryableAcquisition
	// KindExhaustedPagination signals the end of a paginated listing.
	// Not a failure; callers translate it to "no more pages".
	KindExhaustedPagination
	// KindTransport marks connection-level failures that were not
	// resolved by the rate-limit backoff.
	KindTransport
	// KindServiceUnavailable marks a backend-reported outage. The
	// operation chain must abort; retrying in a loop is not allowed.
	KindServiceUnavailable
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "CONFIGURATION"
	case KindAuthentication:
		return "AUTHENTICATION"
	case KindServerBusy:
		return "SERVER_BUSY"
	case KindRetryableAcquisition:
		return "RETRYABLE_ACQUISITION"
	case KindExhaustedPagination:
		return "EXHAUSTED_PAGINATION"
	case KindTransport:
		return "TRANSPORT"
	case KindServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// CrawlError carries the kind alongside the message and optional cause.
type CrawlError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CrawlError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CrawlError) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind, so sentinel checks like
// errors.Is(err, ErrExhausted) work across wrapping.
func (e *CrawlError) Is(target error) bool {
	t, ok := target.(*CrawlError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Retryable reports whether the operation that produced the error may
// be retried as-is.
func (e *CrawlError) Retryable() bool {
	return e.Kind == KindServerBusy || e.Kind == KindRetryableAcquisition
}

// Sentinels for errors.Is checks. Wrapped errors of the same kind match.
var (
	ErrConfiguration      = &CrawlError{Kind: KindConfiguration, Message: "configuration error"}
	ErrAuthentication     = &CrawlError{Kind: KindAuthentication, Message: "authentication rejected"}
	ErrServerBusy         = &CrawlError{Kind: KindServerBusy, Message: "server busy"}
	ErrRetryAcquisition   = &CrawlError{Kind: KindRetryableAcquisition, Message: "acquisition retryable"}
	ErrExhausted          = &CrawlError{Kind: KindExhaustedPagination, Message: "pagination exhausted"}
	ErrTransport          = &CrawlError{Kind: KindTransport, Message: "transport failure"}
	ErrServiceUnavailable = &CrawlError{Kind: KindServiceUnavailable, Message: "service unavailable"}
)

// NewConfiguration creates a configuration error.
func NewConfiguration(message string, cause error) *CrawlError {
	return &CrawlError{Kind: KindConfiguration, Message: message, Cause: cause}
}

// NewAuthentication creates an authentication error carrying the
// server's reason text.
func NewAuthentication(message string) *CrawlError {
	return &CrawlError{Kind: KindAuthentication, Message: message}
}

// NewServerBusy creates a wait-and-retry error.
func NewServerBusy(message string) *CrawlError {
	return &CrawlError{Kind: KindServerBusy, Message: message}
}

// NewRetryableAcquisition creates a retry-the-purchase error.
func NewRetryableAcquisition(message string) *CrawlError {
	return &CrawlError{Kind: KindRetryableAcquisition, Message: message}
}

// NewExhausted creates a terminal pagination error.
func NewExhausted(message string) *CrawlError {
	return &CrawlError{Kind: KindExhaustedPagination, Message: message}
}

// NewTransport wraps a connection-level failure.
func NewTransport(message string, cause error) *CrawlError {
	return &CrawlError{Kind: KindTransport, Message: message, Cause: cause}
}

// NewServiceUnavailable creates a fatal backend-outage error.
func NewServiceUnavailable(message string) *CrawlError {
	return &CrawlError{Kind: KindServiceUnavailable, Message: message}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// KindOf extracts the kind from err, unwrapping as needed.
func KindOf(err error) Kind {
	var ce *CrawlError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
