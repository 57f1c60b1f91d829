package carrier

import (
	"errors"
	"fmt"
)

// FailureClass groups quote failures for logging and metrics. All classes
// are handled identically by callers: the carrier's options are simply not
// offered for the request.
type FailureClass string

const (
	// FailureConfiguration covers missing or incomplete merchant credentials.
	FailureConfiguration FailureClass = "configuration_invalid"

	// FailureAuthentication covers token-endpoint failures: unreachable,
	// non-2xx, or a malformed token body.
	FailureAuthentication FailureClass = "authentication_failed"

	// FailurePricing covers product-pricing endpoint failures: unreachable,
	// non-2xx, or malformed product JSON.
	FailurePricing FailureClass = "pricing_request_failed"
)

// Failure wraps a carrier-side error with its taxonomy class.
type Failure struct {
	Carrier string
	Class   FailureClass
	Cause   error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s %s: %v", f.Carrier, f.Class, f.Cause)
	}
	return fmt.Sprintf("%s %s", f.Carrier, f.Class)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// NewFailure creates a classified quote failure.
func NewFailure(carrier string, class FailureClass, cause error) *Failure {
	return &Failure{Carrier: carrier, Class: class, Cause: cause}
}

// ClassOf extracts the failure class from an error chain. Unclassified
// errors are reported as pricing failures, the broadest class.
func ClassOf(err error) FailureClass {
	var f *Failure
	if errors.As(err, &f) {
		return f.Class
	}
	return FailurePricing
}
