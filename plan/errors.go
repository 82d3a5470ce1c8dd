// ABOUTME: Error taxonomy for plan acquisition and a classifier producing metric/journal reason labels.
// ABOUTME: Every error except ErrInputRejected degrades to a fallback scenario at the orchestrator boundary.
package plan

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrInputRejected is returned for empty or whitespace-only input, before any network activity.
	ErrInputRejected = errors.New("plan: input is required")
	// ErrAuthMissing means no credential was available for the generator.
	ErrAuthMissing = errors.New("plan: no access token")
	// ErrEmptyScript means the response parsed but carried no events.
	ErrEmptyScript = errors.New("plan: generated script is empty")
	// ErrUnexpectedStructure is wrapped by a ParseError for JSON that is neither an array nor an object with a script.
	ErrUnexpectedStructure = errors.New("no script in response")
)

// TransportError is a network failure or non-success status from a generator.
type TransportError struct {
	Generator  string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("plan: %s returned status %d: %v", e.Generator, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("plan: %s request failed: %v", e.Generator, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RawPrefixLimit is how many characters of an unparseable response are kept for diagnostics.
const RawPrefixLimit = 500

// ParseError is an unparseable or out-of-contract generator response.
type ParseError struct {
	Reason    string
	RawPrefix string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plan: %s: %v", e.Reason, e.Err)
	}
	return "plan: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(reason, raw string, err error) *ParseError {
	return &ParseError{Reason: reason, RawPrefix: truncateRunes(raw, RawPrefixLimit), Err: err}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Reason labels used in metrics and the journal.
const (
	ReasonNone            = "none"
	ReasonInputRejected   = "input_rejected"
	ReasonAuthMissing     = "auth_missing"
	ReasonHTTPStatus      = "http_status"
	ReasonNetwork         = "network"
	ReasonStreamMalformed = "stream_malformed"
	ReasonEmptyScript     = "empty_script"
	ReasonCancelled       = "cancelled"
	ReasonTimeout         = "timeout"
	ReasonUnknown         = "unknown"
)

// Classify maps an acquisition error to a bounded reason label.
func Classify(err error) string {
	var (
		transportErr *TransportError
		parseErr     *ParseError
	)
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrInputRejected):
		return ReasonInputRejected
	case errors.Is(err, ErrAuthMissing):
		return ReasonAuthMissing
	case errors.Is(err, ErrEmptyScript):
		return ReasonEmptyScript
	case errors.As(err, &parseErr):
		return ReasonStreamMalformed
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &transportErr):
		if transportErr.StatusCode != 0 {
			return ReasonHTTPStatus
		}
		return ReasonNetwork
	default:
		return ReasonUnknown
	}
}
