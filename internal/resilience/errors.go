// Package resilience classifies fetch failures and computes retry backoff.
package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// Class identifies the retry semantics of a fetch failure.
type Class int

const (
	// ClassRateLimited is an HTTP 429; retried with jittered backoff.
	ClassRateLimited Class = iota
	// ClassServerError is an HTTP 5xx; retried with plain exponential backoff.
	ClassServerError
	// ClassTransport is a network-level failure (timeout, reset, DNS);
	// retried like a server error.
	ClassTransport
	// ClassClientError is any other HTTP 4xx; never retried.
	ClassClientError
)

// String implements fmt.Stringer for log fields.
func (c Class) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassServerError:
		return "server_error"
	case ClassTransport:
		return "transport"
	case ClassClientError:
		return "client_error"
	default:
		return "unknown"
	}
}

// Retryable reports whether failures of this class may be retried.
func (c Class) Retryable() bool {
	return c != ClassClientError
}

// HTTPError is a non-2xx response from the upstream API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// ClassifyStatus maps an HTTP status code to a failure class.
func ClassifyStatus(code int) Class {
	switch {
	case code == 429:
		return ClassRateLimited
	case code >= 500:
		return ClassServerError
	default:
		return ClassClientError
	}
}

// Classify maps an error from a page fetch attempt to a failure class.
// HTTP errors classify by status code; everything else is treated as a
// transport failure, which is retryable.
func Classify(err error) Class {
	var he *HTTPError
	if errors.As(err, &he) {
		return ClassifyStatus(he.StatusCode)
	}
	return ClassTransport
}

// IsTransient reports whether the error looks like a recoverable
// network-level failure. Used for log annotation; Classify already treats
// unknown errors as transport failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// ExhaustedError reports that a page could not be fetched within the
// attempt budget. It is fatal to the whole fetch.
type ExhaustedError struct {
	Page     int
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("page %d: exhausted %d attempts: %v", e.Page, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
