package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// maxErrorBody caps how much of a rejection body is kept
const maxErrorBody = 4096

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}

// FailureKind classifies a failed backend call
type FailureKind int

const (
	FailureInternal   FailureKind = iota // anything not covered below
	FailureRejected                      // backend answered with a non-2xx status
	FailureTimeout                       // no answer within the deadline
	FailureConnection                    // host/port unreachable
)

func (k FailureKind) String() string {
	switch k {
	case FailureRejected:
		return "rejected"
	case FailureTimeout:
		return "timeout"
	case FailureConnection:
		return "connection"
	default:
		return "internal"
	}
}

// Classify maps an error returned by a Client to its FailureKind.
// Timeouts are checked before connection errors so a dial timeout is a timeout.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureInternal
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return FailureRejected
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	if isConnectionError(err) {
		return FailureConnection
	}

	return FailureInternal
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	// Platform errors that are not wrapped as syscall errors
	return containsAny(err.Error(), []string{
		"connection refused",
		"network is unreachable",
		"no route to host",
	})
}

func containsAny(s string, substrings []string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
