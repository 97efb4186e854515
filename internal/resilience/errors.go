package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/sells-group/coronalert/pkg/covidapi"
)

// IsTransient reports whether a failed fetch is worth repeating: a transport
// failure with no response, a retryable HTTP status, or a common network
// timeout or reset. Decode failures and rejected filters are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var de *covidapi.DecodeError
	if errors.As(err, &de) {
		return false
	}
	var fe *covidapi.FilterError
	if errors.As(err, &fe) {
		return false
	}

	var te *covidapi.TransportError
	if errors.As(err, &te) && te.StatusCode != 0 {
		return IsTransientHTTPStatus(te.StatusCode)
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
		"connection refused",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"context deadline exceeded",
		"server closed idle connection",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	// A transport error without a recognizable cause still never reached the API.
	return te != nil
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue that is safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
