package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/sells-group/coronalert/internal/alert"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

func TestIsTransient_NilError(t *testing.T) {
	if IsTransient(nil) {
		t.Error("nil error should not be transient")
	}
}

func TestIsTransient_RegularError(t *testing.T) {
	err := errors.New("invalid input: missing field")
	if IsTransient(err) {
		t.Error("regular error should not be transient")
	}
}

func TestIsTransient_TransportStatus(t *testing.T) {
	cases := map[int]bool{
		429: true,
		500: true,
		503: true,
		400: false,
		401: false,
		403: false,
		404: false,
	}
	for code, want := range cases {
		err := &covidapi.TransportError{Op: "reports", StatusCode: code, Err: errors.New("status")}
		if got := IsTransient(err); got != want {
			t.Errorf("HTTP %d: expected transient=%v, got %v", code, want, got)
		}
	}
}

func TestIsTransient_TransportWithoutResponse(t *testing.T) {
	err := &covidapi.TransportError{Op: "reports", Err: errors.New("something odd")}
	if !IsTransient(err) {
		t.Error("transport failure without a response should be transient")
	}
}

func TestIsTransient_DecodeNeverRetried(t *testing.T) {
	err := &alert.FetchError{Kind: alert.KindDecode, Err: &covidapi.DecodeError{Op: "reports", Err: errors.New("i/o timeout")}}
	if IsTransient(err) {
		t.Error("decode errors should not be transient")
	}
}

func TestIsTransient_InvalidFilterNeverRetried(t *testing.T) {
	err := &alert.FetchError{Kind: alert.KindInvalidFilter, Err: &covidapi.FilterError{Field: "date", Value: "tomorrow", Err: errors.New("want YYYY-MM-DD")}}
	if IsTransient(err) {
		t.Error("invalid filters should not be transient")
	}
}

func TestIsTransient_WrappedInFetchError(t *testing.T) {
	inner := &covidapi.TransportError{Op: "reports", StatusCode: 502, Err: errors.New("bad gateway")}
	err := &alert.FetchError{Kind: alert.KindNetwork, Err: inner}
	if !IsTransient(err) {
		t.Error("expected wrapped 502 to be transient")
	}
}

func TestIsTransient_ConnectionReset(t *testing.T) {
	err := fmt.Errorf("write tcp: %w", syscall.ECONNRESET)
	if !IsTransient(err) {
		t.Error("ECONNRESET should be transient")
	}
}

func TestIsTransient_NetworkTimeout(t *testing.T) {
	err := &net.DNSError{IsTimeout: true, Err: "timeout"}
	if !IsTransient(err) {
		t.Error("network timeout should be transient")
	}
}

func TestIsTransient_DeadlineExceeded(t *testing.T) {
	if !IsTransient(fmt.Errorf("get: %w", context.DeadlineExceeded)) {
		t.Error("deadline exceeded should be transient")
	}
}

func TestIsTransient_StringPatterns(t *testing.T) {
	patterns := []string{
		"connection reset by peer",
		"broken pipe",
		"TLS handshake timeout",
		"i/o timeout",
		"server closed idle connection",
	}
	for _, p := range patterns {
		err := errors.New(p)
		if !IsTransient(err) {
			t.Errorf("expected %q to be transient", p)
		}
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	transient := []int{408, 429, 500, 502, 503, 504}
	for _, code := range transient {
		if !IsTransientHTTPStatus(code) {
			t.Errorf("expected HTTP %d to be transient", code)
		}
	}

	permanent := []int{200, 201, 400, 401, 403, 404, 405, 409, 422}
	for _, code := range permanent {
		if IsTransientHTTPStatus(code) {
			t.Errorf("expected HTTP %d to NOT be transient", code)
		}
	}
}
