package covidapi

import "fmt"

// TransportError reports a failed round trip: connection, timeout or a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("covidapi: %s: http %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("covidapi: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that did not match the expected schema.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("covidapi: %s: decode: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FilterError reports a filter value the API would not accept. No request is made.
type FilterError struct {
	Field string
	Value string
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("covidapi: invalid %s filter %q: %v", e.Field, e.Value, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }
