package alert

import (
	"errors"
	"fmt"

	"github.com/sells-group/coronalert/pkg/covidapi"
)

// Kind classifies a failed fetch.
type Kind int

// Fetch failure kinds.
const (
	KindNetwork Kind = iota + 1
	KindDecode
	KindInvalidFilter
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindInvalidFilter:
		return "invalid filter"
	default:
		return "unknown"
	}
}

// FetchError is the single error type surfaced by Service operations.
type FetchError struct {
	Kind Kind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("alert: %s error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a FetchError of kind KindNetwork.
func IsNetwork(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindNetwork
}

// IsDecode reports whether err is a FetchError of kind KindDecode.
func IsDecode(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindDecode
}

// IsInvalidFilter reports whether err is a FetchError of kind KindInvalidFilter.
func IsInvalidFilter(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindInvalidFilter
}

// classify maps a transport-layer error onto a FetchError. Anything that is
// neither a rejected filter nor a decode failure counts as network.
func classify(err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	var fle *covidapi.FilterError
	if errors.As(err, &fle) {
		return &FetchError{Kind: KindInvalidFilter, Err: err}
	}
	var de *covidapi.DecodeError
	if errors.As(err, &de) {
		return &FetchError{Kind: KindDecode, Err: err}
	}
	return &FetchError{Kind: KindNetwork, Err: err}
}
