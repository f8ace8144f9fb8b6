package competitionsuite

import (
	"errors"
	"fmt"
)

// ErrFetch marks every failure of an upstream list or detail request.
var ErrFetch = errors.New("upstream fetch failed")

// FetchError describes a failed request. It matches ErrFetch via errors.Is.
type FetchError struct {
	Path       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("competitionsuite %s returned %d: %v", e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("competitionsuite %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}
