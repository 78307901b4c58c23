package parsec

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the track data is missing or structurally broken.
	ErrDataUnavailable = errors.New("parsec data not available")

	// ErrConcurrencyPoisoned means an earlier catalog build panicked.
	ErrConcurrencyPoisoned = errors.New("parsec catalog poisoned by an interrupted build")
)

// IOError is a filesystem or network failure while fetching or reading track data.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parsec %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("parsec %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
