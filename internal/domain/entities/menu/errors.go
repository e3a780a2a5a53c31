package menu

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a document that does not exist in the store.
var ErrNotFound = errors.New("document not found")

// MultipleMenusError is returned by the single-menu accessors when a
// business on the multi-menu schema has more than one active menu.
// Callers should list menus and pick one explicitly.
type MultipleMenusError struct {
	Count int
}

func (e *MultipleMenusError) Error() string {
	return fmt.Sprintf("business has %d active menus, select one explicitly", e.Count)
}

// IsMultipleMenus reports whether err is a MultipleMenusError.
func IsMultipleMenus(err error) bool {
	var target *MultipleMenusError
	return errors.As(err, &target)
}

// TransportError wraps a failure talking to the document store so
// callers can distinguish remote faults from missing data.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// WrapTransport wraps err as a TransportError unless it is nil or a
// not-found, which passes through unchanged.
func WrapTransport(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
