package workbench

import "fmt"

// FetchError wraps a failed read from the order platform
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError wraps a failed write to the order platform
type PersistError struct {
	RowID string
	Err   error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist failed for row %s: %v", e.RowID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ValidationError signals a precondition failure before any network call
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}
