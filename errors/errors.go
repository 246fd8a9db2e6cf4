package errors

import "fmt"

var (
	ErrNotMember      = fmt.Errorf("user not in chat")
	ErrMalformedInput = fmt.Errorf("malformed input")
	ErrWorkerPanic    = fmt.Errorf("worker panic")
)

// StorageError wraps any failure of the underlying document store
// (I/O or serialization). The caller must treat the whole operation
// as not having happened: no partial state is ever committed.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
