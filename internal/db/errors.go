package db

import (
	"errors"
	"fmt"
)

// Domain-level database error sentinels.
var (
	ErrQueryNotFound       = errors.New("query not found")
	ErrUnsupportedDatabase = errors.New("unsupported database url")
)

// StoreError reports a persistence failure in the history store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
