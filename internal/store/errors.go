// ABOUTME: Failure taxonomy for store operations
// ABOUTME: Classifies driver errors into StorageUnavailable, ConstraintViolation, QueryError, NotFound

package store

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a class of store failure.
type Kind string

const (
	KindStorageUnavailable  Kind = "storage unavailable"
	KindConstraintViolation Kind = "constraint violation"
	KindQuery               Kind = "query error"
	KindNotFound            Kind = "not found"
)

// Error is the only error type returned by store operations.
// Compare with errors.Is against the Err* sentinels.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Op == "" {
			return string(e.Kind)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrStorageUnavailable  = &Error{Kind: KindStorageUnavailable}
	ErrConstraintViolation = &Error{Kind: KindConstraintViolation}
	ErrQuery               = &Error{Kind: KindQuery}
	ErrNotFound            = &Error{Kind: KindNotFound}
)

// KindOf returns the Kind carried by err, or KindQuery for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindQuery
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// classify wraps a driver error into an *Error. Already classified errors
// pass through untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	switch {
	case isConstraintViolation(err):
		return newError(KindConstraintViolation, op, err)
	case isStorageFailure(err):
		return newError(KindStorageUnavailable, op, err)
	default:
		return newError(KindQuery, op, err)
	}
}

// isConstraintViolation checks if the error is a SQLite UNIQUE, PRIMARY KEY,
// FOREIGN KEY, NOT NULL or CHECK constraint failure.
func isConstraintViolation(err error) bool {
	return strings.Contains(err.Error(), "constraint failed")
}

func isStorageFailure(err error) bool {
	msg := err.Error()
	for _, s := range []string{
		"unable to open database",
		"disk I/O error",
		"readonly database",
		"database is locked",
		"file is not a database",
		"database or disk is full",
		"sql: database is closed",
		"sql: connection is already closed",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
