package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrSelfReference  = errors.New("cannot target yourself")
	ErrAlreadyLiked   = errors.New("already liked")
	ErrNotLiked       = errors.New("not liked")
	ErrConflict       = errors.New("conflict")
	ErrForbidden      = errors.New("forbidden")
)

// ValidationError lists the offending fields. It matches ErrValidation, and also Cause when set
// (a duplicate username is both a validation failure and an ErrConflict).
type ValidationError struct {
	Fields map[string]string
	Cause  error
}

func newValidationError(fields map[string]string, cause error) *ValidationError {
	return &ValidationError{Fields: fields, Cause: cause}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Cause }

// kindError carries a client-facing message for one of the sentinels above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func errorf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
