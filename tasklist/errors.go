package tasklist

import (
	"errors"
	"sort"
	"strings"
)

type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrBusy             = errors.New("another change is still in progress")
	ErrUnknownTask      = errors.New("task not found")
)

// ValidationError lists the offending fields. It is raised before any
// store call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Missing reports whether any field failed only because it was empty.
func (e *ValidationError) Missing() bool {
	for _, msg := range e.Fields {
		if msg == msgRequired {
			return true
		}
	}
	return false
}

// StoreError is a failed store call. Error returns the store's message
// unchanged.
type StoreError struct {
	Op  Op
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// ReloadError means the mutation was applied but the refresh that follows
// it failed, so the list is stale.
type ReloadError struct {
	Op     Op
	TaskID string
	Err    error
}

func (e *ReloadError) Error() string { return e.Err.Error() }
func (e *ReloadError) Unwrap() error { return e.Err }
