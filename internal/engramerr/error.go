// Package engramerr defines the shared error taxonomy for every engram
// subsystem. The original multi-crate implementation carries one
// thiserror-derived enum per crate (CoreError, CaptureError, QueryError,
// ProtocolError); Go favors a small number of well-known error types over
// one enum per package, so this collapses them into a single Kind plus a
// wrapping Error that carries the kind, a message, and an optional cause.
package engramerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for branching at the outermost boundary (CLI,
// MCP server) between user-fixable and infrastructural failures.
type Kind string

const (
	KindObjectStore     Kind = "object_store"
	KindNotFound        Kind = "not_found"
	KindAmbiguous       Kind = "ambiguous"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindNotInitialized  Kind = "not_initialized"
	KindIO              Kind = "io"
	KindUTF8            Kind = "utf8"
	KindMissingBlob     Kind = "missing_blob"
	KindParse           Kind = "parse"
	KindInvalidID       Kind = "invalid_id"
	KindCapture         Kind = "capture"
	KindImport          Kind = "import"
	KindSession         Kind = "session"
	KindProcessExit     Kind = "process_exit"
	KindIndex           Kind = "index"
	KindSearch          Kind = "search"
	KindSync            Kind = "sync"
	KindRemoteNotFound  Kind = "remote_not_found"
	KindConfig          Kind = "config"
)

// Error is the shared error type returned by every engram package.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is comparison by Kind: errors.Is(err, &Error{Kind: KindNotFound}).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds a new Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a new Error of the given kind, wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotFound builds a not-found error for the given identifier or prefix.
func NotFound(id string) *Error {
	return New(KindNotFound, fmt.Sprintf("engram not found: %s", id))
}

// Ambiguous builds an ambiguous-prefix error.
func Ambiguous(prefix string, count int) *Error {
	return New(KindAmbiguous, fmt.Sprintf("ambiguous prefix %q matches %d engrams", prefix, count))
}

// NotInitialized builds the "run engram init" error.
func NotInitialized() *Error {
	return New(KindNotInitialized, "repository not initialized for engram (run `engram init`)")
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
