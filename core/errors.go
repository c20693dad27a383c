package core

import (
	"errors"
	"fmt"
)

var (
	// ErrOperationInProgress is returned when a lifecycle operation is already
	// running for the requested model name.
	ErrOperationInProgress = errors.New("operation already in progress for model")
	// ErrTurnInProgress is returned by Send while a previous turn is unresolved.
	ErrTurnInProgress = errors.New("a message is already being answered")
	ErrEmptyName      = errors.New("name must not be empty")
	ErrNoSuchEntry    = errors.New("no such launcher entry")
)

// FetchError means the backend could not be reached or answered with
// something that is not a valid envelope.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BackendError means the backend answered with success:false.
type BackendError struct {
	Op      string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend reported failure", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ParseError means a document could not be parsed as markup.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
