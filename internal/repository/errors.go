package repository

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a repository matches exactly one of
// these through errors.Is.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrValidation   = RepositoryError("validation failed")
	ErrConnectivity = RepositoryError("cannot reach server")
	ErrUnauthorized = RepositoryError("unauthorized")
	ErrUnexpected   = RepositoryError("unexpected server response")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ConflictError is a rejected write because the target position (or natural
// key) is already held by a sibling.
type ConflictError struct {
	Resource   string // "session", "exercise execution"
	ParentKind string // "plan", "session"
	ParentID   string
	OrderID    int    // 0 when the request carried no position
	Detail     string // server message, if any
}

func (e *ConflictError) Error() string {
	var msg string
	switch {
	case e.OrderID > 0 && e.ParentID != "":
		msg = fmt.Sprintf("position %d is already taken in %s %s", e.OrderID, e.parentKind(), e.ParentID)
	case e.OrderID > 0:
		msg = fmt.Sprintf("position %d is already taken", e.OrderID)
	default:
		msg = fmt.Sprintf("%s conflicts with an existing one", e.resource())
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func (e *ConflictError) parentKind() string {
	if e.ParentKind == "" {
		return "parent"
	}
	return e.ParentKind
}

func (e *ConflictError) resource() string {
	if e.Resource == "" {
		return "item"
	}
	return e.Resource
}

// ValidationError is raised locally, before any remote call, or mapped from a
// 400 answer. Message is meant for the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError is a shorthand used by the validators.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound reports whether err means the item no longer exists remotely.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
