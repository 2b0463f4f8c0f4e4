package service

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-sync/internal/childsync"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
)

// UserMessage turns any error returned by the services into the text shown
// to the user. Batch failures are prefixed with the failed operation.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := kindMessage(err)

	var opErr *childsync.OpError
	if errors.As(err, &opErr) {
		if opErr.ChildID != "" {
			return fmt.Sprintf("%s of %s failed: %s", opErr.Op, opErr.ChildID, msg)
		}
		return fmt.Sprintf("%s failed: %s", opErr.Op, msg)
	}
	return msg
}

func kindMessage(err error) string {
	var ve *repository.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ce *repository.ConflictError
	if errors.As(err, &ce) {
		parent := ce.ParentKind
		if parent == "" {
			parent = "parent"
		}
		switch {
		case ce.OrderID > 0 && ce.ParentID != "":
			return fmt.Sprintf("position already taken: %d in %s %s", ce.OrderID, parent, ce.ParentID)
		case ce.OrderID > 0:
			return fmt.Sprintf("position already taken: %d", ce.OrderID)
		default:
			return "item already exists in its parent"
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return "item no longer exists"
	case errors.Is(err, repository.ErrConnectivity):
		return "cannot reach server"
	case errors.Is(err, repository.ErrUnauthorized):
		return "not authorized, sign in again"
	case errors.Is(err, ordering.ErrNotPermutation):
		return "the new order must list exactly the current items"
	case errors.Is(err, context.DeadlineExceeded):
		return "operation timed out"
	case errors.Is(err, context.Canceled):
		return "operation cancelled"
	case errors.Is(err, ErrJournalDisabled):
		return err.Error()
	default:
		return "unexpected error: " + err.Error()
	}
}
