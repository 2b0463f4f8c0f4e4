package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"alcyxob/fitness-sync/internal/repository"
)

// orderTaken matches the server's "Order 5 is already used in this plan".
var orderTaken = regexp.MustCompile(`(?i)order\s+(\d+)\s+is\s+already\s+used`)

func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	msg := serverMessage(resp.Body())

	switch status {
	case http.StatusBadRequest:
		// Some endpoints answer 400 for a taken position.
		if n, ok := takenOrder(msg); ok {
			return &repository.ConflictError{OrderID: n, Detail: msg}
		}
		if msg == "" {
			msg = "invalid request"
		}
		return &repository.ValidationError{Message: msg}
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", repository.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", repository.ErrNotFound, msg)
	case http.StatusConflict:
		n, _ := takenOrder(msg)
		return &repository.ConflictError{OrderID: n, Detail: msg}
	default:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return fmt.Errorf("%w: http %d: %s", repository.ErrUnexpected, status, msg)
	}
}

// serverMessage extracts {"error": ...} or {"message": ...} from a body,
// falling back to the raw text.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func takenOrder(msg string) (int, bool) {
	m := orderTaken.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// conflictContext completes a *repository.ConflictError with what the
// request knew: which resource, under which parent, at which position.
// Conflicts on the natural key (the server mentions the exercise) keep
// OrderID unset.
func conflictContext(err error, resource, parentKind, parentID string, orderID int) error {
	var ce *repository.ConflictError
	if !errors.As(err, &ce) {
		return err
	}
	ce.Resource = resource
	ce.ParentKind = parentKind
	if ce.ParentID == "" {
		ce.ParentID = parentID
	}
	if ce.OrderID == 0 && !strings.Contains(strings.ToLower(ce.Detail), "exercise") {
		ce.OrderID = orderID
	}
	return err
}
