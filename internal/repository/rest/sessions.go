package rest

import (
	"context"
	"net/http"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
)

// sessionPayload is the body of POST and PUT /sessions.
type sessionPayload struct {
	PlanID        string               `json:"planId,omitempty"`
	Name          string               `json:"name"`
	ScheduledDate string               `json:"scheduledDate,omitempty"`
	OrderID       int                  `json:"orderID,omitempty"`
	Status        domain.SessionStatus `json:"status,omitempty"`
}

func newSessionPayload(s domain.Session) sessionPayload {
	return sessionPayload{
		PlanID:        s.PlanID,
		Name:          s.Name,
		ScheduledDate: s.ScheduledDate,
		OrderID:       s.OrderID,
		Status:        s.Status,
	}
}

type sessionRepository struct {
	c *Client
}

// NewSessionRepository creates a repository.SessionRepository over the API.
func NewSessionRepository(c *Client) repository.SessionRepository {
	return &sessionRepository{c: c}
}

// ListByParent returns the plan's sessions in position order.
func (r *sessionRepository) ListByParent(ctx context.Context, planID string) ([]domain.Session, error) {
	var all []domain.Session
	err := r.c.send(ctx, call{
		op:     "session.list",
		method: http.MethodGet,
		path:   "/sessions",
		query:  map[string]string{"planId": planID},
		out:    &all,
	})
	if err != nil {
		return nil, err
	}

	// Older servers ignore the planId filter.
	sessions := make([]domain.Session, 0, len(all))
	for _, s := range all {
		if s.PlanID == "" || s.PlanID == planID {
			sessions = append(sessions, s)
		}
	}
	return ordering.SortByPosition(sessions), nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	err := r.c.send(ctx, call{
		op:     "session.get",
		method: http.MethodGet,
		path:   "/sessions/{id}",
		params: map[string]string{"id": id},
		out:    &s,
	})
	return s, err
}

func (r *sessionRepository) Create(ctx context.Context, planID string, s domain.Session) (domain.Session, error) {
	s.PlanID = planID
	var created domain.Session
	err := r.c.send(ctx, call{
		op:     "session.create",
		method: http.MethodPost,
		path:   "/sessions",
		body:   newSessionPayload(s),
		out:    &created,
	})
	if err != nil {
		return domain.Session{}, conflictContext(err, "session", "plan", planID, s.OrderID)
	}
	return created, nil
}

func (r *sessionRepository) Update(ctx context.Context, s domain.Session) (domain.Session, error) {
	var updated domain.Session
	err := r.c.send(ctx, call{
		op:     "session.update",
		method: http.MethodPut,
		path:   "/sessions/{id}",
		params: map[string]string{"id": s.ID},
		body:   newSessionPayload(s),
		out:    &updated,
	})
	if err != nil {
		return domain.Session{}, conflictContext(err, "session", "plan", s.PlanID, s.OrderID)
	}
	return updated, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.c.send(ctx, call{
		op:     "session.delete",
		method: http.MethodDelete,
		path:   "/sessions/{id}",
		params: map[string]string{"id": id},
	})
}
