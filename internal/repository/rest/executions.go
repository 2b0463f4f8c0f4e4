package rest

import (
	"context"
	"net/http"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
)

// executionPayload is the body of POST and PUT /exercise-executions.
type executionPayload struct {
	SessionID     string  `json:"sessionId,omitempty"`
	ExerciseID    string  `json:"exerciseId"`
	PlannedSets   int     `json:"plannedSets"`
	PlannedReps   int     `json:"plannedReps"`
	PlannedWeight float64 `json:"plannedWeight"`
	OrderID       int     `json:"orderID"`
}

func newExecutionPayload(e domain.ExerciseExecution) executionPayload {
	return executionPayload{
		SessionID:     e.SessionID,
		ExerciseID:    e.ExerciseID,
		PlannedSets:   e.PlannedSets,
		PlannedReps:   e.PlannedReps,
		PlannedWeight: e.PlannedWeight,
		OrderID:       e.OrderID,
	}
}

// executionResponse accepts both a flat exerciseId and an embedded exercise.
type executionResponse struct {
	domain.ExerciseExecution
	Exercise *domain.Exercise `json:"exercise,omitempty"`
}

func (r executionResponse) toDomain() domain.ExerciseExecution {
	e := r.ExerciseExecution
	if r.Exercise != nil {
		if e.ExerciseID == "" {
			e.ExerciseID = r.Exercise.ID
		}
		if e.ExerciseName == "" {
			e.ExerciseName = r.Exercise.Name
		}
		e.Category = r.Exercise.Category
	}
	return e
}

type executionRepository struct {
	c *Client
}

// NewExerciseExecutionRepository creates a repository.ExerciseExecutionRepository over the API.
func NewExerciseExecutionRepository(c *Client) repository.ExerciseExecutionRepository {
	return &executionRepository{c: c}
}

// ListByParent returns the session's executions in position order.
func (r *executionRepository) ListByParent(ctx context.Context, sessionID string) ([]domain.ExerciseExecution, error) {
	var raw []executionResponse
	err := r.c.send(ctx, call{
		op:     "execution.list",
		method: http.MethodGet,
		path:   "/exercise-executions",
		query:  map[string]string{"sessionId": sessionID},
		out:    &raw,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExerciseExecution, len(raw))
	for i, e := range raw {
		out[i] = e.toDomain()
	}
	return ordering.SortByPosition(out), nil
}

func (r *executionRepository) Create(ctx context.Context, sessionID string, e domain.ExerciseExecution) (domain.ExerciseExecution, error) {
	e.SessionID = sessionID
	var created executionResponse
	err := r.c.send(ctx, call{
		op:     "execution.create",
		method: http.MethodPost,
		path:   "/exercise-executions",
		body:   newExecutionPayload(e),
		out:    &created,
	})
	if err != nil {
		return domain.ExerciseExecution{}, conflictContext(err, "exercise execution", "session", sessionID, e.OrderID)
	}
	return withCategory(created.toDomain(), e), nil
}

func (r *executionRepository) Update(ctx context.Context, e domain.ExerciseExecution) (domain.ExerciseExecution, error) {
	var updated executionResponse
	err := r.c.send(ctx, call{
		op:     "execution.update",
		method: http.MethodPut,
		path:   "/exercise-executions/{id}",
		params: map[string]string{"id": e.ID},
		body:   newExecutionPayload(e),
		out:    &updated,
	})
	if err != nil {
		return domain.ExerciseExecution{}, conflictContext(err, "exercise execution", "session", e.SessionID, e.OrderID)
	}
	return withCategory(updated.toDomain(), e), nil
}

func (r *executionRepository) Delete(ctx context.Context, id string) error {
	return r.c.send(ctx, call{
		op:     "execution.delete",
		method: http.MethodDelete,
		path:   "/exercise-executions/{id}",
		params: map[string]string{"id": id},
	})
}

// withCategory keeps the locally known category when the server omits it.
func withCategory(saved, sent domain.ExerciseExecution) domain.ExerciseExecution {
	if saved.Category == "" {
		saved.Category = sent.Category
	}
	return saved
}
