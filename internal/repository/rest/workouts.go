package rest

import (
	"context"
	"net/http"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
)

type workoutRepository struct {
	c *Client
}

// NewWorkoutRepository creates a repository.WorkoutRepository over the
// session-logs and execution-logs endpoints.
func NewWorkoutRepository(c *Client) repository.WorkoutRepository {
	return &workoutRepository{c: c}
}

func (r *workoutRepository) GetByID(ctx context.Context, id string) (domain.WorkoutLog, error) {
	var w domain.WorkoutLog
	err := r.c.send(ctx, call{
		op:     "workout.get",
		method: http.MethodGet,
		path:   "/session-logs/{id}",
		params: map[string]string{"id": id},
		out:    &w,
	})
	return w, err
}

func (r *workoutRepository) UpdateNotes(ctx context.Context, id, notes string) (domain.WorkoutLog, error) {
	var w domain.WorkoutLog
	err := r.c.send(ctx, call{
		op:     "workout.update",
		method: http.MethodPut,
		path:   "/session-logs/{id}",
		params: map[string]string{"id": id},
		body:   map[string]string{"notes": notes},
		out:    &w,
	})
	return w, err
}

func (r *workoutRepository) Complete(ctx context.Context, id string) (domain.WorkoutLog, error) {
	var w domain.WorkoutLog
	err := r.c.send(ctx, call{
		op:     "workout.complete",
		method: http.MethodPut,
		path:   "/session-logs/{id}/complete",
		params: map[string]string{"id": id},
		body:   struct{}{},
		out:    &w,
	})
	return w, err
}

func (r *workoutRepository) ListExecutionLogs(ctx context.Context, workoutLogID string) ([]domain.ExecutionLog, error) {
	var logs []domain.ExecutionLog
	err := r.c.send(ctx, call{
		op:     "execution_log.list",
		method: http.MethodGet,
		path:   "/execution-logs",
		query:  map[string]string{"sessionLogId": workoutLogID},
		out:    &logs,
	})
	return logs, err
}

func (r *workoutRepository) UpdateExecutionLog(ctx context.Context, id string, update domain.ExecutionLogUpdate) (domain.ExecutionLog, error) {
	var l domain.ExecutionLog
	err := r.c.send(ctx, call{
		op:     "execution_log.update",
		method: http.MethodPut,
		path:   "/execution-logs/{id}",
		params: map[string]string{"id": id},
		body:   update,
		out:    &l,
	})
	return l, err
}
