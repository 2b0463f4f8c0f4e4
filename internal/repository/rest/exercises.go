package rest

import (
	"context"
	"net/http"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
)

type exerciseRepository struct {
	c *Client
}

// NewExerciseRepository creates a read-only repository.ExerciseRepository over the API.
func NewExerciseRepository(c *Client) repository.ExerciseRepository {
	return &exerciseRepository{c: c}
}

func (r *exerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise
	err := r.c.send(ctx, call{
		op:     "exercise.list",
		method: http.MethodGet,
		path:   "/exercises",
		out:    &exercises,
	})
	return exercises, err
}
