package rest

import (
	"context"
	"net/http"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
)

type planRepository struct {
	c *Client
}

// NewPlanRepository creates a repository.PlanRepository over the API.
func NewPlanRepository(c *Client) repository.PlanRepository {
	return &planRepository{c: c}
}

func (r *planRepository) GetByID(ctx context.Context, id string) (domain.TrainingPlan, error) {
	var p domain.TrainingPlan
	err := r.c.send(ctx, call{
		op:     "plan.get",
		method: http.MethodGet,
		path:   "/plans/{id}",
		params: map[string]string{"id": id},
		out:    &p,
	})
	if err != nil {
		return domain.TrainingPlan{}, err
	}
	p.Sessions = ordering.SortByPosition(p.Sessions)
	return p, nil
}

func (r *planRepository) List(ctx context.Context) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	err := r.c.send(ctx, call{
		op:     "plan.list",
		method: http.MethodGet,
		path:   "/plans",
		out:    &plans,
	})
	return plans, err
}

func (r *planRepository) Update(ctx context.Context, id string, update domain.TrainingPlanUpdate) (domain.TrainingPlan, error) {
	var p domain.TrainingPlan
	err := r.c.send(ctx, call{
		op:     "plan.update",
		method: http.MethodPut,
		path:   "/plans/{id}",
		params: map[string]string{"id": id},
		body:   update,
		out:    &p,
	})
	if err != nil {
		return domain.TrainingPlan{}, err
	}
	p.Sessions = ordering.SortByPosition(p.Sessions)
	return p, nil
}
