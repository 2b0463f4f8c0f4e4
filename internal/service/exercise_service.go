package service

import (
	"context"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
)

// --- Service Interface ---
type ExerciseService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	// Categorize fills the category of executions that need it for the
	// bodyweight rule. The library is fetched only when one does.
	Categorize(ctx context.Context, executions []domain.ExerciseExecution) ([]domain.ExerciseExecution, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

func (s *exerciseService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.List(ctx)
}

func (s *exerciseService) Categorize(ctx context.Context, executions []domain.ExerciseExecution) ([]domain.ExerciseExecution, error) {
	if !needsCategory(executions) {
		return executions, nil
	}

	library, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categories := make(map[string]string, len(library))
	for _, ex := range library {
		categories[ex.ID] = ex.Category
	}

	out := make([]domain.ExerciseExecution, len(executions))
	for i, e := range executions {
		if e.Category == "" {
			e.Category = categories[e.ExerciseID]
		}
		out[i] = e
	}
	return out, nil
}

// needsCategory reports whether some execution has no weight and no known
// category, the only case where the category changes validation.
func needsCategory(executions []domain.ExerciseExecution) bool {
	for _, e := range executions {
		if e.PlannedWeight == 0 && e.Category == "" && e.ExerciseID != "" {
			return true
		}
	}
	return false
}
