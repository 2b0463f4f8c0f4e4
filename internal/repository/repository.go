package repository

//go:generate mockgen -source=repository.go -destination=../mock/repository_mock.go -package=mock

import (
	"context"

	"alcyxob/fitness-sync/internal/domain"
)

// ChildRepository is the remote surface shared by every ordered child kind:
// fetch the children of a parent and mutate them one call at a time.
type ChildRepository[T any] interface {
	ListByParent(ctx context.Context, parentID string) ([]T, error)
	Create(ctx context.Context, parentID string, child T) (T, error)
	Update(ctx context.Context, child T) (T, error)
	// Delete returns ErrNotFound when the child is already gone; callers
	// that only want it absent treat that as success.
	Delete(ctx context.Context, id string) error
}

// SessionRepository defines the interface for sessions, the children of a plan.
type SessionRepository interface {
	ChildRepository[domain.Session]
	GetByID(ctx context.Context, id string) (domain.Session, error)
}

// ExerciseExecutionRepository defines the interface for the exercises planned in a session.
type ExerciseExecutionRepository interface {
	ChildRepository[domain.ExerciseExecution]
}

// PlanRepository defines the interface for training plans.
type PlanRepository interface {
	GetByID(ctx context.Context, id string) (domain.TrainingPlan, error)
	List(ctx context.Context) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, id string, update domain.TrainingPlanUpdate) (domain.TrainingPlan, error)
}

// ExerciseRepository is read-only: the library is only used to look up categories.
type ExerciseRepository interface {
	List(ctx context.Context) ([]domain.Exercise, error)
}

// WorkoutRepository defines the interface for logged workouts and their execution logs.
type WorkoutRepository interface {
	GetByID(ctx context.Context, id string) (domain.WorkoutLog, error)
	UpdateNotes(ctx context.Context, id, notes string) (domain.WorkoutLog, error)
	Complete(ctx context.Context, id string) (domain.WorkoutLog, error)
	ListExecutionLogs(ctx context.Context, workoutLogID string) ([]domain.ExecutionLog, error)
	UpdateExecutionLog(ctx context.Context, id string, update domain.ExecutionLogUpdate) (domain.ExecutionLog, error)
}

// JournalRepository persists one record per synchronization batch.
type JournalRepository interface {
	Record(ctx context.Context, rec *domain.SyncRecord) (string, error)
	GetByParentID(ctx context.Context, parentID string, limit int64) ([]domain.SyncRecord, error)
}
