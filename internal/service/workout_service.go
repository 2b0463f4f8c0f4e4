package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"alcyxob/fitness-sync/internal/childsync"
	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/validators"
)

// --- Service Interface ---
type WorkoutService interface {
	GetWorkout(ctx context.Context, workoutID string) (domain.WorkoutLog, []domain.ExecutionLog, error)
	// SaveWorkout stores every execution log and the notes. A workout whose
	// logs are all completed is completed as well.
	SaveWorkout(ctx context.Context, workoutID, notes string, logs []domain.ExecutionLog) (domain.WorkoutLog, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
	limit       int
	log         *logger.Logger
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, maxConcurrency int, log *logger.Logger) WorkoutService {
	if log == nil {
		log = logger.Nop()
	}
	return &workoutService{workoutRepo: workoutRepo, limit: maxConcurrency, log: log}
}

func (s *workoutService) GetWorkout(ctx context.Context, workoutID string) (domain.WorkoutLog, []domain.ExecutionLog, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return domain.WorkoutLog{}, nil, err
	}
	logs, err := s.workoutRepo.ListExecutionLogs(ctx, workoutID)
	if err != nil {
		return domain.WorkoutLog{}, nil, err
	}
	return w, logs, nil
}

func (s *workoutService) SaveWorkout(ctx context.Context, workoutID, notes string, logs []domain.ExecutionLog) (domain.WorkoutLog, error) {
	// 1. Validate every log before sending anything
	for _, l := range logs {
		if err := validators.ExecutionLog(l); err != nil {
			return domain.WorkoutLog{}, err
		}
	}

	// 2. Logs and notes together
	g, gCtx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for _, l := range logs {
		g.Go(func() error {
			if _, err := s.workoutRepo.UpdateExecutionLog(gCtx, l.ID, l.Update()); err != nil {
				s.log.Warn().Err(err).Str("op", string(childsync.OpUpdate)).Str("child_id", l.ID).Msg("execution log update failed")
				return &childsync.OpError{Op: childsync.OpUpdate, ChildID: l.ID, Err: err}
			}
			return nil
		})
	}
	g.Go(func() error {
		if _, err := s.workoutRepo.UpdateNotes(gCtx, workoutID, notes); err != nil {
			return &childsync.OpError{Op: childsync.OpParentUpdate, ChildID: workoutID, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.WorkoutLog{}, err
	}

	// 3. Complete when everything was done, otherwise return the fresh state
	if allCompleted(logs) {
		s.log.Info().Str("workout_id", workoutID).Msg("all exercises done, completing workout")
		return s.workoutRepo.Complete(ctx, workoutID)
	}
	return s.workoutRepo.GetByID(ctx, workoutID)
}

func allCompleted(logs []domain.ExecutionLog) bool {
	if len(logs) == 0 {
		return false
	}
	for _, l := range logs {
		if !l.Completed {
			return false
		}
	}
	return true
}
