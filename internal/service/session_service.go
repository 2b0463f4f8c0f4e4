package service

import (
	"context"
	"strings"

	"alcyxob/fitness-sync/internal/childsync"
	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/validators"
)

// --- Service Interface ---
type SessionService interface {
	// NextPosition returns the position a new (or moved) session would get
	// in planID. excludeID is left out of the occupied set.
	NextPosition(ctx context.Context, planID, excludeID string) (int, error)
	// CreateSession creates the session, at the next free position when it
	// has none, then its ExerciseExecutions.
	CreateSession(ctx context.Context, session domain.Session) (domain.Session, error)
	// SaveSession updates the session and, unless ExerciseExecutions is nil,
	// brings its exercises to the given list.
	SaveSession(ctx context.Context, desired domain.Session) (domain.Session, error)
	// MoveSession moves a session to the next free position of another plan.
	MoveSession(ctx context.Context, sessionID, targetPlanID string) (domain.Session, error)
}

// --- Service Implementation ---

// sessionService implements the SessionService interface.
type sessionService struct {
	sessionRepo   repository.SessionRepository
	executionRepo repository.ExerciseExecutionRepository
	exercises     ExerciseService
	executor      *childsync.Executor[domain.ExerciseExecution]
	recorder      *BatchRecorder
	log           *logger.Logger
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(
	sessionRepo repository.SessionRepository,
	executionRepo repository.ExerciseExecutionRepository,
	exercises ExerciseService,
	recorder *BatchRecorder,
	maxConcurrency int,
	log *logger.Logger,
) SessionService {
	if log == nil {
		log = logger.Nop()
	}
	return &sessionService{
		sessionRepo:   sessionRepo,
		executionRepo: executionRepo,
		exercises:     exercises,
		executor:      childsync.NewExecutor[domain.ExerciseExecution](executionRepo, maxConcurrency, log),
		recorder:      recorder,
		log:           log,
	}
}

func (s *sessionService) NextPosition(ctx context.Context, planID, excludeID string) (int, error) {
	siblings, err := s.sessionRepo.ListByParent(ctx, planID)
	if err != nil {
		return 0, err
	}
	return ordering.NextAvailablePosition(siblings, excludeID), nil
}

func (s *sessionService) CreateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	// 1. Validate the session and its exercises before any write
	if err := validators.SessionCreate(session); err != nil {
		return domain.Session{}, err
	}
	executions := make([]domain.ExerciseExecution, len(session.ExerciseExecutions))
	for i, e := range session.ExerciseExecutions {
		e.ID = ""
		executions[i] = e
	}
	if err := validators.ExerciseExecutionFields(executions); err != nil {
		return domain.Session{}, err
	}
	executions, err := s.exercises.Categorize(ctx, executions)
	if err != nil {
		return domain.Session{}, err
	}
	execPlan, err := childsync.Synchronize(nil, executions, validators.ExerciseExecutions)
	if err != nil {
		return domain.Session{}, err
	}

	// 2. Capacity and position within the plan
	siblings, err := s.sessionRepo.ListByParent(ctx, session.PlanID)
	if err != nil {
		return domain.Session{}, err
	}
	if err := validators.PlanCapacity(len(siblings)); err != nil {
		return domain.Session{}, err
	}
	if session.OrderID == 0 {
		session.OrderID = ordering.NextAvailablePosition(siblings, "")
	}

	// 3. The session, then its exercises under the new id
	toCreate := session
	toCreate.Name = strings.TrimSpace(toCreate.Name)
	toCreate.ExerciseExecutions = nil
	if toCreate.Status == "" {
		toCreate.Status = domain.SessionPlanned
	}
	created, err := s.sessionRepo.Create(ctx, session.PlanID, toCreate)
	if err != nil {
		return domain.Session{}, &childsync.OpError{Op: childsync.OpCreate, Err: err}
	}
	s.log.Info().Str("session_id", created.ID).Str("plan_id", created.PlanID).
		Int("order_id", created.OrderID).Msg("session created")

	if execPlan.Empty() {
		return created, nil
	}
	res, err := s.runExecutions(ctx, created.ID, nil, execPlan)
	if err != nil {
		return created, err
	}
	created.ExerciseExecutions = ordering.SortByPosition(res.Created)
	created.ExerciseCount = len(res.Created)
	return created, nil
}

func (s *sessionService) SaveSession(ctx context.Context, desired domain.Session) (domain.Session, error) {
	// 1. Validate before any write
	if strings.TrimSpace(desired.ID) == "" {
		return domain.Session{}, repository.NewValidationError("id", "Session id is required")
	}
	if err := validators.SessionUpdate(desired); err != nil {
		return domain.Session{}, err
	}
	syncChildren := desired.ExerciseExecutions != nil

	var (
		initial []domain.ExerciseExecution
		plan    childsync.Plan[domain.ExerciseExecution]
	)
	if syncChildren {
		wanted := make([]domain.ExerciseExecution, len(desired.ExerciseExecutions))
		for i, e := range desired.ExerciseExecutions {
			e.SessionID = desired.ID
			wanted[i] = e
		}
		if err := validators.ExerciseExecutionFields(wanted); err != nil {
			return domain.Session{}, err
		}
		wanted, err := s.exercises.Categorize(ctx, wanted)
		if err != nil {
			return domain.Session{}, err
		}
		if err := validators.ExerciseExecutions(wanted); err != nil {
			return domain.Session{}, err
		}
		if initial, err = s.executionRepo.ListByParent(ctx, desired.ID); err != nil {
			return domain.Session{}, err
		}
		if plan, err = childsync.Synchronize(initial, wanted); err != nil {
			return domain.Session{}, err
		}
	}

	// 2. Complete the desired session from the server's copy
	current, err := s.sessionRepo.GetByID(ctx, desired.ID)
	if err != nil {
		return domain.Session{}, err
	}
	merged := desired
	merged.ExerciseExecutions = nil
	merged.Name = strings.TrimSpace(merged.Name)
	if merged.PlanID == "" {
		merged.PlanID = current.PlanID
	}
	if merged.Status == "" {
		merged.Status = current.Status
	}

	// 3. A session changing plan is updated first so its position is taken
	// from the target plan's committed state; otherwise exercises go first.
	var saved domain.Session
	if merged.PlanID != current.PlanID {
		siblings, err := s.sessionRepo.ListByParent(ctx, merged.PlanID)
		if err != nil {
			return domain.Session{}, err
		}
		if err := validators.PlanCapacity(len(siblings)); err != nil {
			return domain.Session{}, err
		}
		if merged.OrderID == 0 || positionTaken(siblings, merged.OrderID, merged.ID) {
			merged.OrderID = ordering.NextAvailablePosition(siblings, merged.ID)
		}
		if saved, err = s.updateSession(ctx, merged); err != nil {
			return domain.Session{}, err
		}
		if _, err = s.runExecutions(ctx, merged.ID, initial, plan); err != nil {
			return saved, err
		}
	} else {
		if merged.OrderID == 0 {
			merged.OrderID = current.OrderID
		}
		if _, err = s.runExecutions(ctx, merged.ID, initial, plan); err != nil {
			return current, err
		}
		if saved, err = s.updateSession(ctx, merged); err != nil {
			return current, err
		}
	}

	if syncChildren {
		if saved.ExerciseExecutions, err = s.executionRepo.ListByParent(ctx, saved.ID); err != nil {
			return saved, err
		}
		saved.ExerciseCount = len(saved.ExerciseExecutions)
	}
	return saved, nil
}

func (s *sessionService) MoveSession(ctx context.Context, sessionID, targetPlanID string) (domain.Session, error) {
	if strings.TrimSpace(targetPlanID) == "" {
		return domain.Session{}, repository.NewValidationError("planId", validators.MsgPlanRequired)
	}
	current, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if current.PlanID == targetPlanID {
		return current, nil
	}

	siblings, err := s.sessionRepo.ListByParent(ctx, targetPlanID)
	if err != nil {
		return domain.Session{}, err
	}
	if err := validators.PlanCapacity(len(siblings)); err != nil {
		return domain.Session{}, err
	}

	moved := current
	moved.PlanID = targetPlanID
	moved.OrderID = ordering.NextAvailablePosition(siblings, sessionID)
	moved.ExerciseExecutions = nil
	return s.updateSession(ctx, moved)
}

func (s *sessionService) updateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	saved, err := s.sessionRepo.Update(ctx, session)
	if err != nil {
		return domain.Session{}, &childsync.OpError{Op: childsync.OpParentUpdate, ChildID: session.ID, Err: err}
	}
	return saved, nil
}

// runExecutions executes plan for the session's exercises as one recorded batch.
func (s *sessionService) runExecutions(
	ctx context.Context,
	sessionID string,
	initial []domain.ExerciseExecution,
	plan childsync.Plan[domain.ExerciseExecution],
) (childsync.Result[domain.ExerciseExecution], error) {
	if plan.Empty() {
		return childsync.Result[domain.ExerciseExecution]{}, nil
	}
	s.log.Debug().Str("session_id", sessionID).Stringer("plan", plan).Msg("synchronizing exercises")

	b := s.recorder.begin(ctx, ParentSession, sessionID, initial)
	b.count(len(plan.Create), len(plan.Update), len(plan.Delete), childsync.Calls(initial, plan))
	res, err := s.executor.Execute(ctx, sessionID, initial, plan)
	s.recorder.finish(ctx, b, err)
	return res, err
}

func positionTaken(siblings []domain.Session, pos int, excludeID string) bool {
	for _, sib := range siblings {
		if sib.ID != excludeID && sib.OrderID == pos {
			return true
		}
	}
	return false
}
