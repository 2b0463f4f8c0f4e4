package service

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/fitness-sync/internal/childsync"
	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/validators"
)

// --- Service Interface ---
type PlanService interface {
	GetPlan(ctx context.Context, planID string) (domain.TrainingPlan, error)
	ListPlans(ctx context.Context) ([]domain.TrainingPlan, error)
	// ReorderSessions puts the plan's sessions in the order of orderedIDs,
	// which must list every session of the plan exactly once.
	ReorderSessions(ctx context.Context, planID string, orderedIDs []string) ([]domain.Session, error)
	// SavePlan brings the plan's sessions to desired.Sessions (unless nil),
	// then updates the plan itself.
	SavePlan(ctx context.Context, desired domain.TrainingPlan) (domain.TrainingPlan, error)
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo    repository.PlanRepository
	sessionRepo repository.SessionRepository
	executor    *childsync.Executor[domain.Session]
	recorder    *BatchRecorder
	limit       int
	log         *logger.Logger
}

// NewPlanService creates a new instance of planService. maxConcurrency bounds
// the calls in flight within one step of a batch.
func NewPlanService(
	planRepo repository.PlanRepository,
	sessionRepo repository.SessionRepository,
	recorder *BatchRecorder,
	maxConcurrency int,
	log *logger.Logger,
) PlanService {
	if log == nil {
		log = logger.Nop()
	}
	return &planService{
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
		executor:    childsync.NewExecutor[domain.Session](sessionRepo, maxConcurrency, log),
		recorder:    recorder,
		limit:       maxConcurrency,
		log:         log,
	}
}

func (s *planService) GetPlan(ctx context.Context, planID string) (domain.TrainingPlan, error) {
	return s.planRepo.GetByID(ctx, planID)
}

func (s *planService) ListPlans(ctx context.Context) ([]domain.TrainingPlan, error) {
	return s.planRepo.List(ctx)
}

func (s *planService) ReorderSessions(ctx context.Context, planID string, orderedIDs []string) ([]domain.Session, error) {
	initial, err := s.sessionRepo.ListByParent(ctx, planID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Session, len(initial))
	for _, sess := range initial {
		byID[sess.ID] = sess
	}
	desired := make([]domain.Session, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		sess, ok := byID[id]
		if !ok {
			return nil, repository.NewValidationError("sessions", fmt.Sprintf("session %q is not part of plan %s", id, planID))
		}
		desired = append(desired, sess)
	}

	reorder, err := ordering.PlanReorder(initial, desired)
	if err != nil {
		return nil, repository.NewValidationError("sessions", "the new order must list every session of the plan exactly once")
	}
	if reorder.Empty() {
		return ordering.SortByPosition(initial), nil
	}

	b := s.recorder.begin(ctx, ParentPlan, planID, initial)
	b.count(0, len(reorder.Final), 0, reorder.Calls())
	err = ordering.Apply(ctx, reorder, s.updateSession, s.limit)
	s.recorder.finish(ctx, b, err)
	if err != nil {
		return nil, &childsync.OpError{Op: childsync.OpUpdate, ChildID: phaseChild(err), Err: err}
	}
	return ordering.Normalize(desired), nil
}

func (s *planService) updateSession(ctx context.Context, sess domain.Session) error {
	_, err := s.sessionRepo.Update(ctx, sess)
	return err
}

func (s *planService) SavePlan(ctx context.Context, desired domain.TrainingPlan) (domain.TrainingPlan, error) {
	// 1. Validate everything that needs no snapshot before any remote call
	if strings.TrimSpace(desired.ID) == "" {
		return domain.TrainingPlan{}, repository.NewValidationError("id", "Plan id is required")
	}
	if err := validators.Plan(desired); err != nil {
		return domain.TrainingPlan{}, err
	}
	if desired.Sessions != nil {
		if err := validators.Sessions(desired.Sessions); err != nil {
			return domain.TrainingPlan{}, err
		}
	}

	// 2. Children first: the plan keeps its identity, so nothing anchors on it
	sessionIDs, err := s.syncSessions(ctx, desired)
	if err != nil {
		return domain.TrainingPlan{}, err
	}

	// 3. Plan scalar fields and the committed session order
	saved, err := s.planRepo.Update(ctx, desired.ID, domain.TrainingPlanUpdate{
		Name:        strings.TrimSpace(desired.Name),
		Description: desired.Description,
		Sessions:    sessionIDs,
	})
	if err != nil {
		return domain.TrainingPlan{}, &childsync.OpError{Op: childsync.OpParentUpdate, ChildID: desired.ID, Err: err}
	}
	return saved, nil
}

// syncSessions applies desired.Sessions and returns the session ids in their
// committed order.
func (s *planService) syncSessions(ctx context.Context, desired domain.TrainingPlan) ([]string, error) {
	initial, err := s.sessionRepo.ListByParent(ctx, desired.ID)
	if err != nil {
		return nil, err
	}
	if desired.Sessions == nil {
		return sessionIDs(initial), nil
	}

	wanted := mergeSessions(desired.ID, initial, desired.Sessions)
	plan, err := childsync.Synchronize(initial, wanted, validators.Sessions)
	if err != nil {
		return nil, err
	}
	if plan.Empty() {
		return sessionIDs(ordering.SortByPosition(initial)), nil
	}

	s.log.Debug().Str("plan_id", desired.ID).Stringer("plan", plan).Msg("synchronizing sessions")
	b := s.recorder.begin(ctx, ParentPlan, desired.ID, initial)
	b.count(len(plan.Create), len(plan.Update), len(plan.Delete), childsync.Calls(initial, plan))
	_, err = s.executor.Execute(ctx, desired.ID, initial, plan)
	s.recorder.finish(ctx, b, err)
	if err != nil {
		return nil, err
	}

	committed, err := s.sessionRepo.ListByParent(ctx, desired.ID)
	if err != nil {
		return nil, err
	}
	return sessionIDs(committed), nil
}

// mergeSessions completes desired sessions with what only the server knows:
// their plan and, for existing ones, their status.
func mergeSessions(planID string, initial, desired []domain.Session) []domain.Session {
	status := make(map[string]domain.SessionStatus, len(initial))
	for _, sess := range initial {
		status[sess.ID] = sess.Status
	}
	out := make([]domain.Session, len(desired))
	for i, sess := range desired {
		sess.PlanID = planID
		sess.ExerciseExecutions = nil
		if sess.Status == "" {
			if st, ok := status[sess.ID]; ok {
				sess.Status = st
			} else {
				sess.Status = domain.SessionPlanned
			}
		}
		out[i] = sess
	}
	return out
}

func sessionIDs(sessions []domain.Session) []string {
	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	return ids
}
