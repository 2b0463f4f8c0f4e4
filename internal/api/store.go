package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/fitness-sync/internal/domain"
)

// Kinds of store failures; handlers map them to status codes.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// storeError carries the message returned to the client next to its kind.
type storeError struct {
	kind error
	msg  string
}

func (e *storeError) Error() string { return e.msg }
func (e *storeError) Unwrap() error { return e.kind }

func fail(kind error, format string, args ...any) error {
	return &storeError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Store is the in-memory state of the reference backend. It enforces what
// the production API enforces: one session per (plan, orderID), one
// execution per (session, exerciseId) and per (session, orderID).
//
// Two production rules are relaxed by default: session updates are not range
// checked (see SetStrictUpdatePositions) and session names may repeat
// within a plan.
type Store struct {
	mu         sync.Mutex
	strict     bool
	plans      map[string]domain.TrainingPlan
	sessions   map[string]domain.Session
	executions map[string]domain.ExerciseExecution
	exercises  map[string]domain.Exercise
	workouts   map[string]domain.WorkoutLog
	execLogs   map[string]domain.ExecutionLog
	logOrigin  map[string]string // execution log id -> exercise execution id
	writes     []string
	newID      func() string
	now        func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		plans:      map[string]domain.TrainingPlan{},
		sessions:   map[string]domain.Session{},
		executions: map[string]domain.ExerciseExecution{},
		exercises:  map[string]domain.Exercise{},
		workouts:   map[string]domain.WorkoutLog{},
		execLogs:   map[string]domain.ExecutionLog{},
		logOrigin:  map[string]string{},
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Writes returns every accepted mutation in the order it was applied,
// e.g. "update session 3f2a... orderID=11".
func (s *Store) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *Store) record(format string, args ...any) {
	s.writes = append(s.writes, fmt.Sprintf(format, args...))
}

// ── plans ──

func (s *Store) CreatePlan(name, description string) (domain.TrainingPlan, error) {
	if err := checkPlanName(name); err != nil {
		return domain.TrainingPlan{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := domain.TrainingPlan{ID: s.newID(), Name: strings.TrimSpace(name), Description: description}
	s.plans[p.ID] = p
	s.record("create plan %s", p.ID)
	return p, nil
}

func checkPlanName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail(ErrInvalid, "Plan name is required")
	}
	if len([]rune(name)) < domain.MinPlanNameLength {
		return fail(ErrInvalid, "Plan name must be at least %d characters", domain.MinPlanNameLength)
	}
	return nil
}

func (s *Store) Plan(id string) (domain.TrainingPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planLocked(id)
}

func (s *Store) planLocked(id string) (domain.TrainingPlan, error) {
	p, ok := s.plans[id]
	if !ok {
		return domain.TrainingPlan{}, fail(ErrNotFound, "Plan not found")
	}
	p.Sessions = s.sessionsLocked(id)
	return p, nil
}

func (s *Store) Plans() []domain.TrainingPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TrainingPlan, 0, len(s.plans))
	for id := range s.plans {
		p, _ := s.planLocked(id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UpdatePlan changes the plan's scalar fields. sessionIDs must all belong to
// the plan; their positions are left alone.
func (s *Store) UpdatePlan(id string, upd domain.TrainingPlanUpdate) (domain.TrainingPlan, error) {
	if err := checkPlanName(upd.Name); err != nil {
		return domain.TrainingPlan{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return domain.TrainingPlan{}, fail(ErrNotFound, "Plan not found")
	}
	for _, sid := range upd.Sessions {
		if sess, ok := s.sessions[sid]; !ok || sess.PlanID != id {
			return domain.TrainingPlan{}, fail(ErrInvalid, "Session %s does not belong to this plan", sid)
		}
	}
	p.Name = strings.TrimSpace(upd.Name)
	p.Description = upd.Description
	s.plans[id] = p
	s.record("update plan %s", id)
	return s.planLocked(id)
}

// ── sessions ──

func (s *Store) sessionsLocked(planID string) []domain.Session {
	out := make([]domain.Session, 0)
	for _, sess := range s.sessions {
		if planID == "" || sess.PlanID == planID {
			out = append(out, s.withCountsLocked(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

func (s *Store) withCountsLocked(sess domain.Session) domain.Session {
	sess.ExerciseCount = 0
	for _, e := range s.executions {
		if e.SessionID == sess.ID {
			sess.ExerciseCount++
		}
	}
	return sess
}

// Sessions lists the sessions of a plan, or all of them when planID is empty.
func (s *Store) Sessions(planID string) []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionsLocked(planID)
}

func (s *Store) Session(id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, fail(ErrNotFound, "Session not found")
	}
	return s.withCountsLocked(sess), nil
}

func (s *Store) sessionOrderTakenLocked(planID string, orderID int, exceptID string) bool {
	for id, other := range s.sessions {
		if id != exceptID && other.PlanID == planID && other.OrderID == orderID {
			return true
		}
	}
	return false
}

func (s *Store) planSizeLocked(planID, exceptID string) int {
	n := 0
	for id, other := range s.sessions {
		if id != exceptID && other.PlanID == planID {
			n++
		}
	}
	return n
}

func (s *Store) CreateSession(in domain.Session) (domain.Session, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Session{}, fail(ErrInvalid, "Session name is required")
	}
	if in.PlanID == "" {
		return domain.Session{}, fail(ErrInvalid, "Plan is required")
	}
	if in.OrderID < 1 || in.OrderID > domain.MaxOrderValue {
		return domain.Session{}, fail(ErrInvalid, "Order must be between 1 and %d", domain.MaxOrderValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[in.PlanID]; !ok {
		return domain.Session{}, fail(ErrNotFound, "Plan not found")
	}
	if s.planSizeLocked(in.PlanID, "") >= domain.MaxSessionsPerPlan {
		return domain.Session{}, fail(ErrInvalid, "Maximum of %d sessions per plan reached", domain.MaxSessionsPerPlan)
	}
	if s.sessionOrderTakenLocked(in.PlanID, in.OrderID, "") {
		return domain.Session{}, fail(ErrConflict, "Order %d is already used in this plan", in.OrderID)
	}

	sess := domain.Session{
		ID:            s.newID(),
		PlanID:        in.PlanID,
		Name:          strings.TrimSpace(in.Name),
		ScheduledDate: in.ScheduledDate,
		OrderID:       in.OrderID,
		Status:        in.Status,
	}
	if sess.Status == "" {
		sess.Status = domain.SessionPlanned
	}
	s.sessions[sess.ID] = sess
	s.record("create session %s orderID=%d", sess.ID, sess.OrderID)
	return sess, nil
}

// SetStrictUpdatePositions makes UpdateSession reject positions outside
// 1..MaxOrderValue, as the production API does. A reorder whose buffer base
// (highest position + moved sessions + 5) exceeds the range then fails in its
// buffer phase.
func (s *Store) SetStrictUpdatePositions(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strict = on
}

// UpdateSession replaces the session's fields. Zero planId or orderID keep
// the stored values. Unless strict positions are on, the new position is only
// checked for uniqueness, so buffer positions above MaxOrderValue are accepted.
func (s *Store) UpdateSession(id string, in domain.Session) (domain.Session, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Session{}, fail(ErrInvalid, "Session name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, fail(ErrNotFound, "Session not found")
	}
	planID := cur.PlanID
	if in.PlanID != "" {
		planID = in.PlanID
	}
	orderID := cur.OrderID
	if in.OrderID != 0 {
		orderID = in.OrderID
	}
	if s.strict && (orderID < 1 || orderID > domain.MaxOrderValue) {
		return domain.Session{}, fail(ErrInvalid, "Order must be between 1 and %d", domain.MaxOrderValue)
	}
	if _, ok := s.plans[planID]; !ok {
		return domain.Session{}, fail(ErrNotFound, "Plan not found")
	}
	if planID != cur.PlanID && s.planSizeLocked(planID, id) >= domain.MaxSessionsPerPlan {
		return domain.Session{}, fail(ErrInvalid, "Maximum of %d sessions per plan reached", domain.MaxSessionsPerPlan)
	}
	if s.sessionOrderTakenLocked(planID, orderID, id) {
		return domain.Session{}, fail(ErrConflict, "Order %d is already used in this plan", orderID)
	}

	cur.PlanID = planID
	cur.OrderID = orderID
	cur.Name = strings.TrimSpace(in.Name)
	cur.ScheduledDate = in.ScheduledDate
	if in.Status != "" {
		cur.Status = in.Status
	}
	s.sessions[id] = cur
	s.record("update session %s orderID=%d", id, orderID)
	return s.withCountsLocked(cur), nil
}

// DeleteSession removes the session and its executions.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fail(ErrNotFound, "Session not found")
	}
	delete(s.sessions, id)
	for eid, e := range s.executions {
		if e.SessionID == id {
			delete(s.executions, eid)
		}
	}
	s.record("delete session %s", id)
	return nil
}

// ── exercises ──

func (s *Store) CreateExercise(in domain.Exercise) (domain.Exercise, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Exercise{}, fail(ErrInvalid, "Exercise name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = s.newID()
	s.exercises[in.ID] = in
	s.record("create exercise %s", in.ID)
	return in, nil
}

func (s *Store) Exercises() []domain.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Exercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ── exercise executions ──

func (s *Store) exerciseLocked(id string) (domain.Exercise, bool) {
	ex, ok := s.exercises[id]
	return ex, ok
}

// Executions lists a session's executions in position order.
func (s *Store) Executions(sessionID string) []domain.ExerciseExecution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executionsLocked(sessionID)
}

func (s *Store) executionsLocked(sessionID string) []domain.ExerciseExecution {
	out := make([]domain.ExerciseExecution, 0)
	for _, e := range s.executions {
		if e.SessionID == sessionID {
			out = append(out, s.decorateLocked(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

func (s *Store) decorateLocked(e domain.ExerciseExecution) domain.ExerciseExecution {
	if ex, ok := s.exerciseLocked(e.ExerciseID); ok {
		e.ExerciseName = ex.Name
		e.Category = ex.Category
	}
	return e
}

func checkPlannedValues(e domain.ExerciseExecution) error {
	switch {
	case e.PlannedSets <= 0:
		return fail(ErrInvalid, "Sets must be greater than 0")
	case e.PlannedReps <= 0:
		return fail(ErrInvalid, "Reps must be greater than 0")
	case e.PlannedWeight < 0:
		return fail(ErrInvalid, "Weight must be 0 or greater")
	}
	return nil
}

func (s *Store) executionClashLocked(e domain.ExerciseExecution, exceptID string) error {
	for id, other := range s.executions {
		if id == exceptID || other.SessionID != e.SessionID {
			continue
		}
		if other.ExerciseID == e.ExerciseID {
			return fail(ErrConflict, "Exercise is already part of this session")
		}
		if other.OrderID == e.OrderID {
			return fail(ErrConflict, "Order %d is already used in this session", e.OrderID)
		}
	}
	return nil
}

func (s *Store) CreateExecution(in domain.ExerciseExecution) (domain.ExerciseExecution, error) {
	if err := checkPlannedValues(in); err != nil {
		return domain.ExerciseExecution{}, err
	}
	if in.OrderID < 1 || in.OrderID > domain.MaxOrderValue {
		return domain.ExerciseExecution{}, fail(ErrInvalid, "Order must be between 1 and %d", domain.MaxOrderValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[in.SessionID]; !ok {
		return domain.ExerciseExecution{}, fail(ErrNotFound, "Session not found")
	}
	if _, ok := s.exerciseLocked(in.ExerciseID); !ok {
		return domain.ExerciseExecution{}, fail(ErrInvalid, "Exercise %s does not exist", in.ExerciseID)
	}
	if err := s.executionClashLocked(in, ""); err != nil {
		return domain.ExerciseExecution{}, err
	}

	e := domain.ExerciseExecution{
		ID:            s.newID(),
		SessionID:     in.SessionID,
		ExerciseID:    in.ExerciseID,
		PlannedSets:   in.PlannedSets,
		PlannedReps:   in.PlannedReps,
		PlannedWeight: in.PlannedWeight,
		OrderID:       in.OrderID,
	}
	s.executions[e.ID] = e
	s.record("create execution %s orderID=%d", e.ID, e.OrderID)
	return s.decorateLocked(e), nil
}

func (s *Store) UpdateExecution(id string, in domain.ExerciseExecution) (domain.ExerciseExecution, error) {
	if err := checkPlannedValues(in); err != nil {
		return domain.ExerciseExecution{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.executions[id]
	if !ok {
		return domain.ExerciseExecution{}, fail(ErrNotFound, "Exercise execution not found")
	}
	if _, ok := s.exerciseLocked(in.ExerciseID); !ok {
		return domain.ExerciseExecution{}, fail(ErrInvalid, "Exercise %s does not exist", in.ExerciseID)
	}
	next := cur
	next.ExerciseID = in.ExerciseID
	next.PlannedSets = in.PlannedSets
	next.PlannedReps = in.PlannedReps
	next.PlannedWeight = in.PlannedWeight
	if in.OrderID != 0 {
		next.OrderID = in.OrderID
	}
	if err := s.executionClashLocked(next, id); err != nil {
		return domain.ExerciseExecution{}, err
	}
	s.executions[id] = next
	s.record("update execution %s orderID=%d", id, next.OrderID)
	return s.decorateLocked(next), nil
}

func (s *Store) DeleteExecution(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.executions[id]; !ok {
		return fail(ErrNotFound, "Exercise execution not found")
	}
	delete(s.executions, id)
	s.record("delete execution %s", id)
	return nil
}

// ── workouts ──

// StartWorkout logs a new workout of a session, with one execution log per
// planned exercise.
func (s *Store) StartWorkout(sessionID string) (domain.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return domain.WorkoutLog{}, fail(ErrNotFound, "Session not found")
	}
	w := domain.WorkoutLog{
		ID:                s.newID(),
		SessionName:       sess.Name,
		StartedAt:         s.now().UTC().Format(time.RFC3339),
		Status:            domain.WorkoutInProgress,
		OriginalSessionID: sessionID,
	}
	if p, ok := s.plans[sess.PlanID]; ok {
		w.SessionPlanName = p.Name
	}
	for _, e := range s.executionsLocked(sessionID) {
		l := domain.ExecutionLog{
			ID:           s.newID(),
			SessionLogID: w.ID,
			ExerciseID:   e.ExerciseID,
			ExerciseName: e.ExerciseName,
		}
		s.execLogs[l.ID] = l
		s.logOrigin[l.ID] = e.ID
		w.ExecutionLogCount++
	}
	s.workouts[w.ID] = w
	s.record("start workout %s", w.ID)
	return w, nil
}

func (s *Store) Workout(id string) (domain.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return domain.WorkoutLog{}, fail(ErrNotFound, "Workout not found")
	}
	return w, nil
}

func (s *Store) UpdateWorkoutNotes(id, notes string) (domain.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return domain.WorkoutLog{}, fail(ErrNotFound, "Workout not found")
	}
	w.Notes = notes
	s.workouts[id] = w
	s.record("update workout %s", id)
	return w, nil
}

func (s *Store) CompleteWorkout(id string) (domain.WorkoutLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return domain.WorkoutLog{}, fail(ErrNotFound, "Workout not found")
	}
	w.Status = domain.WorkoutCompleted
	w.CompletedAt = s.now().UTC().Format(time.RFC3339)
	s.workouts[id] = w
	s.record("complete workout %s", id)
	return w, nil
}

func (s *Store) ExecutionLogs(workoutID string) []domain.ExecutionLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ExecutionLog, 0)
	for _, l := range s.execLogs {
		if l.SessionLogID == workoutID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.executions[s.logOrigin[out[i].ID]].OrderID < s.executions[s.logOrigin[out[j].ID]].OrderID
	})
	return out
}

func (s *Store) UpdateExecutionLog(id string, upd domain.ExecutionLogUpdate) (domain.ExecutionLog, error) {
	if negative(upd.ActualSets) || negative(upd.ActualReps) || (upd.ActualWeight != nil && *upd.ActualWeight < 0) {
		return domain.ExecutionLog{}, fail(ErrInvalid, "Actual values must be 0 or greater")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.execLogs[id]
	if !ok {
		return domain.ExecutionLog{}, fail(ErrNotFound, "Execution log not found")
	}
	l.ActualSets = upd.ActualSets
	l.ActualReps = upd.ActualReps
	l.ActualWeight = upd.ActualWeight
	l.Completed = upd.Completed
	l.Notes = upd.Notes
	s.execLogs[id] = l
	s.record("update execution log %s", id)
	return l, nil
}

func negative(v *int) bool { return v != nil && *v < 0 }
