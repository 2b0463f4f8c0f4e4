package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
)

func exec(exerciseID string, sets, reps int, weight float64) domain.ExerciseExecution {
	return domain.ExerciseExecution{ExerciseID: exerciseID, PlannedSets: sets, PlannedReps: reps, PlannedWeight: weight}
}

func requireMessage(t *testing.T, err error, field, msg string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, repository.ErrValidation)
	var ve *repository.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
	assert.Equal(t, msg, ve.Message)
}

func TestExerciseExecution(t *testing.T) {
	bodyweight := exec("pushup", 3, 10, 0)
	bodyweight.Category = domain.CategoryBodyWeight

	tests := []struct {
		name  string
		in    domain.ExerciseExecution
		field string
		msg   string
	}{
		{name: "valid", in: exec("squat", 5, 5, 100)},
		{name: "bodyweight with zero weight", in: bodyweight},
		{name: "missing exercise", in: exec("", 3, 10, 20), field: "exerciseId", msg: MsgExerciseRequired},
		{name: "zero sets", in: exec("squat", 0, 10, 20), field: "plannedSets", msg: MsgSetsRequired},
		{name: "negative reps", in: exec("squat", 3, -1, 20), field: "plannedReps", msg: MsgRepsRequired},
		{name: "negative weight", in: exec("squat", 3, 10, -2.5), field: "plannedWeight", msg: MsgWeightInvalid},
		{name: "zero weight for loaded exercise", in: exec("squat", 3, 10, 0), field: "plannedWeight", msg: MsgWeightRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExerciseExecution(tt.in)
			if tt.msg == "" {
				require.NoError(t, err)
				return
			}
			requireMessage(t, err, tt.field, tt.msg)
		})
	}
}

func TestExerciseExecutions_DuplicateBeforeFieldErrors(t *testing.T) {
	desired := []domain.ExerciseExecution{exec("squat", 0, 10, 20), exec("squat", 3, 10, 20)}

	requireMessage(t, ExerciseExecutions(desired), "exerciseId", MsgDuplicateExercise)
}

func TestExerciseExecutions_FirstInvalidEntry(t *testing.T) {
	desired := []domain.ExerciseExecution{exec("squat", 3, 10, 20), exec("bench", 3, 0, 20)}

	requireMessage(t, ExerciseExecutions(desired), "plannedReps", MsgRepsRequired)
}

func TestExerciseExecutionFields_SkipsOnlyBodyweightRule(t *testing.T) {
	// no category yet: a zero weight is left for the full check
	assert.NoError(t, ExerciseExecutionFields([]domain.ExerciseExecution{exec("squat", 3, 5, 0)}))
	requireMessage(t, ExerciseExecutions([]domain.ExerciseExecution{exec("squat", 3, 5, 0)}), "plannedWeight", MsgWeightRequired)

	requireMessage(t, ExerciseExecutionFields([]domain.ExerciseExecution{exec("pushup", 3, 10, 0), exec("pushup", 4, 12, 0)}),
		"exerciseId", MsgDuplicateExercise)
	requireMessage(t, ExerciseExecutionFields([]domain.ExerciseExecution{exec("pushup", 0, 10, 0)}), "plannedSets", MsgSetsRequired)
	requireMessage(t, ExerciseExecutionFields([]domain.ExerciseExecution{exec("pushup", 3, 0, 0)}), "plannedReps", MsgRepsRequired)
	requireMessage(t, ExerciseExecutionFields([]domain.ExerciseExecution{exec("pushup", 3, 10, -5)}), "plannedWeight", MsgWeightInvalid)
}

func TestSessionCreate(t *testing.T) {
	requireMessage(t, SessionCreate(domain.Session{PlanID: "p1"}), "name", MsgSessionNameRequired)
	requireMessage(t, SessionCreate(domain.Session{Name: "   ", PlanID: "p1"}), "name", MsgSessionNameRequired)
	requireMessage(t, SessionCreate(domain.Session{Name: "Legs"}), "planId", MsgPlanRequired)
	requireMessage(t, SessionCreate(domain.Session{Name: "Legs", PlanID: "p1", OrderID: 31}), "orderID", MsgOrderRange)
	requireMessage(t, SessionCreate(domain.Session{Name: "Legs", PlanID: "p1", Status: "DONE"}), "status", MsgStatusInvalid)
	require.NoError(t, SessionCreate(domain.Session{Name: "Legs", PlanID: "p1", OrderID: 30}))
}

func TestSessionUpdate_NoPlanNeeded(t *testing.T) {
	require.NoError(t, SessionUpdate(domain.Session{ID: "s1", Name: "Legs"}))
}

func TestSessions_Capacity(t *testing.T) {
	desired := make([]domain.Session, domain.MaxSessionsPerPlan+1)
	for i := range desired {
		desired[i] = domain.Session{Name: "s"}
	}
	requireMessage(t, Sessions(desired), "sessions", MsgPlanFull)
	require.NoError(t, Sessions(desired[:domain.MaxSessionsPerPlan]))
}

func TestPlan(t *testing.T) {
	requireMessage(t, Plan(domain.TrainingPlan{}), "name", MsgPlanNameRequired)
	requireMessage(t, Plan(domain.TrainingPlan{Name: "  "}), "name", MsgPlanNameRequired)
	requireMessage(t, Plan(domain.TrainingPlan{Name: " A "}), "name", MsgPlanNameTooShort)
	require.NoError(t, Plan(domain.TrainingPlan{Name: "AB"}))
	require.NoError(t, Plan(domain.TrainingPlan{Name: strings.Repeat("x", 40)}))
}

func TestPlanCapacity(t *testing.T) {
	require.NoError(t, PlanCapacity(domain.MaxSessionsPerPlan-1))
	requireMessage(t, PlanCapacity(domain.MaxSessionsPerPlan), "sessions", MsgPlanFull)
}

func TestExecutionLog(t *testing.T) {
	neg := -1
	requireMessage(t, ExecutionLog(domain.ExecutionLog{ID: "l1", ActualSets: &neg}), "actualSets", MsgActualNegative)

	ok := 3
	require.NoError(t, ExecutionLog(domain.ExecutionLog{ID: "l1", ActualSets: &ok}))
	require.NoError(t, ExecutionLog(domain.ExecutionLog{ID: "l1"}))
}

func TestMustRegister_FailsLoudly(t *testing.T) {
	assert.Panics(t, func() { mustRegister("", notBlank) })
}
