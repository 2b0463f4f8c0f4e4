package childsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/validators"
)

func ex(id, exerciseID string, pos int) domain.ExerciseExecution {
	return domain.ExerciseExecution{
		ID: id, SessionID: "s1", ExerciseID: exerciseID,
		PlannedSets: 3, PlannedReps: 10, PlannedWeight: 20, OrderID: pos,
	}
}

func TestDiff_Partition(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2), ex("e3", "row", 3)}
	changed := ex("e2", "bench", 1)
	changed.PlannedSets = 5
	desired := []domain.ExerciseExecution{changed, ex("e1", "squat", 2), ex("", "curl", 3)}

	plan := Diff(initial, desired)

	require.Len(t, plan.Create, 1)
	assert.Equal(t, "curl", plan.Create[0].ExerciseID)
	require.Len(t, plan.Update, 2)
	assert.Equal(t, []string{"e3"}, plan.Delete)
	assert.Empty(t, plan.Unchanged)
	assert.Equal(t, len(desired), len(plan.Create)+len(plan.Update)+len(plan.Unchanged))
	assert.Equal(t, len(initial), len(plan.Update)+len(plan.Unchanged)+len(plan.Delete))
}

func TestDiff_EveryInitialIDInOneBucket(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2), ex("e3", "row", 3)}
	desired := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 3)}

	plan := Diff(initial, desired)

	buckets := map[string]int{}
	for _, c := range plan.Update {
		buckets[c.ID]++
	}
	for _, id := range plan.Unchanged {
		buckets[id]++
	}
	for _, id := range plan.Delete {
		buckets[id]++
	}
	assert.Equal(t, map[string]int{"e1": 1, "e2": 1, "e3": 1}, buckets)
	assert.Equal(t, []string{"e1"}, plan.Unchanged)
}

func TestDiff_UnchangedProducesNoCall(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}

	plan := Diff(initial, initial)

	assert.True(t, plan.Empty())
	assert.Equal(t, []string{"e1", "e2"}, plan.Unchanged)
}

func TestDiff_MissingPositionsDefaultToIndex(t *testing.T) {
	desired := []domain.ExerciseExecution{ex("", "squat", 0), ex("", "bench", 0)}

	plan := Diff(nil, desired)

	require.Len(t, plan.Create, 2)
	assert.Equal(t, 1, plan.Create[0].OrderID)
	assert.Equal(t, 2, plan.Create[1].OrderID)
	assert.Equal(t, 0, desired[0].OrderID, "input must stay untouched")
}

func TestDiff_ClearedList(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}

	plan := Diff(initial, nil)

	assert.ElementsMatch(t, []string{"e1", "e2"}, plan.Delete)
	assert.Empty(t, plan.Create)
	assert.Empty(t, plan.Update)
}

func TestSynchronize_RulesRunFirst(t *testing.T) {
	desired := []domain.ExerciseExecution{ex("", "squat", 1), ex("", "squat", 2)}

	_, err := Synchronize(nil, desired, validators.ExerciseExecutions)

	var ve *repository.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, validators.MsgDuplicateExercise, ve.Message)
}

func TestSynchronize_StructuralChecks(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1)}

	tests := []struct {
		name    string
		desired []domain.ExerciseExecution
		field   string
	}{
		{name: "duplicate natural key", desired: []domain.ExerciseExecution{ex("e1", "squat", 1), ex("", "squat", 2)}, field: "reference"},
		{name: "unknown id", desired: []domain.ExerciseExecution{ex("e9", "squat", 1)}, field: "id"},
		{name: "id twice", desired: []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e1", "bench", 2)}, field: "id"},
		{name: "position out of range", desired: []domain.ExerciseExecution{ex("e1", "squat", 31)}, field: "orderID"},
		{name: "position shared", desired: []domain.ExerciseExecution{ex("e1", "squat", 2), ex("", "bench", 2)}, field: "orderID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synchronize(initial, tt.desired)
			require.ErrorIs(t, err, repository.ErrValidation)
			var ve *repository.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSynchronize_DuplicateReferenceMessage(t *testing.T) {
	_, err := Synchronize(nil, []domain.ExerciseExecution{ex("", "squat", 1), ex("", "squat", 2)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate reference "squat"`)
}

func TestSynchronize_TooManyChildren(t *testing.T) {
	desired := make([]domain.ExerciseExecution, domain.MaxOrderValue+1)
	for i := range desired {
		desired[i] = ex("", string(rune('a'+i)), 0)
	}

	_, err := Synchronize(nil, desired)

	require.ErrorIs(t, err, repository.ErrValidation)
}

func TestSynchronize_SessionsHaveNoNaturalKey(t *testing.T) {
	initial := []domain.Session{{ID: "s1", Name: "Legs", OrderID: 1}}
	desired := []domain.Session{{ID: "s1", Name: "Legs", OrderID: 1}, {Name: "Legs"}}

	plan, err := Synchronize(initial, desired, validators.Sessions)

	require.NoError(t, err)
	require.Len(t, plan.Create, 1)
	assert.Equal(t, 2, plan.Create[0].OrderID)
}
