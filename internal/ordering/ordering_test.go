package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-sync/internal/domain"
)

func sess(id string, pos int) domain.Session {
	return domain.Session{ID: id, Name: "session " + id, OrderID: pos}
}

func positions(children []domain.Session) []int {
	out := make([]int, len(children))
	for i, c := range children {
		out[i] = c.OrderID
	}
	return out
}

// ── NextAvailablePosition ──

func TestNextAvailablePosition(t *testing.T) {
	full := make([]domain.Session, 0, domain.MaxOrderValue)
	for i := 1; i <= domain.MaxOrderValue; i++ {
		full = append(full, sess(string(rune('a'+i)), i))
	}

	tests := []struct {
		name      string
		siblings  []domain.Session
		excludeID string
		want      int
	}{
		{name: "nil siblings", siblings: nil, want: 1},
		{name: "empty siblings", siblings: []domain.Session{}, want: 1},
		{name: "gap in the middle", siblings: []domain.Session{sess("a", 1), sess("b", 2), sess("c", 4)}, want: 3},
		{name: "contiguous", siblings: []domain.Session{sess("a", 1), sess("b", 2)}, want: 3},
		{name: "first slot free", siblings: []domain.Session{sess("a", 2), sess("b", 3)}, want: 1},
		{name: "non positive positions ignored", siblings: []domain.Session{sess("a", 0), sess("b", -3)}, want: 1},
		{name: "excluded sibling frees its slot", siblings: []domain.Session{sess("a", 1), sess("b", 2)}, excludeID: "a", want: 1},
		{name: "all slots taken saturates", siblings: full, want: domain.MaxOrderValue},
		{name: "all taken but excluded one", siblings: full, excludeID: full[4].ID, want: 5},
		{name: "out of range positions do not block", siblings: []domain.Session{sess("a", 31), sess("b", 40)}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAvailablePosition(tt.siblings, tt.excludeID))
		})
	}
}

func TestNextAvailablePosition_NeverExceedsMax(t *testing.T) {
	siblings := make([]domain.Session, 0, 40)
	for i := 1; i <= 40; i++ {
		siblings = append(siblings, sess(string(rune('A'+i)), i))
	}
	assert.Equal(t, domain.MaxOrderValue, NextAvailablePosition(siblings, ""))
}

// ── normalization ──

func TestSortByPosition_MissingLast(t *testing.T) {
	in := []domain.Session{sess("x", 0), sess("c", 3), sess("a", 1), sess("y", 0), sess("b", 2)}

	out := SortByPosition(in)

	ids := make([]string, len(out))
	for i, c := range out {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, ids)
	assert.Equal(t, "x", in[0].ID, "input must not be reordered")
}

func TestNormalize(t *testing.T) {
	in := []domain.Session{sess("c", 7), sess("a", 2), sess("b", 0)}

	out := Normalize(in)

	assert.Equal(t, []int{1, 2, 3}, positions(out))
	assert.Equal(t, []int{7, 2, 0}, positions(in))
}

func TestFillPositions(t *testing.T) {
	out := FillPositions([]domain.Session{sess("", 0), sess("b", 5), sess("", 0)})
	assert.Equal(t, []int{1, 5, 3}, positions(out))
}

// ── PlanReorder ──

func TestPlanReorder_NoChange(t *testing.T) {
	initial := []domain.Session{sess("A", 1), sess("B", 2), sess("C", 3)}

	batch, err := PlanReorder(initial, initial)

	require.NoError(t, err)
	assert.True(t, batch.Empty())
	assert.Zero(t, batch.Calls())
}

func TestPlanReorder_RotateThree(t *testing.T) {
	initial := []domain.Session{sess("A", 1), sess("B", 2), sess("C", 3)}
	desired := []domain.Session{sess("C", 3), sess("A", 1), sess("B", 2)}

	batch, err := PlanReorder(initial, desired)

	require.NoError(t, err)
	// max(3) + 3 changed + 5
	assert.Equal(t, 11, batch.BufferBase)
	assert.Equal(t, []int{11, 12, 13}, positions(batch.Buffer))
	assert.Equal(t, []int{1, 2, 3}, positions(batch.Final))
	assert.Equal(t, "C", batch.Final[0].ID)
	assert.Equal(t, "A", batch.Final[1].ID)
	assert.Equal(t, "B", batch.Final[2].ID)
	assert.Equal(t, 6, batch.Calls())
}

func TestPlanReorder_OnlyChangedChildrenMove(t *testing.T) {
	initial := []domain.Session{sess("A", 1), sess("B", 2), sess("C", 3), sess("D", 4)}
	desired := []domain.Session{sess("A", 1), sess("C", 3), sess("B", 2), sess("D", 4)}

	batch, err := PlanReorder(initial, desired)

	require.NoError(t, err)
	require.Len(t, batch.Final, 2)
	assert.Equal(t, "C", batch.Final[0].ID)
	assert.Equal(t, 2, batch.Final[0].OrderID)
	assert.Equal(t, "B", batch.Final[1].ID)
	assert.Equal(t, 3, batch.Final[1].OrderID)
	assert.Equal(t, 4+2+5, batch.BufferBase)
}

func TestPlanReorder_BufferAboveSparsePositions(t *testing.T) {
	initial := []domain.Session{sess("A", 2), sess("B", 9)}
	desired := []domain.Session{sess("B", 9), sess("A", 2)}

	batch, err := PlanReorder(initial, desired)

	require.NoError(t, err)
	assert.Equal(t, 9+2+5, batch.BufferBase)
	for _, c := range batch.Buffer {
		assert.Greater(t, c.OrderID, 9)
	}
}

func TestPlanReorder_RejectsNonPermutation(t *testing.T) {
	initial := []domain.Session{sess("A", 1), sess("B", 2)}

	tests := []struct {
		name    string
		desired []domain.Session
	}{
		{name: "missing child", desired: []domain.Session{sess("A", 1)}},
		{name: "unknown child", desired: []domain.Session{sess("A", 1), sess("Z", 2)}},
		{name: "repeated child", desired: []domain.Session{sess("A", 1), sess("A", 2)}},
		{name: "unsaved child", desired: []domain.Session{sess("A", 1), sess("", 2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanReorder(initial, tt.desired)
			require.ErrorIs(t, err, ErrNotPermutation)
		})
	}
}

func TestPlanMoves_TargetsAboveInitialRaiseBuffer(t *testing.T) {
	initial := []domain.Session{sess("A", 1), sess("B", 2)}
	targets := []domain.Session{sess("A", 20), sess("B", 2)}

	batch := PlanMoves(initial, targets)

	require.Len(t, batch.Final, 1)
	assert.Equal(t, 20+1+5, batch.BufferBase)
}
