package childsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/mock"
	"alcyxob/fitness-sync/internal/repository"
)

// fakeSession stores one session's executions and rejects what the server
// would: a second child at a taken position or a repeated exercise.
type fakeSession struct {
	mu       sync.Mutex
	children map[string]domain.ExerciseExecution
	nextID   int
	journal  []string
	failOn   map[string]error
}

func newFakeSession(initial []domain.ExerciseExecution) *fakeSession {
	f := &fakeSession{children: map[string]domain.ExerciseExecution{}, failOn: map[string]error{}}
	for _, c := range initial {
		f.children[c.ID] = c
	}
	return f
}

func (f *fakeSession) conflict(c domain.ExerciseExecution) error {
	for id, other := range f.children {
		if id == c.ID {
			continue
		}
		if other.OrderID == c.OrderID {
			return &repository.ConflictError{Resource: "exercise execution", ParentKind: "session", ParentID: "s1", OrderID: c.OrderID}
		}
		if other.ExerciseID == c.ExerciseID {
			return fmt.Errorf("%w: exercise %s already in session", repository.ErrConflict, c.ExerciseID)
		}
	}
	return nil
}

func (f *fakeSession) Create(_ context.Context, parentID string, c domain.ExerciseExecution) (domain.ExerciseExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.journal = append(f.journal, "create:"+c.ExerciseID)
	if err := f.failOn["create:"+c.ExerciseID]; err != nil {
		return domain.ExerciseExecution{}, err
	}
	if err := f.conflict(c); err != nil {
		return domain.ExerciseExecution{}, err
	}
	f.nextID++
	c.ID = fmt.Sprintf("new%d", f.nextID)
	c.SessionID = parentID
	f.children[c.ID] = c
	return c, nil
}

func (f *fakeSession) Update(_ context.Context, c domain.ExerciseExecution) (domain.ExerciseExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.journal = append(f.journal, fmt.Sprintf("update:%s@%d", c.ID, c.OrderID))
	if err := f.failOn["update:"+c.ID]; err != nil {
		return domain.ExerciseExecution{}, err
	}
	if _, ok := f.children[c.ID]; !ok {
		return domain.ExerciseExecution{}, repository.ErrNotFound
	}
	if err := f.conflict(c); err != nil {
		return domain.ExerciseExecution{}, err
	}
	f.children[c.ID] = c
	return c, nil
}

func (f *fakeSession) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.journal = append(f.journal, "delete:"+id)
	if err := f.failOn["delete:"+id]; err != nil {
		return err
	}
	if _, ok := f.children[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.children, id)
	return nil
}

func (f *fakeSession) positions() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, c := range f.children {
		out[c.ExerciseID] = c.OrderID
	}
	return out
}

func (f *fakeSession) list() []domain.ExerciseExecution {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ExerciseExecution, 0, len(f.children))
	for _, c := range f.children {
		out = append(out, c)
	}
	return out
}

func run(t *testing.T, store *fakeSession, initial, desired []domain.ExerciseExecution) (Result[domain.ExerciseExecution], error) {
	t.Helper()
	plan, err := Synchronize(initial, desired)
	require.NoError(t, err)
	return NewExecutor[domain.ExerciseExecution](store, 4, nil).Execute(context.Background(), "s1", initial, plan)
}

// ── ordering of steps ──

func TestExecutor_DeletesThenUpdatesThenCreates(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}
	store := newFakeSession(initial)
	// bench is dropped and a new bench takes the freed exercise and position.
	desired := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("", "bench", 2)}

	res, err := run(t, store, initial, desired)

	require.NoError(t, err)
	assert.Equal(t, []string{"delete:e2", "create:bench"}, store.journal)
	assert.Equal(t, []string{"e2"}, res.Deleted)
	require.Len(t, res.Created, 1)
	assert.Equal(t, "new1", res.Created[0].ID)
}

func TestExecutor_SwapGoesThroughBuffer(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}
	store := newFakeSession(initial)
	desired := []domain.ExerciseExecution{ex("e2", "bench", 1), ex("e1", "squat", 2)}

	res, err := run(t, store, initial, desired)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"bench": 1, "squat": 2}, store.positions())
	assert.Len(t, store.journal, 4)
	assert.Len(t, res.Updated, 2)
}

func TestCalls_MatchesIssuedRequests(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2), ex("e3", "row", 3)}
	store := newFakeSession(initial)
	heavier := ex("e3", "row", 3)
	heavier.PlannedWeight = 90
	// swap e1/e2, change e3's load, drop nothing, add dip
	desired := []domain.ExerciseExecution{ex("e2", "bench", 1), ex("e1", "squat", 2), heavier, ex("", "dip", 4)}

	plan, err := Synchronize(initial, desired)
	require.NoError(t, err)
	_, err = NewExecutor[domain.ExerciseExecution](store, 4, nil).Execute(context.Background(), "s1", initial, plan)
	require.NoError(t, err)

	assert.Equal(t, 6, Calls(initial, plan))
	assert.Len(t, store.journal, Calls(initial, plan))
}

func TestExecutor_MixedBatchEndsInDesiredState(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2), ex("e3", "row", 3), ex("e4", "dip", 4)}
	store := newFakeSession(initial)
	heavier := ex("e1", "squat", 3)
	heavier.PlannedWeight = 120
	desired := []domain.ExerciseExecution{
		ex("e3", "row", 1),
		ex("", "curl", 2),
		heavier,
		ex("e4", "dip", 4),
	}

	_, err := run(t, store, initial, desired)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"row": 1, "curl": 2, "squat": 3, "dip": 4}, store.positions())

	// A second pass against the refreshed state has nothing to do.
	plan, err := Synchronize(store.list(), store.list())
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestExecutor_PayloadOnlyUpdateSkipsBuffer(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1)}
	store := newFakeSession(initial)
	changed := ex("e1", "squat", 1)
	changed.PlannedReps = 12

	_, err := run(t, store, initial, []domain.ExerciseExecution{changed})

	require.NoError(t, err)
	assert.Equal(t, []string{"update:e1@1"}, store.journal)
}

func TestExecutor_EmptyPlanMakesNoCalls(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1)}
	store := newFakeSession(initial)

	_, err := run(t, store, initial, initial)

	require.NoError(t, err)
	assert.Empty(t, store.journal)
}

// ── failures ──

func TestExecutor_DeleteOfVanishedChildSucceeds(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}
	store := newFakeSession(initial[:1])

	_, err := run(t, store, initial, initial[:1])

	require.NoError(t, err)
	assert.Equal(t, []string{"delete:e2"}, store.journal)
}

func TestExecutor_DeleteFailureStopsBatch(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}
	store := newFakeSession(initial)
	store.failOn["delete:e2"] = repository.ErrConnectivity

	_, err := run(t, store, initial, []domain.ExerciseExecution{ex("e1", "squat", 1), ex("", "curl", 2)})

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpDelete, opErr.Op)
	assert.Equal(t, "e2", opErr.ChildID)
	require.ErrorIs(t, err, repository.ErrConnectivity)
	assert.NotContains(t, store.journal, "create:curl")
}

func TestExecutor_UpdateFailureNamesChild(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}
	store := newFakeSession(initial)
	store.failOn["update:e2"] = repository.ErrNotFound

	_, err := run(t, store, initial, []domain.ExerciseExecution{ex("e2", "bench", 1), ex("e1", "squat", 2)})

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpUpdate, opErr.Op)
	assert.Equal(t, "e2", opErr.ChildID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExecutor_CreateConflictSurfaces(t *testing.T) {
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1)}
	store := newFakeSession(initial)
	store.failOn["create:curl"] = &repository.ConflictError{
		Resource: "exercise execution", ParentKind: "session", ParentID: "s1", OrderID: 2,
	}

	_, err := run(t, store, initial, []domain.ExerciseExecution{ex("e1", "squat", 1), ex("", "curl", 2)})

	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpCreate, opErr.Op)
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Contains(t, err.Error(), "position 2")
}

// ── with generated mocks ──

func TestExecutor_StepsAwaitEachOther(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockExerciseExecutionRepository(ctrl)
	ctx := context.Background()
	initial := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("e2", "bench", 2)}
	desired := []domain.ExerciseExecution{ex("e1", "squat", 1), ex("", "curl", 2)}
	created := ex("e3", "curl", 2)

	gomock.InOrder(
		repo.EXPECT().Delete(gomock.Any(), "e2").Return(repository.ErrNotFound),
		repo.EXPECT().Create(gomock.Any(), "s1", desired[1]).Return(created, nil),
	)

	plan, err := Synchronize(initial, desired)
	require.NoError(t, err)

	res, err := NewExecutor[domain.ExerciseExecution](repo, 1, nil).Execute(ctx, "s1", initial, plan)

	require.NoError(t, err)
	assert.Equal(t, []domain.ExerciseExecution{created}, res.Created)
}

func TestExecutor_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockExerciseExecutionRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), "e1").DoAndReturn(func(ctx context.Context, _ string) error {
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	initial := []domain.ExerciseExecution{ex("e1", "squat", 1)}
	_, err := NewExecutor[domain.ExerciseExecution](repo, 0, nil).
		Execute(ctx, "s1", initial, Plan[domain.ExerciseExecution]{Delete: []string{"e1"}})

	require.True(t, errors.Is(err, context.Canceled))
}
