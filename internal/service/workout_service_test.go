package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"alcyxob/fitness-sync/internal/childsync"
	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/mock"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/validators"
)

func intPtr(v int) *int { return &v }

func TestSaveWorkout_CompletesWhenEveryLogIsDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repo, 2, nil)
	logs := []domain.ExecutionLog{
		{ID: "l1", ActualSets: intPtr(3), Completed: true},
		{ID: "l2", ActualSets: intPtr(4), Completed: true},
	}

	repo.EXPECT().UpdateExecutionLog(gomock.Any(), "l1", logs[0].Update()).Return(logs[0], nil)
	repo.EXPECT().UpdateExecutionLog(gomock.Any(), "l2", logs[1].Update()).Return(logs[1], nil)
	repo.EXPECT().UpdateNotes(gomock.Any(), "w1", "solid").Return(domain.WorkoutLog{ID: "w1"}, nil)
	repo.EXPECT().Complete(gomock.Any(), "w1").Return(domain.WorkoutLog{ID: "w1", Status: domain.WorkoutCompleted}, nil)

	w, err := svc.SaveWorkout(context.Background(), "w1", "solid", logs)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutCompleted, w.Status)
}

func TestSaveWorkout_ReturnsFreshStateOtherwise(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repo, 0, nil)
	logs := []domain.ExecutionLog{{ID: "l1", Completed: true}, {ID: "l2"}}

	repo.EXPECT().UpdateExecutionLog(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.ExecutionLog{}, nil).Times(2)
	repo.EXPECT().UpdateNotes(gomock.Any(), "w1", "").Return(domain.WorkoutLog{ID: "w1"}, nil)
	repo.EXPECT().GetByID(gomock.Any(), "w1").Return(domain.WorkoutLog{ID: "w1", Status: domain.WorkoutInProgress}, nil)

	w, err := svc.SaveWorkout(context.Background(), "w1", "", logs)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutInProgress, w.Status)
}

func TestSaveWorkout_InvalidLogSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repo, 2, nil)
	logs := []domain.ExecutionLog{{ID: "l1", Completed: true}, {ID: "l2", ActualReps: intPtr(-2)}}

	_, err := svc.SaveWorkout(context.Background(), "w1", "notes", logs)

	require.ErrorIs(t, err, repository.ErrValidation)
	assert.Equal(t, validators.MsgActualNegative, UserMessage(err))
}

func TestSaveWorkout_UpdateFailureSkipsCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repo, 1, nil)
	logs := []domain.ExecutionLog{{ID: "l1", Completed: true}}

	repo.EXPECT().UpdateExecutionLog(gomock.Any(), "l1", gomock.Any()).Return(domain.ExecutionLog{}, repository.ErrNotFound)
	repo.EXPECT().UpdateNotes(gomock.Any(), "w1", "").Return(domain.WorkoutLog{}, nil).MaxTimes(1)

	_, err := svc.SaveWorkout(context.Background(), "w1", "", logs)
	require.ErrorIs(t, err, repository.ErrNotFound)
	var opErr *childsync.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, childsync.OpUpdate, opErr.Op)
	assert.Equal(t, "l1", opErr.ChildID)
	assert.Equal(t, "update of l1 failed: item no longer exists", UserMessage(err))
}

func TestSaveWorkout_NotesFailureNamesWorkout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockWorkoutRepository(ctrl)
	svc := NewWorkoutService(repo, 2, nil)

	repo.EXPECT().UpdateNotes(gomock.Any(), "w1", "tired").Return(domain.WorkoutLog{}, repository.ErrConnectivity)

	_, err := svc.SaveWorkout(context.Background(), "w1", "tired", nil)
	assert.Equal(t, "parent update of w1 failed: cannot reach server", UserMessage(err))
}
