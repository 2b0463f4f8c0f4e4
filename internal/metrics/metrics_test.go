package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-sync/internal/repository"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ResultOK},
		{fmt.Errorf("wrap: %w", repository.ErrNotFound), ResultNotFound},
		{&repository.ConflictError{OrderID: 5}, ResultConflict},
		{repository.NewValidationError("name", "required"), ResultValidation},
		{fmt.Errorf("%w: dial tcp", repository.ErrConnectivity), ResultConnectivity},
		{repository.ErrUnauthorized, ResultUnauthorized},
		{context.Canceled, ResultCancelled},
		{errors.New("boom"), ResultError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err))
	}
}

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.ObserveCall("session.update", nil, 10*time.Millisecond)
	r.ObserveCall("session.update", nil, 20*time.Millisecond)
	r.ObserveCall("session.update", repository.ErrNotFound, time.Millisecond)
	r.ObserveBatch("plan", 6, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.remoteCalls.WithLabelValues("session.update", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.remoteCalls.WithLabelValues("session.update", ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.batches.WithLabelValues("plan", ResultOK)))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveCall("x", nil, 0)
		r.ObserveBatch("plan", 0, nil)
		require.NoError(t, r.WriteTextfile("/nonexistent/metrics.prom"))
	})
	assert.Nil(t, r.Registry())
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.ObserveBatch("session", 3, repository.ErrConflict)
	path := filepath.Join(t.TempDir(), "fitsync.prom")

	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `fitsync_batches_total{parent_kind="session",result="conflict"} 1`)
}
