package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"alcyxob/fitness-sync/internal/childsync"
	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/logger"
	"alcyxob/fitness-sync/internal/metrics"
	"alcyxob/fitness-sync/internal/ordering"
	"alcyxob/fitness-sync/internal/repository"
	"alcyxob/fitness-sync/internal/storage"
)

// Parent kinds used in metrics labels, journal records and snapshot keys.
const (
	ParentPlan    = "plan"
	ParentSession = "session"
)

var ErrJournalDisabled = errors.New("sync journal is not configured")

// BatchRecorder observes synchronization batches: metrics for every batch,
// plus an optional journal record and pre-save snapshot. Journal and snapshot
// failures are logged and never fail the save. A nil *BatchRecorder records
// nothing.
type BatchRecorder struct {
	journal       repository.JournalRepository
	snapshots     storage.SnapshotStore
	metrics       *metrics.Recorder
	keepSnapshots bool
	log           *logger.Logger
	now           func() time.Time
}

// NewBatchRecorder wires the optional observers. Any of them may be nil.
func NewBatchRecorder(
	journal repository.JournalRepository,
	snapshots storage.SnapshotStore,
	rec *metrics.Recorder,
	keepSnapshots bool,
	log *logger.Logger,
) *BatchRecorder {
	if log == nil {
		log = logger.Nop()
	}
	return &BatchRecorder{
		journal:       journal,
		snapshots:     snapshots,
		metrics:       rec,
		keepSnapshots: keepSnapshots,
		log:           log,
		now:           time.Now,
	}
}

// batch is one save in progress.
type batch struct {
	id       string
	kind     string
	parentID string
	started  time.Time
	snapshot *domain.Snapshot
	created  int
	updated  int
	deleted  int
	calls    int
}

// count sets the planned operations; calls is the number of remote calls
// they take, which exceeds the sum when children go through the buffer.
func (b *batch) count(create, update, del, calls int) {
	b.created, b.updated, b.deleted, b.calls = create, update, del, calls
}

// begin opens a batch and archives initial when a snapshot store is set.
func (r *BatchRecorder) begin(ctx context.Context, kind, parentID string, initial any) *batch {
	b := &batch{id: uuid.NewString(), kind: kind, parentID: parentID}
	if r == nil {
		return b
	}
	b.started = r.now().UTC()
	if r.snapshots == nil {
		return b
	}

	body, err := json.Marshal(initial)
	if err != nil {
		r.log.Warn().Err(err).Str("batch_id", b.id).Msg("snapshot encoding failed")
		return b
	}
	snap, err := r.snapshots.PutSnapshot(ctx, storage.SnapshotKey(kind, parentID, b.id), body, storage.ContentTypeJSON)
	if err != nil {
		r.log.Warn().Err(err).Str("batch_id", b.id).Msg("snapshot upload failed")
		return b
	}
	b.snapshot = snap
	return b
}

// finish records the outcome of b.
func (r *BatchRecorder) finish(ctx context.Context, b *batch, err error) {
	if r == nil {
		return
	}
	r.metrics.ObserveBatch(b.kind, b.calls, err)

	event := r.log.Info()
	if err != nil {
		event = r.log.Warn().Err(err)
	}
	event.Str("batch_id", b.id).Str("parent_kind", b.kind).Str("parent_id", b.parentID).
		Int("created", b.created).Int("updated", b.updated).Int("deleted", b.deleted).
		Msg("batch finished")

	if r.journal != nil {
		rec := &domain.SyncRecord{
			BatchID:    b.id,
			ParentKind: b.kind,
			ParentID:   b.parentID,
			Created:    b.created,
			Updated:    b.updated,
			Deleted:    b.deleted,
			Outcome:    domain.OutcomeSucceeded,
			Snapshot:   b.snapshot,
			StartedAt:  b.started,
			FinishedAt: r.now().UTC(),
		}
		if err != nil {
			rec.Outcome = domain.OutcomeFailed
			rec.FailedOp, rec.FailedID = failedOperation(err)
			rec.Error = err.Error()
		}
		if _, jerr := r.journal.Record(context.WithoutCancel(ctx), rec); jerr != nil {
			r.log.Warn().Err(jerr).Str("batch_id", b.id).Msg("journal write failed")
		}
	}

	if err == nil && b.snapshot != nil && !r.keepSnapshots {
		if derr := r.snapshots.DeleteSnapshot(context.WithoutCancel(ctx), b.snapshot.ObjectKey); derr != nil {
			r.log.Debug().Err(derr).Str("key", b.snapshot.ObjectKey).Msg("snapshot cleanup failed")
		}
	}
}

// failedOperation extracts the operation class and child of a batch failure.
func failedOperation(err error) (string, string) {
	var opErr *childsync.OpError
	if errors.As(err, &opErr) {
		return string(opErr.Op), opErr.ChildID
	}
	var phaseErr *ordering.PhaseError
	if errors.As(err, &phaseErr) {
		return string(childsync.OpUpdate), phaseErr.ChildID
	}
	return "", ""
}

// History returns the journal records of a parent, newest first.
func (r *BatchRecorder) History(ctx context.Context, parentID string, limit int64) ([]domain.SyncRecord, error) {
	if r == nil || r.journal == nil {
		return nil, ErrJournalDisabled
	}
	return r.journal.GetByParentID(ctx, parentID, limit)
}

// SnapshotURL returns a temporary download link for the snapshot of rec, or
// an empty string when it has none.
func (r *BatchRecorder) SnapshotURL(ctx context.Context, rec domain.SyncRecord) (string, error) {
	if r == nil || r.snapshots == nil || rec.Snapshot == nil {
		return "", nil
	}
	return r.snapshots.PresignedDownloadURL(ctx, rec.Snapshot.ObjectKey, storage.DefaultPresignedURLExpiry)
}

func phaseChild(err error) string {
	_, child := failedOperation(err)
	return child
}
