package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"alcyxob/fitness-sync/internal/domain"
)

func TestJournalRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("record assigns an id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoJournalRepository(mt.DB, "")

		rec := &domain.SyncRecord{
			BatchID:    "b-1",
			ParentKind: "session",
			ParentID:   "s-1",
			Updated:    3,
			Outcome:    domain.OutcomeSucceeded,
			StartedAt:  time.Now().UTC(),
		}
		id, err := repo.Record(context.Background(), rec)
		require.NoError(mt, err)
		assert.Equal(mt, rec.ID.Hex(), id)
		assert.False(mt, rec.FinishedAt.IsZero())
	})

	mt.Run("record requires batch and parent", func(mt *mtest.T) {
		repo := NewMongoJournalRepository(mt.DB, "")
		_, err := repo.Record(context.Background(), &domain.SyncRecord{ParentID: "s-1"})
		assert.Error(mt, err)
	})

	mt.Run("record surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewMongoJournalRepository(mt.DB, "")
		_, err := repo.Record(context.Background(), &domain.SyncRecord{BatchID: "b-1", ParentID: "s-1"})
		assert.Error(mt, err)
	})

	mt.Run("get by parent decodes records", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + DefaultJournalCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "batchId", Value: "b-2"},
			{Key: "parentKind", Value: "plan"},
			{Key: "parentId", Value: "p-1"},
			{Key: "outcome", Value: string(domain.OutcomeFailed)},
			{Key: "failedOp", Value: "update"},
			{Key: "failedChildId", Value: "s-9"},
		}))
		repo := NewMongoJournalRepository(mt.DB, "")

		got, err := repo.GetByParentID(context.Background(), "p-1", 10)
		require.NoError(mt, err)
		require.Len(mt, got, 1)
		assert.Equal(mt, id, got[0].ID)
		assert.Equal(mt, domain.OutcomeFailed, got[0].Outcome)
		assert.Equal(mt, "s-9", got[0].FailedID)
	})
}
