package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/repository"
)

// DefaultJournalCollection is used when the config leaves the name empty.
const DefaultJournalCollection = "sync_journal"

// mongoJournalRepository implements repository.JournalRepository
type mongoJournalRepository struct {
	collection *mongo.Collection
}

// NewMongoJournalRepository creates a journal backed by db.collection.
func NewMongoJournalRepository(db *mongo.Database, collection string) repository.JournalRepository {
	if collection == "" {
		collection = DefaultJournalCollection
	}
	return &mongoJournalRepository{
		collection: db.Collection(collection),
	}
}

// Record inserts rec and returns its id as a hex string.
func (r *mongoJournalRepository) Record(ctx context.Context, rec *domain.SyncRecord) (string, error) {
	if rec.BatchID == "" || rec.ParentID == "" {
		return "", errors.New("sync record requires batchId and parentId")
	}
	rec.ID = primitive.NewObjectID()
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return "", err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("failed to convert inserted sync record ID")
	}
	return insertedID.Hex(), nil
}

// GetByParentID returns the newest records of a parent first. limit <= 0
// means no limit.
func (r *mongoJournalRepository) GetByParentID(ctx context.Context, parentID string, limit int64) ([]domain.SyncRecord, error) {
	filter := bson.M{"parentId": parentID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]domain.SyncRecord, 0)
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureJournalIndexes creates the lookup indexes. Call during startup.
func EnsureJournalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "parentId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "batchId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// failed batches are what an operator looks for
			Keys:    bson.D{{Key: "outcome", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// JournalCollection returns the collection a journal repository writes to.
func JournalCollection(db *mongo.Database, collection string) *mongo.Collection {
	if collection == "" {
		collection = DefaultJournalCollection
	}
	return db.Collection(collection)
}
