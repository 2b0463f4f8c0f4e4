package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncOutcome is the final state of a synchronization batch.
type SyncOutcome string

const (
	OutcomeSucceeded SyncOutcome = "succeeded"
	OutcomeFailed    SyncOutcome = "failed"
)

// SyncRecord is a journal entry describing one save of a parent's children.
// A failed entry names the operation and child that broke the batch, so
// residue left on the server can be found later.
type SyncRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchID    string             `bson:"batchId" json:"batchId"`
	ParentKind string             `bson:"parentKind" json:"parentKind"` // "plan" or "session"
	ParentID   string             `bson:"parentId" json:"parentId"`
	Created    int                `bson:"created" json:"created"`
	Updated    int                `bson:"updated" json:"updated"`
	Deleted    int                `bson:"deleted" json:"deleted"`
	Outcome    SyncOutcome        `bson:"outcome" json:"outcome"`
	FailedOp   string             `bson:"failedOp,omitempty" json:"failedOp,omitempty"`
	FailedID   string             `bson:"failedChildId,omitempty" json:"failedChildId,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	Snapshot   *Snapshot          `bson:"snapshot,omitempty" json:"snapshot,omitempty"`
	StartedAt  time.Time          `bson:"startedAt" json:"startedAt"`
	FinishedAt time.Time          `bson:"finishedAt" json:"finishedAt"`
}

// Snapshot points at the archived pre-save child list of a batch. The object
// itself lives in the snapshot bucket.
type Snapshot struct {
	ObjectKey   string    `bson:"objectKey" json:"objectKey"`
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
}
