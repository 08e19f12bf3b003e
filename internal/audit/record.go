// Package audit keeps a trail of document creation attempts.
package audit

import (
	"context"
	"time"
)

// Record is one /docs outcome. Document content and links are never stored.
type Record struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	RequestID    string    `json:"requestId" bson:"requestId"`
	CallerID     string    `json:"callerId,omitempty" bson:"callerId,omitempty"`
	CallerName   string    `json:"callerName,omitempty" bson:"callerName,omitempty"`
	Process      string    `json:"process,omitempty" bson:"process,omitempty"`
	DocumentName string    `json:"documentName,omitempty" bson:"documentName,omitempty"`
	ParentFolder string    `json:"parentFolder,omitempty" bson:"parentFolder,omitempty"`
	Outcome      string    `json:"outcome" bson:"outcome"`
	DocumentID   string    `json:"documentId,omitempty" bson:"documentId,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// OutcomeCreated marks a successful creation; failures use the error code.
const OutcomeCreated = "created"

// Repository persists audit records.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)
}
