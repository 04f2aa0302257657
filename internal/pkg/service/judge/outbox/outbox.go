// Package outbox implements the transactional outbox of submitted events.
//
// A record is stored durably together with the triggering domain write,
// dispatched to the grading queue after the write is committed
// and deleted only after a confirmed dispatch.
// Records whose dispatch failed are rediscovered by the periodic retry sweep.
package outbox

import (
	"context"
	"time"
)

// Record is one pending dispatch of a business event.
type Record struct {
	ID            string    `json:"id"`
	AggregateID   string    `json:"aggregateId"`
	AggregateType string    `json:"aggregateType"`
	Payload       []byte    `json:"payload"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Store is durable storage of pending records.
//
// A record exists in the store if and only if the corresponding event
// has not yet been confirmed as dispatched.
type Store interface {
	// InsertIfAbsent stores the record, at most one record per aggregate id can exist.
	// It returns false when a record for the aggregate id is already present.
	InsertIfAbsent(ctx context.Context, record Record) (bool, error)
	// DeleteByAggregateID removes the record after a confirmed dispatch.
	// It returns false when no record for the aggregate id exists.
	DeleteByAggregateID(ctx context.Context, aggregateID string) (bool, error)
	// FindStaleOlderThan returns up to limit records created before the deadline, oldest first.
	FindStaleOlderThan(ctx context.Context, createdBefore time.Time, limit int) ([]Record, error)
	// Count returns the number of pending records.
	Count(ctx context.Context) (int64, error)
}
