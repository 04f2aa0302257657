// Package queue provides the publisher boundary of the external grading queue.
//
// A message carries an ordering key, messages within one group are consumed in order,
// and a deduplication key, repeated sends with the same key are collapsed
// into one logical message by the queue.
package queue

import (
	"context"
)

// Publisher sends serialized events to the external grading queue.
type Publisher interface {
	Send(ctx context.Context, queueName string, payload []byte, orderingKey, dedupKey string) error
}
