// Package pubsub provides the broadcast channel boundary of the judge progress pipeline.
//
// A channel is a named topic without persistence, subscribers receive
// only messages published while they are subscribed.
package pubsub

import (
	"context"
	"fmt"
)

// Handler receives messages of one subscribed channel.
// It must not block and must not panic, the broker delivery loop is shared.
type Handler func(ctx context.Context, payload []byte)

// Subscription is a handle of one active channel subscription.
type Subscription interface {
	// Unsubscribe removes the subscription, repeated calls are no-ops.
	Unsubscribe()
}

// Broker is a publish/subscribe broadcast channel.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error)
}

// ProgressChannel returns the broadcast channel name of a submission.
func ProgressChannel(submissionID int64) string {
	return fmt.Sprintf("progress:%d", submissionID)
}
