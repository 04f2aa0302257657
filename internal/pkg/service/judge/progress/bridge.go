package progress

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/algomarket/problem-service/internal/pkg/encoding/json"
	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
)

type bridgeDeps interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Process() *servicectx.Process
	PubSubBroker() pubsub.Broker
}

// Bridge turns broadcast channels, one per submission, into scoped subscriptions.
// An idle subscription expires after the inactivity timeout,
// inbound traffic keeps it alive.
type Bridge struct {
	config Config
	logger log.Logger
	clock  clockwork.Clock
	broker pubsub.Broker
	router *Router

	lock sync.Mutex
	subs map[int64]*bridgeSubscription
}

type bridgeSubscription struct {
	sub   pubsub.Subscription
	timer clockwork.Timer
}

func NewBridge(d bridgeDeps, cfg Config, router *Router) *Bridge {
	b := &Bridge{
		config: cfg,
		logger: d.Logger().WithComponent("progress.bridge"),
		clock:  d.Clock(),
		broker: d.PubSubBroker(),
		router: router,
		subs:   make(map[int64]*bridgeSubscription),
	}

	d.Process().OnShutdown(func(ctx context.Context) {
		b.unsubscribeAll(ctx)
	})

	return b
}

// Subscribe opens a subscription to the progress channel of the submission.
// A repeated call only refreshes the inactivity timer.
func (b *Bridge) Subscribe(ctx context.Context, submissionID int64) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if entry, found := b.subs[submissionID]; found {
		entry.timer.Reset(b.config.InactivityTimeout)
		return nil
	}

	channel := pubsub.ProgressChannel(submissionID)
	sub, err := b.broker.Subscribe(ctx, channel, b.onMessage)
	if err != nil {
		return err
	}

	// The timer fires only when no notification arrived in the window
	timer := b.clock.AfterFunc(b.config.InactivityTimeout, func() {
		ctx := context.WithoutCancel(ctx)
		b.logger.Infof(ctx, `subscription of submission "%d" expired due to inactivity`, submissionID)
		b.Unsubscribe(ctx, submissionID)
	})

	b.subs[submissionID] = &bridgeSubscription{sub: sub, timer: timer}
	b.logger.Infof(ctx, `subscribed to channel "%s"`, channel)
	return nil
}

// Unsubscribe closes the subscription of the submission, a missing subscription is a no-op.
func (b *Bridge) Unsubscribe(ctx context.Context, submissionID int64) {
	b.lock.Lock()
	entry, found := b.subs[submissionID]
	if found {
		delete(b.subs, submissionID)
	}
	b.lock.Unlock()

	if !found {
		return
	}

	entry.timer.Stop()
	entry.sub.Unsubscribe()
	b.logger.Infof(ctx, `unsubscribed from channel "%s"`, pubsub.ProgressChannel(submissionID))
}

// SubscriptionsCount returns the number of active channel subscriptions.
func (b *Bridge) SubscriptionsCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subs)
}

// onMessage normalizes an inbound broadcast payload and republishes it to the router.
// A malformed payload is logged and dropped, it must never break the delivery loop.
func (b *Bridge) onMessage(ctx context.Context, payload []byte) {
	notification := model.ProgressNotification{}
	if err := json.Decode(payload, &notification); err != nil {
		b.logger.Errorf(ctx, `cannot parse progress notification: %s`, err)
		return
	}
	if notification.SubmissionID == 0 || !notification.SubmitStatus.IsValid() {
		b.logger.Warnf(ctx, `dropped invalid progress notification: %s`, string(payload))
		return
	}

	b.router.Publish(ctx, notification)
	b.refreshTimer(notification.SubmissionID)
}

// refreshTimer postpones the inactivity expiry, ongoing progress keeps the subscription alive.
func (b *Bridge) refreshTimer(submissionID int64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if entry, found := b.subs[submissionID]; found {
		entry.timer.Reset(b.config.InactivityTimeout)
	}
}

func (b *Bridge) unsubscribeAll(ctx context.Context) {
	b.lock.Lock()
	ids := make([]int64, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	b.lock.Unlock()

	for _, id := range ids {
		b.Unsubscribe(ctx, id)
	}
}
