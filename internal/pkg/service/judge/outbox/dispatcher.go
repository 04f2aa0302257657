package outbox

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/algomarket/problem-service/internal/pkg/encoding/json"
	"github.com/algomarket/problem-service/internal/pkg/idgenerator"
	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/queue"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type dispatcherDeps interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Process() *servicectx.Process
	OutboxStore() Store
	QueuePublisher() queue.Publisher
	PrometheusRegistry() *prometheus.Registry
}

// Dispatcher records pending events and forwards them to the grading queue after commit.
type Dispatcher struct {
	config    Config
	logger    log.Logger
	clock     clockwork.Clock
	store     Store
	publisher queue.Publisher
	metrics   *metrics
	wg        sync.WaitGroup
}

func NewDispatcher(d dispatcherDeps, cfg Config) *Dispatcher {
	out := &Dispatcher{
		config:    cfg,
		logger:    d.Logger().WithComponent("outbox"),
		clock:     d.Clock(),
		store:     d.OutboxStore(),
		publisher: d.QueuePublisher(),
		metrics:   newMetrics(d.PrometheusRegistry()),
	}

	// In-flight dispatches must finish before the process exits
	d.Process().OnShutdown(func(_ context.Context) {
		out.wg.Wait()
	})

	return out
}

// RecordPending stores the event durably before the triggering domain write is committed.
// A repeated call with the same aggregate id is a no-op.
func (o *Dispatcher) RecordPending(ctx context.Context, event model.SubmittedEvent) error {
	payload, err := json.Encode(event, false)
	if err != nil {
		return err
	}

	record := Record{
		ID:            idgenerator.OutboxRecordID(),
		AggregateID:   event.AggregateID(),
		AggregateType: model.AggregateTypeSubmission,
		Payload:       payload,
		CreatedAt:     o.clock.Now(),
	}

	inserted, err := o.store.InsertIfAbsent(ctx, record)
	if err != nil {
		return err
	}
	if inserted {
		o.logger.Infof(ctx, `saved event to outbox, aggregate "%s", record "%s"`, record.AggregateID, record.ID)
	}
	return nil
}

// DispatchAfterCommit asynchronously forwards the event to the grading queue.
// It must be called only after the triggering domain write has been committed.
// A failure is logged and left for the retry sweep, it is never surfaced to the caller.
func (o *Dispatcher) DispatchAfterCommit(ctx context.Context, event model.SubmittedEvent) {
	// The dispatch must not be interrupted by the end of the triggering request
	dispatchCtx := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ctx, cancel := context.WithTimeout(dispatchCtx, o.config.DispatchTimeout)
		defer cancel()
		if err := o.dispatch(ctx, event); err != nil {
			o.logger.Errorf(ctx, `cannot dispatch event for aggregate "%s": %s`, event.AggregateID(), err)
		}
	}()
}

// WaitForPendingDispatches blocks until all asynchronous dispatches finish.
func (o *Dispatcher) WaitForPendingDispatches() {
	o.wg.Wait()
}

func (o *Dispatcher) dispatch(ctx context.Context, event model.SubmittedEvent) error {
	payload, err := json.Encode(event, false)
	if err != nil {
		o.metrics.dispatched.WithLabelValues("error").Inc()
		return err
	}

	// Messages of one user are ordered, repeated sends of one submission are deduplicated
	if err := o.publisher.Send(ctx, o.config.QueueName, payload, event.Username, event.AggregateID()); err != nil {
		o.metrics.dispatched.WithLabelValues("error").Inc()
		return err
	}

	if _, err := o.store.DeleteByAggregateID(ctx, event.AggregateID()); err != nil {
		o.metrics.dispatched.WithLabelValues("error").Inc()
		return err
	}

	o.metrics.dispatched.WithLabelValues("success").Inc()
	o.logger.Infof(ctx, `dispatched event to the queue and removed from outbox, aggregate "%s"`, event.AggregateID())
	return nil
}

// retryRecord re-dispatches a stale record found by the sweep.
func (o *Dispatcher) retryRecord(ctx context.Context, record Record) error {
	event := model.SubmittedEvent{}
	if err := json.Decode(record.Payload, &event); err != nil {
		// A poison record is skipped, it stays in the store for manual intervention
		return errors.PrefixErrorf(err, `malformed payload of outbox record "%s"`, record.ID)
	}

	o.logger.Infof(ctx, `retrying dispatch of outbox record "%s", aggregate "%s"`, record.ID, record.AggregateID)
	return o.dispatch(ctx, event)
}
