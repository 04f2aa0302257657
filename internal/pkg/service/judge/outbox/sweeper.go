package outbox

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type sweeperDeps interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Process() *servicectx.Process
	OutboxStore() Store
	OutboxDispatcher() *Dispatcher
}

type sweeperNode struct {
	config     Config
	clock      clockwork.Clock
	logger     log.Logger
	store      Store
	dispatcher *Dispatcher
}

// StartSweeper starts the periodic retry sweep of stale outbox records.
func StartSweeper(d sweeperDeps, cfg Config) error {
	n := &sweeperNode{
		config:     cfg,
		clock:      d.Clock(),
		logger:     d.Logger().WithComponent("outbox.sweeper"),
		store:      d.OutboxStore(),
		dispatcher: d.OutboxDispatcher(),
	}

	ctx := context.Background()

	// Graceful shutdown
	ctx, cancel := context.WithCancelCause(ctx)
	wg := &sync.WaitGroup{}
	d.Process().OnShutdown(func(ctx context.Context) {
		n.logger.Info(ctx, "received shutdown request")
		cancel(errors.New("shutting down: outbox sweeper"))
		wg.Wait()
		n.logger.Info(ctx, "shutdown done")
	})

	// Start timer
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := n.clock.NewTicker(n.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if err := n.sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
					n.logger.Errorf(ctx, `outbox sweep failed: %s`, err)
				}
			}
		}
	}()

	return nil
}

// sweep re-dispatches stale records, oldest first.
// A failure of one record never aborts the rest of the batch.
func (n *sweeperNode) sweep(ctx context.Context) error {
	n.dispatcher.metrics.sweeps.Inc()

	threshold := n.clock.Now().Add(-n.config.SweepThreshold)
	records, err := n.store.FindStaleOlderThan(ctx, threshold, n.config.SweepBatchSize)
	if err != nil {
		return err
	}

	if pending, err := n.store.Count(ctx); err == nil {
		n.dispatcher.metrics.pending.Set(float64(pending))
	}

	if len(records) == 0 {
		return nil
	}

	n.logger.Infof(ctx, `found %d stale outbox records older than %s`, len(records), n.config.SweepThreshold)
	for _, record := range records {
		if err := n.dispatcher.retryRecord(ctx, record); err != nil {
			n.logger.Errorf(ctx, `cannot retry outbox record "%s": %s`, record.ID, err)
		}
	}
	return nil
}
