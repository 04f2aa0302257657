package dependencies

import (
	"context"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/distlock"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/config"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/queue"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
	"github.com/algomarket/problem-service/internal/pkg/utils/etcdhelper"
)

// Mocked is the dependencies scope for tests.
// In-memory fakes replace the external infrastructure,
// the etcd client is created only on request, see [WithEnabledEtcdClient].
type Mocked interface {
	ServiceScope
	TestConfig() config.Config
	DebugLogger() log.DebugLogger
	MockedClock() *clockwork.FakeClock
	TestEtcdClient() *etcd.Client
	MockedQueuePublisher() *queue.MemoryPublisher
	MockedPubSubBroker() *pubsub.MemoryBroker
}

type mockedOptions struct {
	etcdEnabled bool
	realClock   bool
}

type MockedOption func(*mockedOptions)

// WithEnabledEtcdClient connects the scope to the test etcd cluster,
// the test is skipped when no cluster is available.
func WithEnabledEtcdClient() MockedOption {
	return func(o *mockedOptions) {
		o.etcdEnabled = true
	}
}

// WithRealClock replaces the default fake clock.
func WithRealClock() MockedOption {
	return func(o *mockedOptions) {
		o.realClock = true
	}
}

type mocked struct {
	*serviceScope
	t           *testing.T
	debugLogger log.DebugLogger
	fakeClock   *clockwork.FakeClock
	memQueue    *queue.MemoryPublisher
	memBroker   *pubsub.MemoryBroker
}

func NewMocked(t *testing.T, ctx context.Context, opts ...MockedOption) Mocked {
	t.Helper()

	options := mockedOptions{}
	for _, o := range opts {
		o(&options)
	}

	cfg := config.NewConfig()
	cfg.DatabasePath = ":memory:"

	d := &mocked{t: t, serviceScope: &serviceScope{config: cfg}}
	d.debugLogger = log.NewDebugLogger()

	var clock clockwork.Clock
	if options.realClock {
		clock = clockwork.NewRealClock()
	} else {
		d.fakeClock = clockwork.NewFakeClock()
		clock = d.fakeClock
	}

	proc := servicectx.NewForTest(t)
	d.serviceScope.baseScope = newBaseScope(d.debugLogger, clock, proc)

	if options.etcdEnabled {
		d.serviceScope.etcdClient = etcdhelper.ClientForTest(t)
		locks, err := distlock.NewProvider(ctx, cfg.DistLock, d)
		require.NoError(t, err)
		d.serviceScope.locks = locks
	}

	d.serviceScope.outboxStore = outbox.NewMemoryStore()
	d.memQueue = queue.NewMemoryPublisher()
	d.serviceScope.publisher = d.memQueue
	d.serviceScope.dispatcher = outbox.NewDispatcher(d, cfg.Outbox)

	d.memBroker = pubsub.NewMemoryBroker()
	d.serviceScope.broker = d.memBroker

	d.serviceScope.problems = repository.NewMemoryProblemRepository()
	d.serviceScope.submissions = repository.NewMemorySubmissionRepository()

	d.serviceScope.router = progress.NewRouter()
	d.serviceScope.registry = progress.NewRegistry(d, cfg.Progress)
	d.serviceScope.bridge = progress.NewBridge(d, cfg.Progress, d.serviceScope.router)

	return d
}

func (d *mocked) TestConfig() config.Config {
	return d.serviceScope.config
}

func (d *mocked) DebugLogger() log.DebugLogger {
	return d.debugLogger
}

func (d *mocked) MockedClock() *clockwork.FakeClock {
	if d.fakeClock == nil {
		d.t.Fatal("the mocked scope uses the real clock")
	}
	return d.fakeClock
}

func (d *mocked) TestEtcdClient() *etcd.Client {
	if d.serviceScope.etcdClient == nil {
		d.t.Fatal("the etcd client is not enabled in the mocked scope, use WithEnabledEtcdClient")
	}
	return d.serviceScope.etcdClient
}

func (d *mocked) MockedQueuePublisher() *queue.MemoryPublisher {
	return d.memQueue
}

func (d *mocked) MockedPubSubBroker() *pubsub.MemoryBroker {
	return d.memBroker
}
