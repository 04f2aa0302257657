package dependencies

import (
	"context"

	"github.com/jonboulle/clockwork"
	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/distlock"
	"github.com/algomarket/problem-service/internal/pkg/service/common/etcdclient"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/config"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/queue"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type serviceScope struct {
	*baseScope
	config      config.Config
	etcdClient  *etcd.Client
	locks       *distlock.Provider
	outboxStore outbox.Store
	dispatcher  *outbox.Dispatcher
	publisher   queue.Publisher
	broker      pubsub.Broker
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	router      *progress.Router
	registry    *progress.Registry
	bridge      *progress.Bridge
}

// NewServiceScope creates the production scope of the judge worker.
func NewServiceScope(ctx context.Context, cfg config.Config, proc *servicectx.Process, logger log.Logger) (ServiceScope, error) {
	s := &serviceScope{config: cfg}

	s.baseScope = newBaseScope(logger, clockwork.NewRealClock(), proc)

	if err := s.baseScope.validator.Validate(ctx, cfg); err != nil {
		return nil, errors.PrefixError(err, "configuration is not valid")
	}

	etcdClient, err := etcdclient.New(ctx, proc, logger, cfg.Etcd)
	if err != nil {
		return nil, err
	}
	s.etcdClient = etcdClient

	locks, err := distlock.NewProvider(ctx, cfg.DistLock, s)
	if err != nil {
		return nil, err
	}
	s.locks = locks

	db, err := outbox.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	proc.OnShutdown(func(ctx context.Context) {
		if err := db.Close(); err != nil {
			logger.Warnf(ctx, "cannot close outbox database: %s", err)
		}
	})
	store, err := outbox.NewSQLiteStore(ctx, db)
	if err != nil {
		return nil, err
	}
	s.outboxStore = store

	s.publisher = queue.NewEtcdPublisher(logger, etcdClient)
	s.dispatcher = outbox.NewDispatcher(s, cfg.Outbox)
	s.broker = pubsub.NewEtcdBroker(logger, etcdClient)

	s.problems = repository.NewMemoryProblemRepository()
	s.submissions = repository.NewMemorySubmissionRepository()

	s.router = progress.NewRouter()
	s.registry = progress.NewRegistry(s, cfg.Progress)
	s.bridge = progress.NewBridge(s, cfg.Progress, s.router)

	return s, nil
}

func (s *serviceScope) EtcdClient() *etcd.Client {
	return s.etcdClient
}

func (s *serviceScope) DistributedLockProvider() *distlock.Provider {
	return s.locks
}

func (s *serviceScope) OutboxStore() outbox.Store {
	return s.outboxStore
}

func (s *serviceScope) OutboxDispatcher() *outbox.Dispatcher {
	return s.dispatcher
}

func (s *serviceScope) QueuePublisher() queue.Publisher {
	return s.publisher
}

func (s *serviceScope) PubSubBroker() pubsub.Broker {
	return s.broker
}

func (s *serviceScope) ProblemRepository() repository.ProblemRepository {
	return s.problems
}

func (s *serviceScope) SubmissionRepository() repository.SubmissionRepository {
	return s.submissions
}

func (s *serviceScope) ProgressRouter() *progress.Router {
	return s.router
}

func (s *serviceScope) ProgressRegistry() *progress.Registry {
	return s.registry
}

func (s *serviceScope) ProgressBridge() *progress.Bridge {
	return s.bridge
}
