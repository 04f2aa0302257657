// Package dependencies provides dependency containers of the judge worker.
//
// Components declare their requirements as small local "dependencies" interfaces,
// the scopes in this package implement all of them.
// [BaseScope] provides ambient dependencies, [ServiceScope] adds the infrastructure
// clients and the judge components, [Mocked] provides a scope for tests.
package dependencies

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/distlock"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/pubsub"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/queue"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
	"github.com/algomarket/problem-service/internal/pkg/validator"
)

// BaseScope contains basic dependencies.
type BaseScope interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Process() *servicectx.Process
	Validator() validator.Validator
	PrometheusRegistry() *prometheus.Registry
}

// ServiceScope contains the infrastructure clients and the judge components.
type ServiceScope interface {
	BaseScope
	EtcdClient() *etcd.Client
	DistributedLockProvider() *distlock.Provider
	OutboxStore() outbox.Store
	OutboxDispatcher() *outbox.Dispatcher
	QueuePublisher() queue.Publisher
	PubSubBroker() pubsub.Broker
	ProblemRepository() repository.ProblemRepository
	SubmissionRepository() repository.SubmissionRepository
	ProgressRouter() *progress.Router
	ProgressRegistry() *progress.Registry
	ProgressBridge() *progress.Bridge
}
