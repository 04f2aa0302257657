// Package distlock provides cluster-wide locks on top of an etcd session.
//
// A lock guards an operation that must run on at most one node at a time,
// for example assignment of the next public problem number.
// Locks are bound to an etcd session, on the node outage the session expires
// and all its locks are released automatically.
package distlock

import (
	"context"
	"sync"

	etcd "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/etcdop"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

const keyPrefix = "lock/"

type Provider struct {
	logger log.Logger

	lock    *sync.RWMutex
	session *concurrency.Session

	mutexesLock *sync.Mutex
	mutexes     map[string]*Mutex
}

type dependencies interface {
	Logger() log.Logger
	Process() *servicectx.Process
	EtcdClient() *etcd.Client
}

// NewProvider creates a locks provider backed by a resistant etcd session.
// The session is kept alive for the lifetime of the process,
// on expiration it is re-created and previously held locks are lost.
func NewProvider(ctx context.Context, cfg Config, d dependencies) (*Provider, error) {
	p := &Provider{
		logger:      d.Logger().WithComponent("distlock"),
		lock:        &sync.RWMutex{},
		mutexesLock: &sync.Mutex{},
		mutexes:     make(map[string]*Mutex),
	}

	wg := &sync.WaitGroup{}
	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.Process().OnShutdown(func(_ context.Context) {
		cancel()
		wg.Wait()
	})

	errCh := etcdop.ResistantSession(sessionCtx, wg, p.logger, d.EtcdClient(), cfg.SessionTTLSeconds, func(session *concurrency.Session) error {
		p.lock.Lock()
		defer p.lock.Unlock()
		p.session = session
		return nil
	})
	if err := <-errCh; err != nil {
		cancel()
		return nil, err
	}

	return p, nil
}

// NewMutex returns the mutex with the given name, one instance exists per name.
// Goroutines of the process requesting the same name share the instance,
// so the local and the cluster-wide exclusion match.
func (p *Provider) NewMutex(name string) *Mutex {
	key := keyPrefix + name
	p.mutexesLock.Lock()
	defer p.mutexesLock.Unlock()
	if mtx, found := p.mutexes[key]; found {
		return mtx
	}
	mtx := newMutex(p, key)
	p.mutexes[key] = mtx
	return mtx
}

func (p *Provider) currentSession() (*concurrency.Session, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.session == nil {
		return nil, errors.New("no active etcd session")
	}
	return p.session, nil
}
