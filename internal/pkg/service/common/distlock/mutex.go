package distlock

import (
	"context"
	"sync"

	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/algomarket/problem-service/internal/pkg/service/common/etcdop"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

// Mutex is a cluster-wide lock.
// Goroutines of one process share the underlying etcd session,
// so they are serialized locally first, the etcd mutex excludes other processes.
type Mutex struct {
	provider *Provider
	key      string

	// sem is held by the current lock owner, it bounds access to the etcd mutex
	sem chan struct{}

	lock  sync.Mutex
	inner *concurrency.Mutex
}

func newMutex(provider *Provider, key string) *Mutex {
	return &Mutex{provider: provider, key: key, sem: make(chan struct{}, 1)}
}

// Lock acquires the lock, it blocks until the lock is acquired or the context ends.
func (m *Mutex) Lock(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	session, err := m.provider.currentSession()
	if err != nil {
		<-m.sem
		return err
	}

	inner := concurrency.NewMutex(session, m.key)
	if err := inner.Lock(ctx); err != nil {
		<-m.sem
		return err
	}

	m.setInner(inner)
	return nil
}

// TryLock acquires the lock if it is free, otherwise the AlreadyLockedError is returned.
func (m *Mutex) TryLock(ctx context.Context) error {
	select {
	case m.sem <- struct{}{}:
	default:
		return etcdop.AlreadyLockedError{Key: m.key}
	}

	session, err := m.provider.currentSession()
	if err != nil {
		<-m.sem
		return err
	}

	inner := concurrency.NewMutex(session, m.key)
	if err := inner.TryLock(ctx); err != nil {
		<-m.sem
		if errors.Is(err, concurrency.ErrLocked) {
			return etcdop.AlreadyLockedError{Key: m.key}
		}
		return err
	}

	m.setInner(inner)
	return nil
}

// Unlock releases the lock.
// Releasing a lock that has been lost together with the session is not an error,
// the etcd key no longer exists in that case.
func (m *Mutex) Unlock(ctx context.Context) error {
	m.lock.Lock()
	inner := m.inner
	m.inner = nil
	m.lock.Unlock()

	if inner == nil {
		return errors.Errorf(`the lock "%s" is not locked by this instance`, m.key)
	}

	err := inner.Unlock(ctx)
	<-m.sem
	return err
}

// Key returns the etcd key of the lock.
func (m *Mutex) Key() string {
	return m.key
}

func (m *Mutex) setInner(inner *concurrency.Mutex) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.inner = inner
}
