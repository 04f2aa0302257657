package distlock

import (
	"context"
	"fmt"
	"time"

	"github.com/algomarket/problem-service/internal/pkg/log"
)

// LockAcquisitionError is returned when a lock cannot be acquired within the wait timeout.
type LockAcquisitionError struct {
	Key     string
	Timeout time.Duration
}

func (e LockAcquisitionError) Error() string {
	return fmt.Sprintf(`cannot acquire lock "%s": timeout after %s`, e.Key, e.Timeout)
}

// Acquire locks the named mutex, waiting at most waitTimeout.
// On success it returns the mutex and a release callback, the callback never blocks on an expired session.
func Acquire(ctx context.Context, p *Provider, logger log.Logger, name string, waitTimeout time.Duration) (*Mutex, func(), error) {
	mtx := p.NewMutex(name)

	lockCtx, cancel := context.WithTimeoutCause(ctx, waitTimeout, LockAcquisitionError{Key: mtx.Key(), Timeout: waitTimeout})
	defer cancel()
	if err := mtx.Lock(lockCtx); err != nil {
		if cause := context.Cause(lockCtx); cause != nil && lockCtx.Err() != nil {
			return nil, nil, cause
		}
		return nil, nil, err
	}

	release := func() {
		// The unlock operation must not be interrupted by the caller context cancellation
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := mtx.Unlock(unlockCtx); err != nil {
			logger.Warnf(ctx, `cannot release lock "%s": %s`, mtx.Key(), err)
		}
	}
	return mtx, release, nil
}
