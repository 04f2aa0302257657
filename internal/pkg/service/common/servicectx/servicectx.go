// Package servicectx provides a unique ID for a service process and support for the graceful shutdown.
package servicectx

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"testing"

	"github.com/algomarket/problem-service/internal/pkg/idgenerator"
	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type Process struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   log.Logger
	wg       *sync.WaitGroup
	errCh    chan error
	uniqueID string

	lock        *sync.Mutex
	terminating bool
	onShutdown  []OnShutdownFn
}

type Option func(c *config)

type OnShutdownFn func(ctx context.Context)

// Operation is a long-running service goroutine.
// It must stop when the context is cancelled
// and may report a fatal error via the channel to trigger the shutdown.
type Operation func(ctx context.Context, errCh chan<- error)

type config struct {
	uniqueID string
}

// WithUniqueID sets the unique ID of the service process.
// By default, it is generated from the hostname and PID.
func WithUniqueID(v string) Option {
	return func(c *config) {
		c.uniqueID = v
	}
}

func New(ctx context.Context, cancel context.CancelFunc, logger log.Logger, opts ...Option) (*Process, error) {
	// Apply options
	c := config{}
	for _, o := range opts {
		o(&c)
	}

	// Generate uniqueID if not set
	if c.uniqueID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, err
		}
		c.uniqueID = fmt.Sprintf(`%s-%05d`, hostname, os.Getpid())
	}

	// Channel used by both the signal handler and service goroutines
	// to notify the main goroutine when to stop the process.
	errCh := make(chan error)

	// SIGINT and SIGTERM cause a graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		errCh <- errors.Errorf("%s", <-sigCh)
	}()

	proc := &Process{
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		wg:       &sync.WaitGroup{},
		errCh:    errCh,
		uniqueID: c.uniqueID,
		lock:     &sync.Mutex{},
	}

	// Invoke shutdown callbacks in reverse order, LIFO, when the context is done.
	proc.Add(func(ctx context.Context, errCh chan<- error) {
		<-ctx.Done()
		proc.lock.Lock()
		proc.terminating = true
		callbacks := proc.onShutdown
		proc.lock.Unlock()

		shutdownCtx := context.WithoutCancel(ctx)
		for i := len(callbacks) - 1; i >= 0; i-- {
			callbacks[i](shutdownCtx)
		}
	})

	logger.Infof(ctx, `process unique id "%s"`, proc.UniqueID())
	return proc, nil
}

func NewForTest(t *testing.T) *Process {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	proc, err := New(ctx, cancel, log.NewNopLogger(), WithUniqueID("test-"+t.Name()+"-"+idgenerator.Random(5)))
	if err != nil {
		t.Fatal(err)
		return nil
	}

	t.Cleanup(func() {
		proc.Shutdown(errors.New("test cleanup"))
		proc.WaitForShutdown()
	})

	return proc
}

// Ctx returns the context of the Process.
func (v *Process) Ctx() context.Context {
	return v.ctx
}

// UniqueID returns the unique process ID, e.g. used to identify the lock owner.
func (v *Process) UniqueID() string {
	return v.uniqueID
}

// Add starts an operation goroutine, it is tracked until it finishes.
func (v *Process) Add(operation Operation) {
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		operation(v.ctx, v.errCh)
	}()
}

// OnShutdown registers a callback invoked during the graceful shutdown, callbacks run LIFO.
func (v *Process) OnShutdown(fn OnShutdownFn) {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.terminating {
		panic(errors.New("cannot register OnShutdown callback, the process is terminating"))
	}
	v.onShutdown = append(v.onShutdown, fn)
}

// Shutdown triggers the termination of the Process.
func (v *Process) Shutdown(err error) {
	go func() {
		v.errCh <- err
	}()
}

// WaitForShutdown blocks until the process terminates and all operations finish.
func (v *Process) WaitForShutdown() {
	// Wait for a signal or a fatal error.
	v.logger.Infof(v.ctx, "exiting (%v)", <-v.errCh)

	// Send the cancellation signal to the goroutines.
	v.cancel()

	// Wait for all operations.
	v.wg.Wait()

	v.logger.Info(v.ctx, "exited")
}
