package progress

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
)

type registryDeps interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Process() *servicectx.Process
}

// Registry owns one live client stream per (username, submissionId) pair.
type Registry struct {
	config Config
	logger log.Logger
	clock  clockwork.Clock

	lock    sync.Mutex
	streams map[model.StreamKey]*Stream
}

func NewRegistry(d registryDeps, cfg Config) *Registry {
	r := &Registry{
		config:  cfg,
		logger:  d.Logger().WithComponent("progress.registry"),
		clock:   d.Clock(),
		streams: make(map[model.StreamKey]*Stream),
	}

	// In-flight streams are closed on shutdown, not silently abandoned
	d.Process().OnShutdown(func(ctx context.Context) {
		r.closeAll(ctx)
	})

	return r
}

// GetOrCreate returns the open stream of the key, or creates a new one.
// A new stream receives the initial connected event
// and is closed automatically when its timeout elapses.
func (r *Registry) GetOrCreate(ctx context.Context, key model.StreamKey) (*Stream, error) {
	r.lock.Lock()
	if stream, found := r.streams[key]; found {
		r.lock.Unlock()
		r.logger.Infof(ctx, `stream "%s" already exists, reusing it`, key)
		return stream, nil
	}

	stream := newStream(key, r.config.StreamBufferSize)
	r.streams[key] = stream
	r.lock.Unlock()

	// Stream lifetime bound
	timer := r.clock.AfterFunc(r.config.StreamTimeout, func() {
		stream.Close(CloseTimeout)
	})

	// Deregister the key on any close, including a close by the transport owner
	go func() {
		<-stream.Done()
		timer.Stop()
		r.remove(key, stream)
		r.logger.Infof(context.WithoutCancel(ctx), `stream "%s" closed, reason "%s"`, key, stream.Reason())
	}()

	if err := stream.write(connectedEvent(key.SubmissionID)); err != nil {
		stream.Close(CloseError)
		return nil, err
	}

	r.logger.Infof(ctx, `created stream "%s"`, key)
	return stream, nil
}

// Push delivers the notification to the stream of the key.
// A missing stream is a no-op, the client may have already disconnected.
// A write failure closes the stream.
func (r *Registry) Push(ctx context.Context, key model.StreamKey, notification model.ProgressNotification) {
	stream := r.get(key)
	if stream == nil {
		return
	}

	if err := stream.write(Event{Name: EventProgress, Notification: &notification}); err != nil {
		r.logger.Errorf(ctx, `cannot write to stream "%s": %s`, key, err)
		stream.Close(CloseError)
	}
}

// Complete writes the terminal event and closes the stream of the key.
func (r *Registry) Complete(ctx context.Context, key model.StreamKey, finalStatus model.SubmitStatus) {
	stream := r.get(key)
	if stream == nil {
		return
	}

	if err := stream.write(Event{Name: EventCompleted, FinalStatus: finalStatus}); err != nil {
		r.logger.Errorf(ctx, `cannot complete stream "%s": %s`, key, err)
		stream.Close(CloseError)
		return
	}
	stream.Close(CloseCompleted)
}

// Len returns the number of open streams.
func (r *Registry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.streams)
}

func (r *Registry) get(key model.StreamKey) *Stream {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.streams[key]
}

// remove deletes the key only if it still maps to the given stream,
// a new stream may have been created for the key in the meantime.
func (r *Registry) remove(key model.StreamKey, stream *Stream) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.streams[key] == stream {
		delete(r.streams, key)
	}
}

func (r *Registry) closeAll(ctx context.Context) {
	r.lock.Lock()
	streams := make([]*Stream, 0, len(r.streams))
	for _, stream := range r.streams {
		streams = append(streams, stream)
	}
	r.lock.Unlock()

	for _, stream := range streams {
		stream.Close(CloseShutdown)
	}
	if len(streams) > 0 {
		r.logger.Infof(ctx, `closed %d streams`, len(streams))
	}
}
