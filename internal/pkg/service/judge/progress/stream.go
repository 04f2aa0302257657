// Package progress streams judge progress notifications to the originating clients.
//
// Inbound notifications arrive over a broadcast channel, one channel per submission.
// The Bridge subscription normalizes them and hands them to the Router,
// the Registry fans them out to the matching client stream.
package progress

import (
	"fmt"
	"sync"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

// EventName is a named event type delivered over the client stream.
type EventName string

const (
	EventConnected EventName = "connected"
	EventProgress  EventName = "progress"
	EventCompleted EventName = "completed"
)

// Event is one named event delivered over the client stream.
type Event struct {
	Name         EventName                   `json:"name"`
	Message      string                      `json:"message,omitempty"`
	Notification *model.ProgressNotification `json:"notification,omitempty"`
	FinalStatus  model.SubmitStatus          `json:"finalStatus,omitempty"`
}

// CloseReason tells why a stream has been closed.
type CloseReason string

const (
	CloseCompleted CloseReason = "completed"
	CloseTimeout   CloseReason = "timeout"
	CloseError     CloseReason = "error"
	CloseShutdown  CloseReason = "shutdown"
	CloseByClient  CloseReason = "client"
)

// Stream is a live event stream of one (username, submissionId) pair.
// The owner of the transport reads from Events until Done is closed.
type Stream struct {
	key    model.StreamKey
	events chan Event

	closeOnce sync.Once
	done      chan struct{}
	reason    CloseReason
}

func newStream(key model.StreamKey, bufferSize int) *Stream {
	return &Stream{
		key:    key,
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

func (s *Stream) Key() model.StreamKey {
	return s.key
}

// Events returns the channel of delivered events.
// The channel is never closed, the end of the stream is signalled by Done.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Done is closed when the stream ends, the reason is available via Reason.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Reason returns the close reason, empty while the stream is open.
func (s *Stream) Reason() CloseReason {
	select {
	case <-s.done:
		return s.reason
	default:
		return ""
	}
}

// Close ends the stream, a repeated call is a no-op.
// The transport owner calls it when the remote peer disconnects.
func (s *Stream) Close(reason CloseReason) {
	s.closeOnce.Do(func() {
		s.reason = reason
		close(s.done)
	})
}

// write delivers the event without blocking.
// Writing to a closed stream or overflowing the buffer is an error,
// a slow or gone client must not block the notification path.
func (s *Stream) write(event Event) error {
	select {
	case <-s.done:
		return errors.Errorf(`stream "%s" is closed`, s.key)
	default:
	}

	select {
	case s.events <- event:
		return nil
	default:
		return errors.Errorf(`stream "%s" buffer is full`, s.key)
	}
}

// connectedEvent is sent once when the stream is created.
func connectedEvent(submissionID int64) Event {
	return Event{
		Name:    EventConnected,
		Message: fmt.Sprintf("Connected to submission progress for: %d", submissionID),
	}
}
