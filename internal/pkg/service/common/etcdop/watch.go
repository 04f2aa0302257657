package etcdop

import (
	"context"

	"go.etcd.io/etcd/api/v3/etcdserverpb"
	"go.etcd.io/etcd/api/v3/mvccpb"
	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type EventType int32

const (
	CreateEvent EventType = iota
	UpdateEvent
	DeleteEvent
)

// EventT is a decoded watch event.
type EventT[T any] struct {
	KeyValueT[T]
	Type   EventType
	Header *etcdserverpb.ResponseHeader
}

func (e *EventT[T]) Rev() int64 {
	return e.Header.Revision
}

func (v Prefix) Watch(ctx context.Context, client etcd.Watcher, opts ...etcd.OpOption) etcd.WatchChan {
	opts = append([]etcd.OpOption{etcd.WithPrefix()}, opts...)
	return client.Watch(ctx, v.Prefix(), opts...)
}

// Watch converts the raw watch channel to a channel of typed events.
// Undecodable values and raw channel errors are reported via the handleErr
// callback and do not stop the watch, the channel is closed when the context ends.
func (v PrefixT[T]) Watch(ctx context.Context, client *etcd.Client, handleErr func(err error), opts ...etcd.OpOption) <-chan EventT[T] {
	typedCh := make(chan EventT[T])
	rawCh := v.prefix.Watch(ctx, client, opts...)
	go func() {
		defer close(typedCh)
		for resp := range rawCh {
			if err := resp.Err(); err != nil {
				handleErr(err)
				continue
			}

			for _, event := range resp.Events {
				typedEvent := EventT[T]{KeyValueT: KeyValueT[T]{Kv: event.Kv}, Header: &resp.Header}

				switch event.Type {
				case mvccpb.PUT:
					if event.Kv.CreateRevision == event.Kv.ModRevision {
						typedEvent.Type = CreateEvent
					} else {
						typedEvent.Type = UpdateEvent
					}
				case mvccpb.DELETE:
					typedEvent.Type = DeleteEvent
				default:
					panic(errors.Errorf(`unexpected event type "%s"`, event.Type.String()))
				}

				// The value is decoded only in the PUT operation.
				if event.Type == mvccpb.PUT {
					target := new(T)
					if err := v.serde.Decode(ctx, event.Kv.Value, target); err != nil {
						handleErr(invalidValueError(string(event.Kv.Key), err))
						continue
					}
					typedEvent.Value = *target
				}

				select {
				case typedCh <- typedEvent:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return typedCh
}
