package pubsub

import (
	"context"
	"sync"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/log"
)

const channelPrefix = "pubsub/"

type etcdBroker struct {
	logger log.Logger
	client *etcd.Client
}

// NewEtcdBroker creates a broker delivering messages over etcd watch events.
//
// A channel maps to one etcd key, each publish overwrites the key
// and every subscriber receives the put event.
// Old messages are not replayed to late subscribers.
func NewEtcdBroker(logger log.Logger, client *etcd.Client) Broker {
	return &etcdBroker{logger: logger.WithComponent("pubsub"), client: client}
}

func (b *etcdBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	_, err := b.client.Put(ctx, channelPrefix+channel, string(payload))
	return err
}

func (b *etcdBroker) Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error) {
	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &etcdSubscription{cancel: cancel}

	watchCh := b.client.Watch(watchCtx, channelPrefix+channel)
	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()
		for resp := range watchCh {
			if err := resp.Err(); err != nil {
				b.logger.Errorf(watchCtx, `watch of channel "%s" failed: %s`, channel, err)
				continue
			}
			for _, event := range resp.Events {
				if event.Type == etcd.EventTypePut {
					handler(watchCtx, event.Kv.Value)
				}
			}
		}
	}()

	return sub, nil
}

type etcdSubscription struct {
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

func (s *etcdSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}
