package queue

import (
	"context"
	"fmt"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/etcdop"
)

type etcdPublisher struct {
	logger log.Logger
	client *etcd.Client
}

// NewEtcdPublisher creates a publisher writing messages to an etcd backed queue.
//
// The message key is derived from the queue name, the ordering key and the deduplication key.
// A message with an already present deduplication key is dropped,
// which makes repeated dispatch attempts of the same aggregate harmless.
func NewEtcdPublisher(logger log.Logger, client *etcd.Client) Publisher {
	return &etcdPublisher{logger: logger.WithComponent("queue"), client: client}
}

func (p *etcdPublisher) Send(ctx context.Context, queueName string, payload []byte, orderingKey, dedupKey string) error {
	key := etcdop.NewKey(fmt.Sprintf("queue/%s/%s/%s", queueName, orderingKey, dedupKey))
	created, err := key.PutIfNotExists(string(payload)).Do(ctx, p.client)
	if err != nil {
		return err
	}
	if !created {
		p.logger.Debugf(ctx, `message "%s" is already in the queue, skipped`, key)
	}
	return nil
}
