// Package etcdop provides a small framework on top of etcd low-level operations.
//
// See the Key and Prefix types, and their typed variants KeyT and PrefixT.
//
// Goals:
//   - Reduce the risk of an error when defining an operation.
//   - Distinguish between operations over one key (Key type) and several keys (Prefix type).
package etcdop

import (
	"context"

	etcd "go.etcd.io/etcd/client/v3"
)

// Op is a lazy etcd operation with a typed result, executed by the Do method.
type Op[R any] struct {
	factory   func(ctx context.Context) (etcd.Op, error)
	processor func(ctx context.Context, raw etcd.OpResponse) (R, error)
}

func newOp[R any](factory func(ctx context.Context) (etcd.Op, error), processor func(ctx context.Context, raw etcd.OpResponse) (R, error)) Op[R] {
	return Op[R]{factory: factory, processor: processor}
}

func (v Op[R]) Do(ctx context.Context, client *etcd.Client) (result R, err error) {
	var empty R

	etcdOp, err := v.factory(ctx)
	if err != nil {
		return empty, err
	}

	raw, err := client.Do(ctx, etcdOp)
	if err != nil {
		return empty, err
	}

	return v.processor(ctx, raw)
}
