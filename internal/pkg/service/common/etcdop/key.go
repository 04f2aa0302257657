package etcdop

import (
	"context"

	"go.etcd.io/etcd/api/v3/mvccpb"
	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

// Key represents an etcd key - one key, not a prefix.
type Key string

type key = Key

// KeyT extends Key with generic functionality, contains the type of the serialized value.
type KeyT[T any] struct {
	key
	serde *Serde
}

// KeyValueT is a decoded etcd key-value pair.
type KeyValueT[T any] struct {
	Value T
	Kv    *mvccpb.KeyValue
}

func NewKey(v string) Key {
	return Key(v)
}

func NewTypedKey[T any](v string, s *Serde) KeyT[T] {
	return KeyT[T]{key: NewKey(v), serde: s}
}

func (v Key) Key() string {
	return string(v)
}

func (v Key) Exists(opts ...etcd.OpOption) Op[bool] {
	opts = append([]etcd.OpOption{etcd.WithCountOnly()}, opts...)
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			return etcd.OpGet(v.Key(), opts...), nil
		},
		func(_ context.Context, raw etcd.OpResponse) (bool, error) {
			return raw.Get().Count > 0, nil
		},
	)
}

func (v Key) Put(val string, opts ...etcd.OpOption) Op[struct{}] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			return etcd.OpPut(v.Key(), val, opts...), nil
		},
		func(_ context.Context, _ etcd.OpResponse) (struct{}, error) {
			// response is always OK
			return struct{}{}, nil
		},
	)
}

// PutIfNotExists returns true when the key was created, false when it already exists.
func (v Key) PutIfNotExists(val string, opts ...etcd.OpOption) Op[bool] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			return etcd.OpTxn(
				[]etcd.Cmp{etcd.Compare(etcd.Version(v.Key()), "=", 0)},
				[]etcd.Op{etcd.OpPut(v.Key(), val, opts...)},
				nil,
			), nil
		},
		func(_ context.Context, raw etcd.OpResponse) (bool, error) {
			return raw.Txn().Succeeded, nil
		},
	)
}

// Delete returns true when the key existed and was deleted.
func (v Key) Delete(opts ...etcd.OpOption) Op[bool] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			return etcd.OpDelete(v.Key(), opts...), nil
		},
		func(_ context.Context, raw etcd.OpResponse) (bool, error) {
			return raw.Del().Deleted > 0, nil
		},
	)
}

// GetKV returns the decoded value, or nil when the key is not found.
func (v KeyT[T]) GetKV(opts ...etcd.OpOption) Op[*KeyValueT[T]] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			return etcd.OpGet(v.Key(), opts...), nil
		},
		func(ctx context.Context, raw etcd.OpResponse) (*KeyValueT[T], error) {
			switch count := raw.Get().Count; count {
			case 0:
				return nil, nil
			case 1:
				kv := raw.Get().Kvs[0]
				target := new(T)
				if err := v.serde.Decode(ctx, kv.Value, target); err != nil {
					return nil, invalidValueError(v.Key(), err)
				}
				return &KeyValueT[T]{Value: *target, Kv: kv}, nil
			default:
				return nil, errors.Errorf(`etcd get: at most one result expected, found %d results`, count)
			}
		},
	)
}

func (v KeyT[T]) Put(val T, opts ...etcd.OpOption) Op[T] {
	return newOp(
		func(ctx context.Context) (etcd.Op, error) {
			encoded, err := v.serde.Encode(ctx, &val)
			if err != nil {
				return etcd.Op{}, invalidValueError(v.Key(), err)
			}
			return etcd.OpPut(v.Key(), encoded, opts...), nil
		},
		func(_ context.Context, _ etcd.OpResponse) (T, error) {
			// result is the inserted value
			return val, nil
		},
	)
}

func (v KeyT[T]) PutIfNotExists(val T, opts ...etcd.OpOption) Op[bool] {
	return newOp(
		func(ctx context.Context) (etcd.Op, error) {
			encoded, err := v.serde.Encode(ctx, &val)
			if err != nil {
				return etcd.Op{}, invalidValueError(v.Key(), err)
			}
			return etcd.OpTxn(
				[]etcd.Cmp{etcd.Compare(etcd.Version(v.Key()), "=", 0)},
				[]etcd.Op{etcd.OpPut(v.Key(), encoded, opts...)},
				nil,
			), nil
		},
		func(_ context.Context, raw etcd.OpResponse) (bool, error) {
			return raw.Txn().Succeeded, nil
		},
	)
}

func invalidValueError(key string, err error) error {
	return errors.PrefixErrorf(err, `invalid value for "%s"`, key)
}
