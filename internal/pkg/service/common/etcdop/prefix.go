package etcdop

import (
	"context"
	"strings"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type prefix = Prefix

// Prefix represents an etcd keys prefix - multiple keys prefix, not a one key.
type Prefix string

// PrefixT extends Prefix with generic functionality, contains the type of the serialized value.
type PrefixT[T any] struct {
	prefix
	serde *Serde
}

func NewPrefix(v string) Prefix {
	return Prefix(strings.Trim(v, "/"))
}

func NewTypedPrefix[T any](v Prefix, s *Serde) PrefixT[T] {
	return PrefixT[T]{prefix: v, serde: s}
}

func (v Prefix) Prefix() string {
	return string(v) + "/"
}

func (v Prefix) Add(str string) Prefix {
	return Prefix(v.Prefix() + str)
}

func (v Prefix) Key(key string) Key {
	return Key(v.Prefix() + key)
}

func (v PrefixT[T]) Prefix() string {
	return v.prefix.Prefix()
}

func (v PrefixT[T]) Add(str string) PrefixT[T] {
	return PrefixT[T]{prefix: v.prefix.Add(str), serde: v.serde}
}

func (v PrefixT[T]) Key(key string) KeyT[T] {
	return KeyT[T]{key: v.prefix.Key(key), serde: v.serde}
}

func (v Prefix) Count(opts ...etcd.OpOption) Op[int64] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			opts = append([]etcd.OpOption{etcd.WithCountOnly(), etcd.WithPrefix()}, opts...)
			return etcd.OpGet(v.Prefix(), opts...), nil
		},
		func(_ context.Context, raw etcd.OpResponse) (int64, error) {
			return raw.Get().Count, nil
		},
	)
}

func (v Prefix) DeleteAll(opts ...etcd.OpOption) Op[int64] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			opts = append([]etcd.OpOption{etcd.WithPrefix()}, opts...)
			return etcd.OpDelete(v.Prefix(), opts...), nil
		},
		func(_ context.Context, raw etcd.OpResponse) (int64, error) {
			return raw.Del().Deleted, nil
		},
	)
}

func (v PrefixT[T]) GetAll(opts ...etcd.OpOption) Op[[]KeyValueT[T]] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			opts = append([]etcd.OpOption{etcd.WithPrefix(), etcd.WithSort(etcd.SortByKey, etcd.SortAscend)}, opts...)
			return etcd.OpGet(v.Prefix(), opts...), nil
		},
		func(ctx context.Context, raw etcd.OpResponse) ([]KeyValueT[T], error) {
			kvs := raw.Get().Kvs
			out := make([]KeyValueT[T], len(kvs))
			for i, kv := range kvs {
				out[i].Kv = kv
				if err := v.serde.Decode(ctx, kv.Value, &out[i].Value); err != nil {
					return nil, invalidValueError(string(kv.Key), err)
				}
			}
			return out, nil
		},
	)
}

func (v PrefixT[T]) GetOne(opts ...etcd.OpOption) Op[*KeyValueT[T]] {
	return newOp(
		func(_ context.Context) (etcd.Op, error) {
			opts = append([]etcd.OpOption{etcd.WithPrefix(), etcd.WithLimit(1)}, opts...)
			return etcd.OpGet(v.Prefix(), opts...), nil
		},
		func(ctx context.Context, raw etcd.OpResponse) (*KeyValueT[T], error) {
			// Not raw.Get().Count, it returns the count of all records, regardless of the limit.
			switch count := len(raw.Get().Kvs); count {
			case 0:
				return nil, nil
			case 1:
				kv := raw.Get().Kvs[0]
				target := new(T)
				if err := v.serde.Decode(ctx, kv.Value, target); err != nil {
					return nil, invalidValueError(string(kv.Key), err)
				}
				return &KeyValueT[T]{Value: *target, Kv: kv}, nil
			default:
				return nil, errors.Errorf(`etcd get: at most one result expected, found %d results`, count)
			}
		},
	)
}
