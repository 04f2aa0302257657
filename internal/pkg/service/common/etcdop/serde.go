package etcdop

import (
	"context"

	"github.com/algomarket/problem-service/internal/pkg/encoding/json"
)

// Serde encapsulates serialization and deserialization of a typed etcd value.
type Serde struct {
	encode   encodeFn
	decode   decodeFn
	validate validateFn
}

type (
	encodeFn   func(ctx context.Context, value any) (string, error)
	decodeFn   func(ctx context.Context, data []byte, target any) error
	validateFn func(ctx context.Context, value any) error
)

// NoValidation can be used when values need no validation on encode/decode.
func NoValidation(context.Context, any) error {
	return nil
}

// NewSerde creates a Serde from custom functions.
func NewSerde(encode encodeFn, decode decodeFn, validate validateFn) *Serde {
	return &Serde{encode: encode, decode: decode, validate: validate}
}

// NewJSONSerde creates a Serde with the JSON encoding and the provided validation.
func NewJSONSerde(validate validateFn) *Serde {
	return NewSerde(
		func(_ context.Context, value any) (string, error) {
			return json.EncodeString(value, false)
		},
		func(_ context.Context, data []byte, target any) error {
			return json.Decode(data, target)
		},
		validate,
	)
}

func (v *Serde) Encode(ctx context.Context, value any) (string, error) {
	if err := v.validate(ctx, value); err != nil {
		return "", err
	}
	return v.encode(ctx, value)
}

func (v *Serde) Decode(ctx context.Context, data []byte, target any) error {
	if err := v.decode(ctx, data, target); err != nil {
		return err
	}
	return v.validate(ctx, target)
}
