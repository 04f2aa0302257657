package validator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/validator"
)

type testConfig struct {
	Interval  time.Duration `json:"interval" validate:"required,minDuration=1s,maxDuration=1h"`
	BatchSize int           `json:"batchSize" validate:"required,min=1,max=500"`
}

func TestValidate_Ok(t *testing.T) {
	t.Parallel()

	v := validator.New()
	err := v.Validate(context.Background(), testConfig{Interval: time.Minute, BatchSize: 100})
	assert.NoError(t, err)
}

func TestValidate_Error(t *testing.T) {
	t.Parallel()

	v := validator.New()
	err := v.Validate(context.Background(), testConfig{Interval: time.Millisecond, BatchSize: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval")
	assert.Contains(t, err.Error(), "batchSize")
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	v := validator.New()
	assert.NoError(t, v.ValidateValue(context.Background(), "progress/123", "required"))
	assert.Error(t, v.ValidateValue(context.Background(), "", "required"))
}
