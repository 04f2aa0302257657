package dependencies

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/validator"
)

type baseScope struct {
	logger    log.Logger
	clock     clockwork.Clock
	proc      *servicectx.Process
	validator validator.Validator
	registry  *prometheus.Registry
}

// NewBaseScope creates the scope of basic dependencies.
func NewBaseScope(logger log.Logger, clock clockwork.Clock, proc *servicectx.Process) BaseScope {
	return newBaseScope(logger, clock, proc)
}

func newBaseScope(logger log.Logger, clock clockwork.Clock, proc *servicectx.Process) *baseScope {
	return &baseScope{
		logger:    logger,
		clock:     clock,
		proc:      proc,
		validator: validator.New(),
		registry:  prometheus.NewRegistry(),
	}
}

func (s *baseScope) Logger() log.Logger {
	return s.logger
}

func (s *baseScope) Clock() clockwork.Clock {
	return s.clock
}

func (s *baseScope) Process() *servicectx.Process {
	return s.proc
}

func (s *baseScope) Validator() validator.Validator {
	return s.validator
}

func (s *baseScope) PrometheusRegistry() *prometheus.Registry {
	return s.registry
}
