// Package config defines the worker configuration,
// values are bound from flags and environment variables.
package config

import (
	"github.com/algomarket/problem-service/internal/pkg/service/common/distlock"
	"github.com/algomarket/problem-service/internal/pkg/service/common/etcdclient"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/problem"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
)

// EnvPrefix is the prefix of the configuration environment variables.
const EnvPrefix = "JUDGE_"

type Config struct {
	DebugLog      bool              `json:"debugLog" configKey:"debugLog" configUsage:"Log debug messages."`
	DatabasePath  string            `json:"databasePath" configKey:"databasePath" configUsage:"Path of the outbox sqlite database file." validate:"required"`
	MetricsListen string            `json:"metricsListen" configKey:"metricsListen" configUsage:"Listen address of the Prometheus metrics endpoint." validate:"required,hostname_port"`
	Etcd          etcdclient.Config `json:"etcd" configKey:"etcd"`
	DistLock      distlock.Config   `json:"distLock" configKey:"distLock"`
	Outbox        outbox.Config     `json:"outbox" configKey:"outbox"`
	Progress      progress.Config   `json:"progress" configKey:"progress"`
	Problem       problem.Config    `json:"problem" configKey:"problem"`
}

func NewConfig() Config {
	return Config{
		DebugLog:      false,
		DatabasePath:  "problem-service.db",
		MetricsListen: "0.0.0.0:9000",
		Etcd:          etcdclient.NewConfig(),
		DistLock:      distlock.NewConfig(),
		Outbox:        outbox.NewConfig(),
		Progress:      progress.NewConfig(),
		Problem:       problem.NewConfig(),
	}
}
