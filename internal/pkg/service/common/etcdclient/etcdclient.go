// Package etcdclient provides a factory for the etcd client with keep-alive pings and logs bridging.
package etcdclient

import (
	"context"
	"strings"
	"time"

	etcd "go.etcd.io/etcd/client/v3"
	etcdNamespace "go.etcd.io/etcd/client/v3/namespace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

// UseNamespace prefixes all KV, Watch and Lease operations of the client.
func UseNamespace(c *etcd.Client, prefix string) {
	c.KV = etcdNamespace.NewKV(c.KV, prefix)
	c.Watcher = etcdNamespace.NewWatcher(c.Watcher, prefix)
	c.Lease = etcdNamespace.NewLease(c.Lease, prefix)
}

// New creates a new etcd client.
// The client is closed on the process shutdown.
func New(ctx context.Context, proc *servicectx.Process, logger log.Logger, cfg Config) (*etcd.Client, error) {
	logger = logger.WithComponent("etcd-client")

	// Normalize and validate
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Bridge the client internal logs, skip debug messages
	etcdLogger := zap.New(log.NewCallbackCore(func(entry zapcore.Entry, fields []zapcore.Field) {
		switch {
		case entry.Level >= zapcore.ErrorLevel:
			logger.Error(ctx, entry.Message)
		case entry.Level == zapcore.WarnLevel:
			logger.Warn(ctx, entry.Message)
		case entry.Level == zapcore.InfoLevel:
			logger.Info(ctx, entry.Message)
		}
	}))

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer connectCancel()

	startTime := time.Now()
	logger.Infof(ctx, "connecting to etcd, connectTimeout=%s, keepAliveTimeout=%s, keepAliveInterval=%s", cfg.ConnectTimeout, cfg.KeepAliveTimeout, cfg.KeepAliveInterval)
	c, err := etcd.New(etcd.Config{
		Context:              context.Background(), // !!! a long-lived context must be used, client exists as long as the entire server
		Endpoints:            []string{cfg.Endpoint},
		DialTimeout:          cfg.ConnectTimeout,
		DialKeepAliveTimeout: cfg.KeepAliveTimeout,
		DialKeepAliveTime:    cfg.KeepAliveInterval,
		Username:             cfg.Username, // optional
		Password:             cfg.Password, // optional
		Logger:               etcdLogger,
		PermitWithoutStream:  true, // always send keep-alive pings
		DialOptions: []grpc.DialOption{
			grpc.WithConnectParams(grpc.ConnectParams{
				Backoff: backoff.Config{
					BaseDelay:  100 * time.Millisecond,
					Multiplier: 1.5,
					Jitter:     0.2,
					MaxDelay:   15 * time.Second,
				},
			}),
		},
	})
	if err != nil {
		return nil, errors.Errorf("cannot create etcd client: cannot connect: %w", err)
	}

	// Prefix all operations by the namespace
	UseNamespace(c, cfg.Namespace)

	// Connection check: get cluster members
	if _, err := c.MemberList(connectCtx); err != nil {
		_ = c.Close()
		return nil, errors.Errorf("cannot create etcd client: cannot get cluster members: %w", err)
	}

	proc.OnShutdown(func(ctx context.Context) {
		startTime := time.Now()
		logger.Info(ctx, "closing etcd connection")
		if err := c.Close(); err != nil {
			logger.Warnf(ctx, "cannot close etcd connection: %s", err)
		} else {
			logger.Infof(ctx, "closed etcd connection | %s", time.Since(startTime))
		}
	})

	logger.Infof(ctx, `connected to etcd cluster "%s" | %s`, strings.Join(c.Endpoints(), ";"), time.Since(startTime))
	return c, nil
}
