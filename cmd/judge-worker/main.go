package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/configmap"
	"github.com/algomarket/problem-service/internal/pkg/service/common/servicectx"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/config"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/dependencies"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/progress"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("fatal error: %s\n", err.Error()) // nolint:forbidigo
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg := config.NewConfig()
	fs := pflag.NewFlagSet("judge-worker", pflag.ContinueOnError)
	configmap.MustGenerateFlags(fs, cfg)
	if err := fs.Parse(os.Args[1:]); errors.Is(err, pflag.ErrHelp) {
		// Stop on --help flag
		return nil
	} else if err != nil {
		return err
	}
	if err := configmap.Bind(fs, config.EnvPrefix, os.LookupEnv, &cfg); err != nil {
		return err
	}

	// Create logger
	level := log.InfoLevel
	if cfg.DebugLog {
		level = log.DebugLevel
	}
	logger := log.NewServiceLogger(os.Stderr, level)

	// Create process abstraction
	proc, err := servicectx.New(ctx, cancel, logger)
	if err != nil {
		return err
	}

	// Create dependencies
	d, err := dependencies.NewServiceScope(ctx, cfg, proc, logger)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "starting judge worker, debug=%t", cfg.DebugLog)

	// The service routes progress notifications from the bridge to the client streams
	progress.NewService(d)

	// Start the outbox retry sweep
	if err := outbox.StartSweeper(d, cfg.Outbox); err != nil {
		return err
	}

	// Expose Prometheus metrics
	if err := startMetricsServer(proc, logger, d, cfg.MetricsListen); err != nil {
		return err
	}

	// Wait for the service shutdown
	proc.WaitForShutdown()
	return nil
}

func startMetricsServer(proc *servicectx.Process, logger log.Logger, d dependencies.ServiceScope, listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(d.PrometheusRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	proc.Add(func(ctx context.Context, errCh chan<- error) {
		logger.Infof(ctx, `metrics server listening on "%s"`, listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	})
	proc.OnShutdown(func(ctx context.Context) {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf(ctx, "cannot shutdown metrics server: %s", err)
		}
	})
	return nil
}
