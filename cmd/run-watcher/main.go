// Package main 运行状态轮询器入口（run-watcher）
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"copystudio-api/internal/application/runwatch"
	"copystudio-api/internal/config"
	"copystudio-api/internal/infrastructure/messaging"
	"copystudio-api/internal/wire"
	"copystudio-api/pkg/logger"
	"copystudio-api/pkg/tracer"
)

func main() {
	_ = godotenv.Load()

	logOnly := flag.Bool("log-only", false, "log status changes instead of publishing them to redis")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format, cfg.Observability.Logging.Output)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "run-watcher",
		Environment: cfg.App.Env,
		Exporter:    cfg.Observability.Tracing.Exporter,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	var watcher *runwatch.Watcher
	if *logOnly {
		watcher = wire.ProvideRunWatcher(cfg, wire.ProvideRunSource(cfg), runwatch.LogSink{})
	} else {
		w, cleanup, err := wire.InitializeRunWatcher(ctx, cfg)
		if err != nil {
			logger.Fatal(ctx, "failed to initialize run watcher", err)
		}
		defer cleanup()
		watcher = w
	}

	logger.Info(ctx, "run-watcher started",
		"url", wire.ProvideRunSource(cfg).URL(),
		"interval", cfg.RunWatch.Interval.String(),
		"stream", string(messaging.StreamRunStatus),
		"log_only", *logOnly,
	)

	if err := watcher.Run(ctx); err != nil {
		logger.Error(ctx, "run-watcher stopped with error", err)
	}
	logger.Info(context.WithoutCancel(ctx), "run-watcher exited")
}
