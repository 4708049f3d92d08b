package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridwork-io/gridwork/internal/shared/config"
	"github.com/gridwork-io/gridwork/internal/shared/logging"
	"github.com/gridwork-io/gridwork/internal/worker/api/tcp"
	"github.com/gridwork-io/gridwork/internal/worker/service"
	"github.com/gridwork-io/gridwork/pkg/procs"

	_ "github.com/gridwork-io/gridwork/examples/checksum"
	_ "github.com/gridwork-io/gridwork/examples/sleep"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	processor := flag.String("processor", "", "block processor to run (overrides config)")
	flag.Parse()

	cfg, err := config.LoadWorker(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	sched, err := cfg.ResolveContext()
	if err != nil {
		if errors.Is(err, config.ErrContextMissing) {
			logger.Fatal(config.ContextEnvVar+" environment variable not found", "error", err)
		}
		logger.Fatal("Scheduler context found but incorrectly formatted", "error", err)
	}

	name := cfg.Processor.Name
	if *processor != "" {
		name = *processor
	}
	factory, err := procs.Get(name)
	if err != nil {
		logger.Fatal("Unknown processor", "name", name, "available", procs.List())
	}
	fn, err := factory(cfg.Processor.Input)
	if err != nil {
		logger.Fatal("Failed to build processor", "name", name, "error", err)
	}

	client, err := tcp.NewSchedulerClient(sched, cfg.Scheduler, logger)
	if err != nil {
		logger.Fatal("Cannot connect to scheduler", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A signal closes the client, which unblocks the processing loop with
	// an end-of-work signal.
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	logger.Info("Worker started",
		"task_id", sched.TaskID,
		"processor", name,
		"workers", cfg.Processor.Workers,
	)

	svc := service.NewWorkerService(client, service.NewFuncExecutor(fn), cfg.Processor.Workers, logger)
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Worker failed", "error", err)
	}

	client.Close()
	logger.Info("Worker finished", "task_id", sched.TaskID)
}
