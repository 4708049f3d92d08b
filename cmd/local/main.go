// local runs a scheduler simulator and a worker processing loop in a single
// process: a self-contained demo of the acquire/release cycle over a real
// TCP connection.
package main

import (
	"context"
	"flag"

	"github.com/google/uuid"

	"github.com/gridwork-io/gridwork/internal/schedtest"
	"github.com/gridwork-io/gridwork/internal/shared/config"
	"github.com/gridwork-io/gridwork/internal/shared/logging"
	"github.com/gridwork-io/gridwork/internal/worker/api/tcp"
	"github.com/gridwork-io/gridwork/internal/worker/service"
	"github.com/gridwork-io/gridwork/pkg/procs"

	_ "github.com/gridwork-io/gridwork/examples/checksum"
	_ "github.com/gridwork-io/gridwork/examples/sleep"
)

func main() {
	var (
		numBlocks = flag.Int("blocks", 10, "number of blocks to process")
		workers   = flag.Int("workers", 1, "processing goroutines")
		processor = flag.String("processor", "noop", "block processor to run")
		input     = flag.String("input", "", "processor input (e.g. chunk glob for checksum)")
		logLevel  = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.New(*logLevel, "text")

	factory, err := procs.Get(*processor)
	if err != nil {
		logger.Fatal("Unknown processor", "name", *processor, "available", procs.List())
	}
	fn, err := factory(*input)
	if err != nil {
		logger.Fatal("Failed to build processor", "name", *processor, "error", err)
	}

	sim, err := schedtest.NewSimulator("127.0.0.1:0", *numBlocks, logger)
	if err != nil {
		logger.Fatal("Failed to start simulator", "error", err)
	}
	defer sim.Close()

	simDone := make(chan error, 1)
	go func() {
		simDone <- sim.Serve()
	}()

	taskID := "local-" + uuid.NewString()
	sched := config.Context{Addr: "127.0.0.1", Port: sim.Port(), TaskID: taskID}
	client, err := tcp.NewSchedulerClient(sched, config.SchedulerConfig{
		MaxRetries: 3,
	}, logger)
	if err != nil {
		logger.Fatal("Cannot connect to simulator", "error", err)
	}

	svc := service.NewWorkerService(client, service.NewFuncExecutor(fn), *workers, logger)
	if err := svc.Run(context.Background()); err != nil {
		logger.Fatal("Worker loop failed", "error", err)
	}
	client.Close()

	if err := <-simDone; err != nil {
		logger.Fatal("Simulator failed", "error", err)
	}
	succeeded, failed := sim.Results()
	logger.Info("Run complete", "blocks", *numBlocks, "succeeded", succeeded, "failed", failed)
}
