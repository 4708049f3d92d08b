package service

import (
	"context"

	"github.com/gridwork-io/gridwork/internal/shared/logging"
	"github.com/gridwork-io/gridwork/internal/worker/core"
	"github.com/gridwork-io/gridwork/pkg/blocks"
)

type workerService struct {
	client   core.SchedulerClient
	executor core.BlockExecutor
	workers  int
	logger   logging.Logger
}

// NewWorkerService wires the processing loop: acquire a block, execute it,
// release it with the outcome. With workers > 1, acquired blocks are fanned
// out to a pool so slow blocks don't stall the rest.
func NewWorkerService(
	client core.SchedulerClient,
	executor core.BlockExecutor,
	workers int,
	logger logging.Logger,
) core.WorkerService {
	if workers < 1 {
		workers = 1
	}
	return &workerService{
		client:   client,
		executor: executor,
		workers:  workers,
		logger:   logger,
	}
}

// Run drives the acquire/execute/release loop until the scheduler signals
// the end of work. AcquireBlock has no timeout, so a cancelled context takes
// effect between blocks, not during the blocking wait.
func (w *workerService) Run(ctx context.Context) error {
	pool := NewPool(w.workers)
	pool.Start()
	defer pool.Close()

	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		block := w.client.AcquireBlock()
		if block == nil {
			w.logger.Info("No more work from scheduler", "blocks_processed", processed)
			return nil
		}
		processed++

		pool.Submit(func() {
			w.process(ctx, block)
		})
	}
}

func (w *workerService) process(ctx context.Context, block *blocks.Block) {
	w.logger.Debug("Processing block", "block_id", block.BlockID)

	ret := 0
	if err := w.executor.Execute(ctx, block); err != nil {
		w.logger.Error("Block processing failed", "block_id", block.BlockID, "error", err)
		ret = 1
	}
	w.client.ReleaseBlock(block, ret)
}
