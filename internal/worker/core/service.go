package core

import (
	"context"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

// SchedulerClient is the synchronous API the processing loop uses to talk to
// the scheduler. AcquireBlock blocks until the scheduler assigns a block and
// returns nil once no more work will arrive. ReleaseBlock reports a block's
// outcome: 0 for success, 1 for error. It does not wait for acknowledgment.
type SchedulerClient interface {
	AcquireBlock() *blocks.Block
	ReleaseBlock(block *blocks.Block, ret int)
	Close() error
}

type WorkerService interface {
	Run(ctx context.Context) error
}

type BlockExecutor interface {
	Execute(ctx context.Context, block *blocks.Block) error
}
