package service

import (
	"context"

	"github.com/gridwork-io/gridwork/internal/worker/core"
	"github.com/gridwork-io/gridwork/pkg/blocks"
	"github.com/gridwork-io/gridwork/pkg/procs"
)

type funcExecutor struct {
	fn procs.ProcessFunc
}

// NewFuncExecutor adapts a registered processor function to the
// BlockExecutor interface.
func NewFuncExecutor(fn procs.ProcessFunc) core.BlockExecutor {
	return &funcExecutor{fn: fn}
}

func (e *funcExecutor) Execute(ctx context.Context, block *blocks.Block) error {
	return e.fn(ctx, block)
}

type noopExecutor struct{}

// NewNoopExecutor returns an executor that accepts every block without doing
// any work. Useful for smoke-testing a scheduler deployment.
func NewNoopExecutor() core.BlockExecutor {
	return &noopExecutor{}
}

func (e *noopExecutor) Execute(ctx context.Context, block *blocks.Block) error {
	return nil
}
