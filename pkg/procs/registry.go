// Package procs holds the registry of named block processors. Processor
// packages register themselves from init so a worker binary selects one by
// name at startup.
package procs

import (
	"context"
	"fmt"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

// ProcessFunc processes a single acquired block. A nil error releases the
// block as success, anything else as error.
type ProcessFunc func(ctx context.Context, block *blocks.Block) error

// Factory builds a ProcessFunc from the worker's configured input string
// (processor-specific, often a file glob or data root).
type Factory func(input string) (ProcessFunc, error)

var registry = make(map[string]Factory)

func init() {
	// Builtin processor that accepts every block without touching data.
	registry["noop"] = func(string) (ProcessFunc, error) {
		return func(context.Context, *blocks.Block) error { return nil }, nil
	}
}

func Register(name string, factory Factory) error {
	if _, exists := registry[name]; exists {
		return fmt.Errorf("processor already registered: %s", name)
	}
	registry[name] = factory
	return nil
}

func Get(name string) (Factory, error) {
	factory, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("processor not found: %s", name)
	}
	return factory, nil
}

func List() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	return names
}
