package procs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

func TestBuiltinNoop(t *testing.T) {
	factory, err := Get("noop")
	require.NoError(t, err)

	fn, err := factory("")
	require.NoError(t, err)
	require.NoError(t, fn(context.Background(), &blocks.Block{BlockID: 1}))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	require.NoError(t, Register("dup-test", func(string) (ProcessFunc, error) {
		return nil, nil
	}))
	err := Register("dup-test", func(string) (ProcessFunc, error) {
		return nil, nil
	})
	require.Error(t, err)
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("no-such-processor")
	require.Error(t, err)
}
