package schedtest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridwork-io/gridwork/internal/schedtest"
	"github.com/gridwork-io/gridwork/internal/shared/config"
	"github.com/gridwork-io/gridwork/internal/worker/api/tcp"
	"github.com/gridwork-io/gridwork/internal/worker/service"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
func (nopLogger) Fatal(msg string, args ...any) {}

// Full acquire/process/release cycle against the simulator over a real TCP
// connection.
func TestSimulatorEndToEnd(t *testing.T) {
	const numBlocks = 8

	sim, err := schedtest.NewSimulator("127.0.0.1:0", numBlocks, nopLogger{})
	require.NoError(t, err)
	defer sim.Close()

	simDone := make(chan error, 1)
	go func() {
		simDone <- sim.Serve()
	}()

	sched := config.Context{Addr: "127.0.0.1", Port: sim.Port(), TaskID: "e2e"}
	client, err := tcp.NewSchedulerClient(sched, config.SchedulerConfig{
		DialTimeout:   5 * time.Second,
		RetryInterval: 10 * time.Millisecond,
		MaxRetries:    2,
		SendBuffer:    16,
	}, nopLogger{})
	require.NoError(t, err)

	svc := service.NewWorkerService(client, service.NewNoopExecutor(), 2, nopLogger{})
	require.NoError(t, svc.Run(context.Background()))

	// Close flushes queued block returns before the connection goes away.
	require.NoError(t, client.Close())

	select {
	case err := <-simDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not finish")
	}

	succeeded, failed := sim.Results()
	require.Equal(t, numBlocks, succeeded)
	require.Zero(t, failed)
}
