// schedsim serves a fixed number of blocks to a single worker over the wire
// protocol and reports the outcome. It is a stand-in scheduler for testing
// workers against a real TCP link; it implements no assignment policy.
package main

import (
	"flag"
	"os"

	"github.com/gridwork-io/gridwork/internal/schedtest"
	"github.com/gridwork-io/gridwork/internal/shared/logging"
)

func main() {
	var (
		addr      = flag.String("addr", ":9000", "address to listen on")
		numBlocks = flag.Int("blocks", 10, "number of blocks to serve before terminating the worker")
		logLevel  = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.New(*logLevel, "text")

	sim, err := schedtest.NewSimulator(*addr, *numBlocks, logger)
	if err != nil {
		logger.Fatal("Failed to listen", "addr", *addr, "error", err)
	}
	defer sim.Close()

	logger.Info("Scheduler simulator listening", "addr", sim.Addr(), "blocks", *numBlocks)

	if err := sim.Serve(); err != nil {
		logger.Fatal("Simulator failed", "error", err)
	}

	succeeded, failed := sim.Results()
	logger.Info("Run complete", "succeeded", succeeded, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
