package schedtest

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/gridwork-io/gridwork/internal/shared/logging"
	"github.com/gridwork-io/gridwork/internal/shared/wire"
	"github.com/gridwork-io/gridwork/pkg/blocks"
)

// BlockSize is the write-region extent of simulated blocks, per dimension.
const BlockSize = 64

// ReadContext is how far a simulated block's read region extends beyond its
// write region on each side.
const ReadContext = 8

// Simulator serves a fixed sequence of blocks to a single worker over the
// real wire protocol, then terminates it. It answers each WorkerGetBlock
// with the next unserved block, so delivery order is deterministic.
type Simulator struct {
	listener  net.Listener
	numBlocks int
	logger    logging.Logger
	runID     string

	mu        sync.Mutex
	served    int
	succeeded int
	failed    int
	onceClose sync.Once
}

func NewSimulator(addr string, numBlocks int, logger logging.Logger) (*Simulator, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		listener:  listener,
		numBlocks: numBlocks,
		logger:    logger,
		runID:     uuid.New().String(),
	}, nil
}

func (s *Simulator) Addr() string {
	return s.listener.Addr().String()
}

// Port returns the listening TCP port.
func (s *Simulator) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve accepts one worker and runs the assignment loop until the
// connection closes. Block returns are fire-and-forget on the worker side,
// so reading continues past the WorkerExiting acknowledgment to catch
// returns that were still queued behind it.
func (s *Simulator) Serve() error {
	conn, err := s.listener.Accept()
	if err != nil {
		return err
	}
	defer conn.Close()

	s.logger.Info("Worker connected",
		"run_id", s.runID,
		"remote", conn.RemoteAddr().String(),
		"blocks", s.numBlocks,
	)

	exited := false
	for {
		msg, err := wire.ReadMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || exited {
				s.logger.Info("Worker disconnected",
					"run_id", s.runID,
					"succeeded", s.succeeded,
					"failed", s.failed,
				)
				return nil
			}
			return err
		}
		switch m := msg.(type) {
		case *wire.MsgWorkerGetBlock:
			if err := s.assignNext(conn, m.TaskID); err != nil {
				return err
			}
		case *wire.MsgWorkerRetBlock:
			s.record(m)
		case *wire.MsgWorkerExiting:
			s.logger.Info("Worker exiting", "run_id", s.runID)
			exited = true
		default:
			s.logger.Warn("Unexpected message from worker", "type", msg.Type().String())
		}
	}
}

func (s *Simulator) assignNext(conn net.Conn, taskID string) error {
	s.mu.Lock()
	i := s.served
	if i < s.numBlocks {
		s.served++
	}
	s.mu.Unlock()

	if i >= s.numBlocks {
		s.logger.Debug("All blocks served, terminating worker", "task_id", taskID)
		return wire.WriteMessage(conn, &wire.MsgTerminateWorker{})
	}
	block := makeBlock(int64(i))
	s.logger.Debug("Assigning block", "task_id", taskID, "block_id", block.BlockID)
	return wire.WriteMessage(conn, &wire.MsgNewBlock{Block: block})
}

func (s *Simulator) record(m *wire.MsgWorkerRetBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Code == wire.ReturnCodeSuccess {
		s.succeeded++
	} else {
		s.failed++
	}
	s.logger.Debug("Block returned", "block_id", m.BlockID, "code", m.Code.String())
}

// Results returns how many returned blocks succeeded and failed so far.
func (s *Simulator) Results() (succeeded int, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.succeeded, s.failed
}

func (s *Simulator) Close() error {
	s.onceClose.Do(func() {
		s.listener.Close()
	})
	return nil
}

// makeBlock lays blocks out along one dimension: block i writes
// [i*BlockSize, (i+1)*BlockSize) and reads ReadContext voxels beyond each
// side, clamped at zero.
func makeBlock(i int64) blocks.Block {
	writeOffset := i * BlockSize
	readOffset := writeOffset - ReadContext
	readShape := int64(BlockSize + 2*ReadContext)
	if readOffset < 0 {
		readShape += readOffset
		readOffset = 0
	}
	return blocks.Block{
		BlockID:  i,
		ReadRoi:  blocks.Roi{Offset: []int64{readOffset}, Shape: []int64{readShape}},
		WriteRoi: blocks.Roi{Offset: []int64{writeOffset}, Shape: []int64{BlockSize}},
	}
}
