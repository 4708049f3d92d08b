// Package schedtest provides in-process stand-ins for the scheduler side of
// the wire protocol: a scripted Scheduler that asserts an exact conversation,
// and a Simulator that hands out a fixed number of blocks. Neither implements
// any scheduling policy; they exist to exercise workers.
package schedtest

import (
	"fmt"
	"net"
	"sync"

	"github.com/gridwork-io/gridwork/internal/shared/config"
	"github.com/gridwork-io/gridwork/internal/shared/wire"
	"github.com/gridwork-io/gridwork/pkg/blocks"
)

// Step is one scripted exchange with the worker under test.
type Step interface {
	run(conn net.Conn) error
}

// ExpectGetBlock asserts the next inbound message is a WorkerGetBlock,
// optionally for a specific task.
type ExpectGetBlock struct {
	TaskID string
}

func (s ExpectGetBlock) run(conn net.Conn) error {
	msg, err := wire.ReadMessage(conn)
	if err != nil {
		return fmt.Errorf("schedtest: expected WorkerGetBlock: %w", err)
	}
	m, ok := msg.(*wire.MsgWorkerGetBlock)
	if !ok {
		return fmt.Errorf("schedtest: expected WorkerGetBlock, got %s", msg.Type())
	}
	if s.TaskID != "" && m.TaskID != s.TaskID {
		return fmt.Errorf("schedtest: expected task %q, got %q", s.TaskID, m.TaskID)
	}
	return nil
}

// SendBlock assigns a block to the worker.
type SendBlock struct {
	Block blocks.Block
}

func (s SendBlock) run(conn net.Conn) error {
	return wire.WriteMessage(conn, &wire.MsgNewBlock{Block: s.Block})
}

// ExpectRetBlock asserts the next inbound message returns the given block
// with the given code.
type ExpectRetBlock struct {
	BlockID int64
	Code    wire.ReturnCode
}

func (s ExpectRetBlock) run(conn net.Conn) error {
	msg, err := wire.ReadMessage(conn)
	if err != nil {
		return fmt.Errorf("schedtest: expected WorkerRetBlock: %w", err)
	}
	m, ok := msg.(*wire.MsgWorkerRetBlock)
	if !ok {
		return fmt.Errorf("schedtest: expected WorkerRetBlock, got %s", msg.Type())
	}
	if m.BlockID != s.BlockID {
		return fmt.Errorf("schedtest: expected block %d returned, got %d", s.BlockID, m.BlockID)
	}
	if m.Code != s.Code {
		return fmt.Errorf("schedtest: expected code %s for block %d, got %s", s.Code, s.BlockID, m.Code)
	}
	return nil
}

// SendTerminate tells the worker to exit.
type SendTerminate struct{}

func (SendTerminate) run(conn net.Conn) error {
	return wire.WriteMessage(conn, &wire.MsgTerminateWorker{})
}

// ExpectExiting asserts the worker acknowledged termination.
type ExpectExiting struct{}

func (ExpectExiting) run(conn net.Conn) error {
	msg, err := wire.ReadMessage(conn)
	if err != nil {
		return fmt.Errorf("schedtest: expected WorkerExiting: %w", err)
	}
	if _, ok := msg.(*wire.MsgWorkerExiting); !ok {
		return fmt.Errorf("schedtest: expected WorkerExiting, got %s", msg.Type())
	}
	return nil
}

// Hangup closes the connection abruptly, mid-session.
type Hangup struct{}

func (Hangup) run(conn net.Conn) error {
	return conn.Close()
}

// Scheduler runs a scripted conversation against a single worker connection.
// Script violations surface on ErrChan; Done closes when the script ran to
// completion.
type Scheduler struct {
	listener  net.Listener
	steps     []Step
	errChan   chan error
	doneChan  chan struct{}
	conn      net.Conn
	connMutex sync.Mutex
	onceClose sync.Once
}

func NewScheduler(steps ...Step) (*Scheduler, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		listener: listener,
		steps:    steps,
		errChan:  make(chan error, 1),
		doneChan: make(chan struct{}),
	}
	go s.serve()
	return s, nil
}

// Context returns a worker bootstrap context pointing at this scheduler.
func (s *Scheduler) Context(taskID string) config.Context {
	addr := s.listener.Addr().(*net.TCPAddr)
	return config.Context{Addr: "127.0.0.1", Port: addr.Port, TaskID: taskID}
}

// ErrChan reports script violations.
func (s *Scheduler) ErrChan() <-chan error {
	return s.errChan
}

// Done closes once every step completed.
func (s *Scheduler) Done() <-chan struct{} {
	return s.doneChan
}

func (s *Scheduler) serve() {
	conn, err := s.listener.Accept()
	if err != nil {
		s.errChan <- err
		return
	}
	s.connMutex.Lock()
	s.conn = conn
	s.connMutex.Unlock()
	for _, step := range s.steps {
		if err := step.run(conn); err != nil {
			s.errChan <- err
			return
		}
	}
	close(s.doneChan)
}

func (s *Scheduler) Close() error {
	s.onceClose.Do(func() {
		s.listener.Close()
		s.connMutex.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.connMutex.Unlock()
	})
	return nil
}
