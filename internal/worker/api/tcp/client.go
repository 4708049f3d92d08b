// Package tcp implements the worker side of the scheduler link: a single
// long-lived TCP connection carrying framed wire messages. One goroutine owns
// all reads, one owns all writes; caller goroutines only ever touch the
// blocking queue and the outbound channel.
package tcp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gridwork-io/gridwork/internal/shared/config"
	"github.com/gridwork-io/gridwork/internal/shared/logging"
	"github.com/gridwork-io/gridwork/internal/shared/wire"
	"github.com/gridwork-io/gridwork/internal/worker/core"
	"github.com/gridwork-io/gridwork/pkg/blocks"
)

type SchedulerClient struct {
	taskID string
	conn   net.Conn
	queue  *core.BlockQueue
	logger logging.Logger

	sendChan  chan wire.Message
	doneChan  chan struct{}
	sendDone  chan struct{}
	onceClose sync.Once
	wg        sync.WaitGroup
}

// NewSchedulerClient dials the scheduler with bounded retries and starts the
// send and receive loops. It blocks until the connection is established and
// returns an error once the retry budget is exhausted; a worker without a
// scheduler link has no work to do, so callers treat that as fatal.
func NewSchedulerClient(
	sched config.Context,
	cfg config.SchedulerConfig,
	logger logging.Logger,
) (*SchedulerClient, error) {
	logger.Info("Connecting to scheduler",
		"addr", sched.SchedulerAddr(),
		"task_id", sched.TaskID,
	)

	conn, err := dialWithRetry(sched.SchedulerAddr(), cfg, logger)
	if err != nil {
		return nil, err
	}

	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = 1
	}

	c := &SchedulerClient{
		taskID:   sched.TaskID,
		conn:     conn,
		queue:    core.NewBlockQueue(),
		logger:   logger,
		sendChan: make(chan wire.Message, sendBuffer),
		doneChan: make(chan struct{}),
		sendDone: make(chan struct{}),
	}
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.sendLoop()
	}()
	go func() {
		defer c.wg.Done()
		c.recvLoop()
	}()

	logger.Debug("Connected to scheduler", "addr", sched.SchedulerAddr())
	return c, nil
}

// dialWithRetry attempts a TCP connect up to maxRetries+1 times, sleeping a
// fixed interval between attempts. Failure is returned, not raised: the
// worst-case startup latency stays bounded by the retry budget.
func dialWithRetry(
	addr string,
	cfg config.SchedulerConfig,
	logger logging.Logger,
) (net.Conn, error) {
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	for attempt := 0; ; attempt++ {
		conn, err := dialer.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		if attempt >= cfg.MaxRetries {
			return nil, fmt.Errorf("connecting to scheduler at %s: %w", addr, err)
		}
		logger.Debug("Scheduler connect failed, retrying",
			"addr", addr,
			"attempt", attempt+1,
			"error", err,
		)
		time.Sleep(cfg.RetryInterval)
	}
}

// AcquireBlock requests a new block and blocks until the receive loop hands
// one over. It returns nil once the scheduler has terminated the worker or
// the connection was lost: no more work will arrive.
func (c *SchedulerClient) AcquireBlock() *blocks.Block {
	c.send(&wire.MsgWorkerGetBlock{TaskID: c.taskID})
	block, ok := c.queue.PopBlocking()
	if !ok {
		return nil
	}
	c.logger.Debug("Acquired block", "block_id", block.BlockID)
	return block
}

// ReleaseBlock reports a processed block back to the scheduler. ret must be
// 0 (success) or 1 (error); any other value is coerced to success with a
// warning. No acknowledgment is awaited.
func (c *SchedulerClient) ReleaseBlock(block *blocks.Block, ret int) {
	code := wire.ReturnCodeSuccess
	switch ret {
	case 0:
	case 1:
		code = wire.ReturnCodeError
	default:
		c.logger.Warn("Block processors should return either 0 or 1",
			"ret", ret,
			"block_id", block.BlockID,
		)
	}
	c.logger.Debug("Releasing block", "block_id", block.BlockID, "code", code.String())
	c.send(&wire.MsgWorkerRetBlock{
		TaskID:  c.taskID,
		BlockID: block.BlockID,
		Code:    code,
	})
}

// TaskID returns the task identity this client registered with.
func (c *SchedulerClient) TaskID() string {
	return c.taskID
}

// Close stops the loops and closes the connection. Pending outbound messages
// are flushed before the connection goes away.
func (c *SchedulerClient) Close() error {
	c.onceClose.Do(func() {
		close(c.doneChan)
		<-c.sendDone
		c.conn.Close()
		c.wg.Wait()
	})
	return nil
}

// send hands a message to the connection-owning send loop. A full buffer
// blocks the caller rather than dropping the message. Sends after shutdown
// are discarded.
func (c *SchedulerClient) send(msg wire.Message) {
	select {
	case c.sendChan <- msg:
	case <-c.doneChan:
	}
}

// sendLoop is the sole writer on the connection. On shutdown it drains
// whatever is already queued before signaling sendDone.
func (c *SchedulerClient) sendLoop() {
	defer close(c.sendDone)
	for {
		select {
		case msg := <-c.sendChan:
			c.write(msg)
		case <-c.doneChan:
			for {
				select {
				case msg := <-c.sendChan:
					c.write(msg)
				default:
					return
				}
			}
		}
	}
}

func (c *SchedulerClient) write(msg wire.Message) {
	if err := wire.WriteMessage(c.conn, msg); err != nil {
		c.logger.Error("Failed to send message to scheduler",
			"type", msg.Type().String(),
			"error", err,
		)
	}
}

// recvLoop is the sole reader on the connection. Whatever ends it, the queue
// is closed exactly once on the way out so a blocked AcquireBlock always
// observes the end of work.
func (c *SchedulerClient) recvLoop() {
	defer c.queue.Close()
	for {
		msg, err := wire.ReadMessage(c.conn)
		if err != nil {
			select {
			case <-c.doneChan:
			default:
				c.logger.Error("Unexpected loss of connection to scheduler", "error", err)
			}
			return
		}
		switch m := msg.(type) {
		case *wire.MsgNewBlock:
			block := m.Block
			c.logger.Debug("Received block", "block_id", block.BlockID)
			c.queue.Push(&block)
		case *wire.MsgTerminateWorker:
			c.logger.Info("Scheduler requested worker termination")
			c.send(&wire.MsgWorkerExiting{})
			return
		default:
			c.logger.Warn("Ignoring unexpected message from scheduler",
				"type", msg.Type().String(),
			)
		}
	}
}
