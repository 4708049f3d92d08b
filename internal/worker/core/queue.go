package core

import (
	"sync"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

// BlockQueue is an unbounded FIFO bridging the connection's receive loop
// (producer) and the blocking client API (consumer). Closing the queue is the
// terminal "no more work" marker: it is idempotent, always observed after
// every previously pushed block, and wakes every waiter.
type BlockQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*blocks.Block
	closed bool
}

func NewBlockQueue() *BlockQueue {
	q := &BlockQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a block and wakes one waiter. Pushes after Close are dropped
// so the closure marker stays the last thing consumers observe.
func (q *BlockQueue) Push(b *blocks.Block) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, b)
	q.cond.Signal()
	return true
}

// PopBlocking waits until a block is available or the queue is closed and
// drained. The second return value is false only for the latter; further
// calls then return immediately rather than block.
func (q *BlockQueue) PopBlocking() (*blocks.Block, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	b := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return b, true
}

// Close marks the end of work. Idempotent.
func (q *BlockQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *BlockQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
