package core

import (
	"testing"
	"time"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

func testBlock(id int64) *blocks.Block {
	return &blocks.Block{BlockID: id}
}

func TestBlockQueue_FIFOOrder(t *testing.T) {
	q := NewBlockQueue()
	for i := int64(0); i < 5; i++ {
		if !q.Push(testBlock(i)) {
			t.Fatalf("push of block %d rejected", i)
		}
	}
	for i := int64(0); i < 5; i++ {
		b, ok := q.PopBlocking()
		if !ok {
			t.Fatal("queue reported closed while blocks remained")
		}
		if b.BlockID != i {
			t.Errorf("expected block %d, got %d", i, b.BlockID)
		}
	}
}

func TestBlockQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewBlockQueue()
	got := make(chan *blocks.Block, 1)

	go func() {
		b, _ := q.PopBlocking()
		got <- b
	}()

	// Give the consumer a moment to reach the wait.
	time.Sleep(10 * time.Millisecond)
	q.Push(testBlock(7))

	select {
	case b := <-got:
		if b == nil || b.BlockID != 7 {
			t.Errorf("expected block 7, got %v", b)
		}
	case <-time.After(time.Second):
		t.Fatal("PopBlocking did not return after Push")
	}
}

func TestBlockQueue_CloseUnblocksWaiter(t *testing.T) {
	q := NewBlockQueue()
	done := make(chan bool, 1)

	go func() {
		_, ok := q.PopBlocking()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected end-of-work, got a block")
		}
	case <-time.After(time.Second):
		t.Fatal("PopBlocking did not return after Close")
	}
}

func TestBlockQueue_DrainsBeforeClosure(t *testing.T) {
	q := NewBlockQueue()
	q.Push(testBlock(1))
	q.Push(testBlock(2))
	q.Close()

	b, ok := q.PopBlocking()
	if !ok || b.BlockID != 1 {
		t.Fatalf("expected block 1 before closure, got %v (ok=%v)", b, ok)
	}
	b, ok = q.PopBlocking()
	if !ok || b.BlockID != 2 {
		t.Fatalf("expected block 2 before closure, got %v (ok=%v)", b, ok)
	}
	if _, ok := q.PopBlocking(); ok {
		t.Error("expected end-of-work after drained queue")
	}
}

func TestBlockQueue_PopAfterCloseNeverBlocks(t *testing.T) {
	q := NewBlockQueue()
	q.Close()
	q.Close() // idempotent

	for i := 0; i < 3; i++ {
		done := make(chan struct{})
		go func() {
			q.PopBlocking()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("PopBlocking blocked on a closed queue")
		}
	}
}

func TestBlockQueue_PushAfterCloseDropped(t *testing.T) {
	q := NewBlockQueue()
	q.Close()
	if q.Push(testBlock(1)) {
		t.Error("push after close was accepted")
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, got %d items", q.Len())
	}
}
