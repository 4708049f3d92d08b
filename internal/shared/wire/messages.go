package wire

import (
	"fmt"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

type MessageType uint8

const (
	MessageTypeNewBlock        MessageType = 1
	MessageTypeTerminateWorker MessageType = 2
	MessageTypeWorkerGetBlock  MessageType = 3
	MessageTypeWorkerRetBlock  MessageType = 4
	MessageTypeWorkerExiting   MessageType = 5
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeNewBlock:
		return "NewBlock"
	case MessageTypeTerminateWorker:
		return "TerminateWorker"
	case MessageTypeWorkerGetBlock:
		return "WorkerGetBlock"
	case MessageTypeWorkerRetBlock:
		return "WorkerRetBlock"
	case MessageTypeWorkerExiting:
		return "WorkerExiting"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// ReturnCode reports the outcome of processing a block.
type ReturnCode uint8

const (
	ReturnCodeSuccess ReturnCode = 0
	ReturnCodeError   ReturnCode = 1
)

func (c ReturnCode) String() string {
	switch c {
	case ReturnCodeSuccess:
		return "Success"
	case ReturnCodeError:
		return "Error"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(c))
}

// Message is any protocol message that can cross the scheduler link.
type Message interface {
	Type() MessageType
}

// MsgNewBlock assigns a block to the worker.
type MsgNewBlock struct {
	Block blocks.Block `cbor:"block"`
}

func (*MsgNewBlock) Type() MessageType { return MessageTypeNewBlock }

// MsgTerminateWorker tells the worker that no further blocks will be
// assigned and it should exit.
type MsgTerminateWorker struct{}

func (*MsgTerminateWorker) Type() MessageType { return MessageTypeTerminateWorker }

// MsgWorkerGetBlock requests the next block for the given task.
type MsgWorkerGetBlock struct {
	TaskID string `cbor:"task_id"`
}

func (*MsgWorkerGetBlock) Type() MessageType { return MessageTypeWorkerGetBlock }

// MsgWorkerRetBlock returns a processed block with its outcome.
type MsgWorkerRetBlock struct {
	TaskID  string     `cbor:"task_id"`
	BlockID int64      `cbor:"block_id"`
	Code    ReturnCode `cbor:"code"`
}

func (*MsgWorkerRetBlock) Type() MessageType { return MessageTypeWorkerRetBlock }

// MsgWorkerExiting acknowledges a termination request.
type MsgWorkerExiting struct{}

func (*MsgWorkerExiting) Type() MessageType { return MessageTypeWorkerExiting }

func newMessage(t MessageType) (Message, error) {
	switch t {
	case MessageTypeNewBlock:
		return &MsgNewBlock{}, nil
	case MessageTypeTerminateWorker:
		return &MsgTerminateWorker{}, nil
	case MessageTypeWorkerGetBlock:
		return &MsgWorkerGetBlock{}, nil
	case MessageTypeWorkerRetBlock:
		return &MsgWorkerRetBlock{}, nil
	case MessageTypeWorkerExiting:
		return &MsgWorkerExiting{}, nil
	}
	return nil, fmt.Errorf("wire: unknown message type %d", uint8(t))
}
