package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwork-io/gridwork/pkg/blocks"
)

func TestRoundTripNewBlock(t *testing.T) {
	block := blocks.Block{
		BlockID:  42,
		ReadRoi:  blocks.Roi{Offset: []int64{56}, Shape: []int64{80}},
		WriteRoi: blocks.Roi{Offset: []int64{64}, Shape: []int64{64}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, &MsgNewBlock{Block: block}))

	msg, err := ReadMessage(&buf)
	require.NoError(t, err)

	got, ok := msg.(*MsgNewBlock)
	require.True(t, ok, "expected MsgNewBlock, got %s", msg.Type())
	require.Equal(t, block, got.Block)
}

func TestRoundTripRetBlock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, &MsgWorkerRetBlock{
		TaskID:  "worker-7",
		BlockID: 3,
		Code:    ReturnCodeError,
	}))

	msg, err := ReadMessage(&buf)
	require.NoError(t, err)

	got := msg.(*MsgWorkerRetBlock)
	require.Equal(t, "worker-7", got.TaskID)
	require.Equal(t, int64(3), got.BlockID)
	require.Equal(t, ReturnCodeError, got.Code)
}

func TestRoundTripEmptyMessages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, &MsgTerminateWorker{}))
	require.NoError(t, WriteMessage(&buf, &MsgWorkerExiting{}))

	msg, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, MessageTypeTerminateWorker, msg.Type())

	msg, err = ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, MessageTypeWorkerExiting, msg.Type())
}

func TestReadMessageEOFOnClosedStream(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestReadMessageRejectsOversizedFrame(t *testing.T) {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], MaxPayloadLength+1)

	_, err := ReadMessage(bytes.NewReader(header[:]))
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestReadMessageRejectsUnknownType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, &MsgWorkerExiting{}))

	// Patch the envelope's type byte to an unassigned value. The envelope is
	// a CBOR map whose "type" value is the byte after the key string.
	data := buf.Bytes()
	idx := bytes.Index(data, []byte("type"))
	require.GreaterOrEqual(t, idx, 0)
	data[idx+len("type")] = 0x17 // CBOR uint 23

	_, err := ReadMessage(bytes.NewReader(data))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown message type")
}
