// Package wire implements the framed message protocol spoken between the
// scheduler and its workers. Each frame is a 4-byte big-endian payload length
// followed by a CBOR-encoded envelope carrying the message type and payload.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// MaxPayloadLength bounds a single frame's payload. Frames beyond this are
// treated as stream corruption rather than allocated.
const MaxPayloadLength = 1 << 20

var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum payload length")

// envelope is the on-wire shape of every message.
type envelope struct {
	Type MessageType     `cbor:"type"`
	Data cbor.RawMessage `cbor:"data,omitempty"`
}

// WriteMessage encodes msg and writes a single frame to w.
func WriteMessage(w io.Writer, msg Message) error {
	data, err := cbor.Marshal(msg)
	if err != nil {
		return fmt.Errorf("wire: encode %s: %w", msg.Type(), err)
	}
	payload, err := cbor.Marshal(envelope{Type: msg.Type(), Data: data})
	if err != nil {
		return fmt.Errorf("wire: encode envelope: %w", err)
	}
	if len(payload) > MaxPayloadLength {
		return ErrFrameTooLarge
	}
	header := make([]byte, 4, 4+len(payload))
	binary.BigEndian.PutUint32(header, uint32(len(payload)))
	_, err = w.Write(append(header, payload...))
	return err
}

// ReadMessage reads exactly one frame from r and decodes it into a typed
// message. It returns io.EOF unwrapped when the stream closes cleanly between
// frames so callers can detect peer disconnection.
func ReadMessage(r io.Reader) (Message, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxPayloadLength {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	var env envelope
	if err := cbor.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("wire: decode envelope: %w", err)
	}
	msg, err := newMessage(env.Type)
	if err != nil {
		return nil, err
	}
	if len(env.Data) > 0 {
		if err := cbor.Unmarshal(env.Data, msg); err != nil {
			return nil, fmt.Errorf("wire: decode %s: %w", env.Type, err)
		}
	}
	return msg, nil
}
