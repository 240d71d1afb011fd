package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// DefaultMaxFrameBytes is the default frame-body size ceiling (spec.md §6).
const DefaultMaxFrameBytes = 8 << 20

// WriteFrame gob-encodes v and writes it to w as a length-delimited frame:
// a 4-byte big-endian length prefix followed by the encoded body.
func WriteFrame(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(buf.Len()))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("writing frame length: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-delimited frame from r and gob-decodes it into
// v (a pointer). maxBytes bounds the accepted body length; 0 uses
// DefaultMaxFrameBytes.
func ReadFrame(r io.Reader, maxBytes uint32, v any) error {
	if maxBytes == 0 {
		maxBytes = DefaultMaxFrameBytes
	}
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return err
	}
	length := binary.BigEndian.Uint32(prefix[:])
	if length > maxBytes {
		return fmt.Errorf("frame of %d bytes exceeds max %d bytes", length, maxBytes)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return fmt.Errorf("reading frame body: %w", err)
	}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}
	return nil
}
