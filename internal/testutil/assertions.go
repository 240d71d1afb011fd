package testutil

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// AssertUint32BE checks that a big-endian uint32 in frame at offset matches
// expected — used to check the wire frame's 4-byte length prefix.
func AssertUint32BE(t testing.TB, expected uint32, frame []byte, offset int) {
	t.Helper()

	if len(frame) < offset+4 {
		t.Fatalf("frame too short: need %d bytes for uint32 at offset %d, got %d",
			offset+4, offset, len(frame))
	}

	actual := binary.BigEndian.Uint32(frame[offset:])
	if actual != expected {
		t.Fatalf("uint32 mismatch at offset %d: expected %d, got %d", offset, expected, actual)
	}
}

// AssertBytesEqual checks that two byte slices are equal.
func AssertBytesEqual(t testing.TB, expected, actual []byte, msg string) {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Fatalf("%s: bytes mismatch\nexpected: %v\nactual:   %v", msg, expected, actual)
	}
}

// AssertFrameLength checks that a frame has exactly the expected length.
func AssertFrameLength(t testing.TB, expected int, frame []byte) {
	t.Helper()

	actual := len(frame)
	if actual != expected {
		t.Fatalf("frame length mismatch: expected %d bytes, got %d bytes", expected, actual)
	}
}

// AssertFrameMinLength checks that a frame is at least minLength bytes.
func AssertFrameMinLength(t testing.TB, minLength int, frame []byte) {
	t.Helper()

	actual := len(frame)
	if actual < minLength {
		t.Fatalf("frame too short: expected at least %d bytes, got %d bytes", minLength, actual)
	}
}
