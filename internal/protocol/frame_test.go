package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/testutil"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	pkg := EngineCommandPackage{
		ID:      7,
		Command: Ping{Payload: []byte("hello")},
	}
	require.NoError(t, WriteFrame(&buf, pkg))

	var got EngineCommandPackage
	require.NoError(t, ReadFrame(&buf, 0, &got))

	require.Equal(t, pkg.ID, got.ID)
	ping, ok := got.Command.(Ping)
	require.True(t, ok)
	require.Equal(t, []byte("hello"), ping.Payload)
}

func TestReadFrameRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, EngineCommandPackage{ID: 1, Command: GetState{}}))

	var got EngineCommandPackage
	err := ReadFrame(&buf, 1, &got)
	require.Error(t, err)
}

func TestResponseAndBroadcastRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	resp := ResponsePackage{ID: 3, Action: Success{}}
	require.NoError(t, WriteFrame(&buf, resp))

	var got ResponsePackage
	require.NoError(t, ReadFrame(&buf, 0, &got))
	require.Equal(t, uint64(3), got.ID)
	_, ok := got.Action.(Success)
	require.True(t, ok)

	buf.Reset()
	bc := BroadcastPackage{Action: TeamMadeCatcher{Session: 1, Team: 2}}
	require.NoError(t, WriteFrame(&buf, bc))

	var gotBC BroadcastPackage
	require.NoError(t, ReadFrame(&buf, 0, &gotBC))
	tmc, ok := gotBC.Action.(TeamMadeCatcher)
	require.True(t, ok)
	require.Equal(t, uint64(2), tmc.Team)
}

func TestWriteFrameLengthPrefixMatchesBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, EngineCommandPackage{ID: 42, Command: GetState{}}))
	raw := buf.Bytes()

	testutil.AssertFrameMinLength(t, 4, raw)
	bodyLen := binary.BigEndian.Uint32(raw[:4])
	testutil.AssertUint32BE(t, bodyLen, raw, 0)
	testutil.AssertFrameLength(t, 4+int(bodyLen), raw)

	// gob encoding of the same value is deterministic, so re-encoding it on
	// its own must reproduce exactly the body WriteFrame already wrote.
	var again bytes.Buffer
	require.NoError(t, WriteFrame(&again, EngineCommandPackage{ID: 42, Command: GetState{}}))
	testutil.AssertBytesEqual(t, raw, again.Bytes(), "re-encoding the same value")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, testutil.ErrSimulated
}

func TestWriteFramePropagatesWriterError(t *testing.T) {
	err := WriteFrame(failingWriter{}, EngineCommandPackage{ID: 1, Command: GetState{}})
	require.Error(t, err)
	require.True(t, errors.Is(err, testutil.ErrSimulated))
}
