package testutil

import (
	"net"
	"testing"
)

// PipeConn returns an in-memory client/server net.Conn pair connected via
// net.Pipe, closed automatically when the test ends. The ipc package's
// per-connection loops only need something satisfying net.Conn, so this
// drives them without a real Unix socket.
func PipeConn(t testing.TB) (client, server net.Conn) {
	t.Helper()

	server, client = net.Pipe()

	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})

	return client, server
}
