package testutil

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"
)

// WaitForUnixReady waits until a Unix domain socket at path accepts
// connections, polling with a timeout. Used instead of time.Sleep to
// synchronize with the IPC hub's listener goroutine in integration tests.
func WaitForUnixReady(path string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for socket at %s: %w", path, ctx.Err())
		case <-ticker.C:
			conn, err := net.DialTimeout("unix", path, 50*time.Millisecond)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}

// WaitForCleanup polls check until it reports true or timeout elapses,
// failing the test otherwise. Used to assert that the hub's per-connection
// teardown (unsubscribe, active-connection count) has actually settled
// after a client disconnects, instead of racing it with a fixed sleep.
func WaitForCleanup(t testing.TB, check func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("cleanup timeout: condition not met within %v", timeout)
		case <-ticker.C:
			if check() {
				return
			}
		}
	}
}
