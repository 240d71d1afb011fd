package ipc

import (
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/engine"
	"github.com/oocraftrabbitoo/truinlag/internal/testutil"
)

// newTestHub builds a Hub against a freshly constructed engine that is
// never started (Run is never called): Hub.Run only ever reads
// eng.ShutdownRequested(), so exercising the listener lifecycle needs no
// running engine loop and, crucially, no store.
func newTestHub(t testing.TB) (*Hub, *engine.Engine, string) {
	t.Helper()
	eng := engine.New(nil, slog.Default(), nil, nil)
	socketPath := filepath.Join(t.TempDir(), "truinlag.sock")
	hub := New(socketPath, eng, 0, nil, slog.Default())
	return hub, eng, socketPath
}

func TestHubRunAcceptsAndTracksConnections(t *testing.T) {
	hub, _, socketPath := newTestHub(t)
	ctx, cancel := testutil.ContextWithCancel(t)

	runErr := make(chan error, 1)
	go func() { runErr <- hub.Run(ctx) }()

	require.NoError(t, testutil.WaitForUnixReady(socketPath, 2*time.Second))

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)

	testutil.WaitForCleanup(t, func() bool { return hub.activeConnCount() == 1 }, time.Second)

	require.NoError(t, conn.Close())
	testutil.WaitForCleanup(t, func() bool { return hub.activeConnCount() == 0 }, time.Second)

	cancel()
	require.NoError(t, <-runErr)

	_, err = net.Dial("unix", socketPath)
	require.Error(t, err, "the socket file must be unlinked once Run returns")
}

func TestHubBroadcastAllFansOutToEverySubscriber(t *testing.T) {
	hub, _, _ := newTestHub(t)

	id1, ch1 := hub.subscribe()
	id2, ch2 := hub.subscribe()
	require.Equal(t, 2, hub.activeConnCount())

	hub.broadcastAll(nil)

	require.Nil(t, <-ch1)
	require.Nil(t, <-ch2)

	hub.unsubscribe(id1)
	hub.unsubscribe(id2)
	require.Equal(t, 0, hub.activeConnCount())
}
