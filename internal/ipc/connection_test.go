package ipc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/engine"
	"github.com/oocraftrabbitoo/truinlag/internal/protocol"
	"github.com/oocraftrabbitoo/truinlag/internal/testutil"
)

func TestWriteLoopWritesFramesOverConn(t *testing.T) {
	hub, _, _ := newTestHub(t)
	client, server := testutil.PipeConn(t)
	ctx, cancel := testutil.ContextWithCancel(t)
	defer cancel()

	writeCh := make(chan any, 1)
	done := make(chan error, 1)
	go func() { done <- hub.writeLoop(ctx, server, writeCh) }()

	writeCh <- protocol.ResponsePackage{ID: 9, Action: protocol.Success{}}

	var got protocol.ResponsePackage
	require.NoError(t, protocol.ReadFrame(client, 0, &got))
	require.Equal(t, uint64(9), got.ID)
	_, ok := got.Action.(protocol.Success)
	require.True(t, ok)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writeLoop did not stop after context cancellation")
	}
}

func TestBroadcastForwardLoopWrapsActionsIntoPackages(t *testing.T) {
	hub, _, _ := newTestHub(t)
	ctx, cancel := testutil.ContextWithCancel(t)
	defer cancel()

	broadcasts := make(chan protocol.BroadcastAction, 1)
	writeCh := make(chan any, 1)
	done := make(chan error, 1)
	go func() { done <- hub.broadcastForwardLoop(ctx, broadcasts, writeCh) }()

	broadcasts <- protocol.TeamMadeCatcher{Session: 1, Team: 2}

	select {
	case payload := <-writeCh:
		pkg, ok := payload.(protocol.BroadcastPackage)
		require.True(t, ok)
		tmc, ok := pkg.Action.(protocol.TeamMadeCatcher)
		require.True(t, ok)
		require.Equal(t, uint64(2), tmc.Team)
	case <-time.After(time.Second):
		t.Fatal("broadcastForwardLoop did not forward the action")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcastForwardLoop did not stop after context cancellation")
	}
}

// responseForwardLoop must preserve per-connection request arrival order
// even when the engine answers requests out of order.
func TestResponseForwardLoopPreservesArrivalOrder(t *testing.T) {
	hub, _, _ := newTestHub(t)
	ctx, cancel := testutil.ContextWithCancel(t)
	defer cancel()

	handles := make(chan replyHandle, 2)
	writeCh := make(chan any, 2)
	done := make(chan error, 1)
	go func() { done <- hub.responseForwardLoop(ctx, handles, writeCh) }()

	firstReply := make(chan engine.Result, 1)
	secondReply := make(chan engine.Result, 1)
	handles <- replyHandle{id: 1, reply: firstReply}
	handles <- replyHandle{id: 2, reply: secondReply}

	// The second request's reply arrives first; the forwarder must still
	// answer request 1 before request 2 on the wire.
	secondReply <- engine.Result{Action: protocol.Success{}}
	select {
	case <-writeCh:
		t.Fatal("responseForwardLoop answered out of arrival order")
	case <-time.After(100 * time.Millisecond):
	}

	firstReply <- engine.Result{Action: protocol.Success{}}

	first := requirePackage(t, writeCh)
	require.Equal(t, uint64(1), first.ID)
	second := requirePackage(t, writeCh)
	require.Equal(t, uint64(2), second.ID)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("responseForwardLoop did not stop after context cancellation")
	}
}

func requirePackage(t *testing.T, writeCh <-chan any) protocol.ResponsePackage {
	t.Helper()
	select {
	case payload := <-writeCh:
		pkg, ok := payload.(protocol.ResponsePackage)
		require.True(t, ok)
		return pkg
	case <-time.After(time.Second):
		t.Fatal("expected a response package on writeCh")
		return protocol.ResponsePackage{}
	}
}
