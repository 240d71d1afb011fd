package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/oocraftrabbitoo/truinlag/internal/engine"
	"github.com/oocraftrabbitoo/truinlag/internal/protocol"
)

// replyHandle pairs a request id with the engine's single-use reply channel,
// preserving arrival order through the response forwarder's serial queue.
type replyHandle struct {
	id    uint64
	reply chan engine.Result
}

// handleConnection runs the reader/response-forwarder/broadcast-forwarder/
// writer quartet for one client. Any task failing terminates the whole
// connection; other connections are unaffected (spec.md §4.2).
func (h *Hub) handleConnection(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	log := h.log.With("remote", remote)
	defer conn.Close()

	connID, broadcasts := h.subscribe()
	if h.metrics != nil {
		h.metrics.SetConnectionsActive(h.activeConnCount())
	}
	defer func() {
		h.unsubscribe(connID)
		if h.metrics != nil {
			h.metrics.SetConnectionsActive(h.activeConnCount())
		}
	}()

	writeCh := make(chan any, 256)
	handles := make(chan replyHandle, 256)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return h.readLoop(gctx, conn, handles, writeCh, log) })
	group.Go(func() error { return h.responseForwardLoop(gctx, handles, writeCh) })
	group.Go(func() error { return h.broadcastForwardLoop(gctx, broadcasts, writeCh) })
	group.Go(func() error { return h.writeLoop(gctx, conn, writeCh) })

	// Read/write on conn ignore ctx directly (net.Conn has no context-aware
	// API); closing the socket once any task fails or the connection's
	// context is cancelled is what actually unblocks a pending Read/Write.
	go func() {
		<-gctx.Done()
		conn.Close()
	}()

	if err := group.Wait(); err != nil && !errors.Is(err, io.EOF) {
		log.Debug("connection closed", "error", err)
	} else {
		log.Debug("connection closed")
	}
}

func (h *Hub) readLoop(ctx context.Context, conn net.Conn, handles chan<- replyHandle, writeCh chan<- any, log *slog.Logger) error {
	for {
		var pkg protocol.EngineCommandPackage
		if err := protocol.ReadFrame(conn, h.maxFrame, &pkg); err != nil {
			return err
		}

		reply := h.eng.Submit(pkg.Session, pkg.Command)
		select {
		case handles <- replyHandle{id: pkg.ID, reply: reply}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// responseForwardLoop is the serial queue from spec.md §4.2: it awaits each
// reply handle strictly in arrival order, so per-connection response
// delivery order matches request arrival order even though the engine may
// complete them out of order.
func (h *Hub) responseForwardLoop(ctx context.Context, handles <-chan replyHandle, writeCh chan<- any) error {
	for {
		select {
		case handle, ok := <-handles:
			if !ok {
				return nil
			}
			select {
			case result := <-handle.reply:
				pkg := protocol.ResponsePackage{ID: handle.id, Action: result.Action}
				select {
				case writeCh <- pkg:
				case <-ctx.Done():
					return ctx.Err()
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) broadcastForwardLoop(ctx context.Context, broadcasts <-chan protocol.BroadcastAction, writeCh chan<- any) error {
	for {
		select {
		case action := <-broadcasts:
			pkg := protocol.BroadcastPackage{Action: action}
			select {
			case writeCh <- pkg:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Hub) writeLoop(ctx context.Context, conn net.Conn, writeCh <-chan any) error {
	for {
		select {
		case payload := <-writeCh:
			if err := protocol.WriteFrame(conn, payload); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
