// Package ipc implements the Hub described in spec.md §4.2: one Unix domain
// socket listener, one connected socket per client, length-delimited framing
// over gob payloads, and the reader/response-forwarder/broadcast-forwarder/
// writer task quartet per connection (grounded on the teacher's gslistener
// accept-loop-plus-per-connection-state pattern).
package ipc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/engine"
	"github.com/oocraftrabbitoo/truinlag/internal/metrics"
	"github.com/oocraftrabbitoo/truinlag/internal/protocol"
)

const connectionDrainTimeout = 3 * time.Second

// broadcastQueueCapacity is the bounded MPMC broadcast channel capacity from
// spec.md §4.2.2.
const broadcastQueueCapacity = 1024

// Hub owns the listening socket and the set of live connections.
type Hub struct {
	socketPath string
	eng        *engine.Engine
	maxFrame   uint32
	metrics    *metrics.Metrics
	log        *slog.Logger

	listener net.Listener

	subMu      sync.Mutex
	subs       map[uint64]chan protocol.BroadcastAction
	nextConnID uint64

	connWG sync.WaitGroup
}

// New constructs a Hub bound to socketPath. The engine is built first with
// no broadcast callback; call Hub.BroadcastFunc and pass the result to
// Engine.SetBroadcast before starting either.
func New(socketPath string, eng *engine.Engine, maxFrame uint32, m *metrics.Metrics, log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		socketPath: socketPath,
		eng:        eng,
		maxFrame:   maxFrame,
		metrics:    m,
		log:        log,
		subs:       make(map[uint64]chan protocol.BroadcastAction),
	}
}

// BroadcastFunc returns the callback to wire into Engine.SetBroadcast: every
// broadcast action the engine produces is fanned out to every live
// connection's subscription channel.
func (h *Hub) BroadcastFunc() func(protocol.BroadcastAction) {
	return h.broadcastAll
}

func (h *Hub) broadcastAll(action protocol.BroadcastAction) {
	h.subMu.Lock()
	targets := make([]chan protocol.BroadcastAction, 0, len(h.subs))
	for _, ch := range h.subs {
		targets = append(targets, ch)
	}
	h.subMu.Unlock()

	if h.metrics != nil {
		depth := 0
		for _, ch := range targets {
			depth += len(ch)
		}
		h.metrics.SetBroadcastQueueLength(depth)
	}
	for _, ch := range targets {
		select {
		case ch <- action:
		default:
			h.log.Warn("broadcast subscriber queue full, still awaiting (no drop)")
			ch <- action
		}
	}
}

func (h *Hub) subscribe() (uint64, chan protocol.BroadcastAction) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	id := h.nextConnID
	h.nextConnID++
	ch := make(chan protocol.BroadcastAction, broadcastQueueCapacity)
	h.subs[id] = ch
	return id, ch
}

// unsubscribe removes a connection's broadcast channel from future fan-out
// and spawns a sink goroutine that drains any broadcast already in flight to
// it, so broadcastAll's producers never stall on a connection that just
// disconnected (spec.md §4.2.2).
func (h *Hub) unsubscribe(id uint64) {
	h.subMu.Lock()
	ch, ok := h.subs[id]
	delete(h.subs, id)
	h.subMu.Unlock()
	if !ok {
		return
	}
	go func() {
		for range ch {
		}
	}()
}

// Run listens on the hub's socket path until ctx is cancelled or the engine
// requests a shutdown, implementing the sequence in spec.md §4.2.3 (steps
// 3-5; steps 1-2 are the engine's responsibility via Shutdown/broadcast).
func (h *Hub) Run(ctx context.Context) error {
	os.Remove(h.socketPath)
	ln, err := net.Listen("unix", h.socketPath)
	if err != nil {
		return err
	}
	h.listener = ln
	h.log.Info("ipc hub listening", "socket", h.socketPath)

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		h.acceptLoop(ctx)
	}()

	select {
	case <-ctx.Done():
	case <-h.eng.ShutdownRequested():
	}

	ln.Close()
	<-acceptDone

	drained := make(chan struct{})
	go func() {
		h.connWG.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(connectionDrainTimeout):
		h.log.Warn("not every connection drained within timeout, aborting")
	}

	os.Remove(h.socketPath)
	return nil
}

func (h *Hub) acceptLoop(ctx context.Context) {
	for {
		conn, err := h.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			h.log.Error("accept failed", "error", err)
			return
		}
		h.connWG.Add(1)
		if h.metrics != nil {
			h.metrics.SetConnectionsActive(h.activeConnCount())
		}
		go func() {
			defer h.connWG.Done()
			h.handleConnection(ctx, conn)
		}()
	}
}

func (h *Hub) activeConnCount() int {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	return len(h.subs)
}
