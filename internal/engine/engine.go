// Package engine implements the single-owner, serialized game-state
// mutator described in spec.md §4.1: one goroutine draining a command
// queue, dispatching to the global or session handler, and periodically
// snapshotting to the store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oocraftrabbitoo/truinlag/internal/db"
	"github.com/oocraftrabbitoo/truinlag/internal/metrics"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
	"github.com/oocraftrabbitoo/truinlag/internal/protocol"
	"github.com/oocraftrabbitoo/truinlag/internal/scheduler"
)

// state is the engine's working copy of every entity collection, keyed by
// id. It is the tuple named in spec.md §3 "Engine state".
type state struct {
	zones         map[uint64]*model.Zone
	challengeSets map[uint64]*model.ChallengeSet
	challenges    map[uint64]*model.RawChallenge
	players       map[uint64]*model.Player
	sessions      map[uint64]*model.Session
	teams         map[uint64]*model.Team

	nextZoneID, nextSetID, nextChallengeID uint64
	nextPlayerID, nextSessionID, nextTeamID uint64

	autosaveInProgress bool
	changesSinceSave   bool
	autosaveWaiters    []chan struct{}
}

func newState() state {
	return state{
		zones:         make(map[uint64]*model.Zone),
		challengeSets: make(map[uint64]*model.ChallengeSet),
		challenges:    make(map[uint64]*model.RawChallenge),
		players:       make(map[uint64]*model.Player),
		sessions:      make(map[uint64]*model.Session),
		teams:         make(map[uint64]*model.Team),
	}
}

// Engine is the sole mutator of game state.
type Engine struct {
	store   *db.DB
	sched   *scheduler.Scheduler
	metrics *metrics.Metrics
	log     *slog.Logger

	broadcast func(protocol.BroadcastAction)

	inbound  chan Request
	loopback chan any

	st state

	pendingDeleteAllReplies []chan Result
	shutdownCh              chan struct{}
	shutdownOnce            bool
}

// New constructs an Engine. broadcast is called (from the engine's own
// goroutine) whenever a command produces a broadcast-worthy event.
func New(store *db.DB, log *slog.Logger, m *metrics.Metrics, broadcast func(protocol.BroadcastAction)) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		store:     store,
		metrics:   m,
		log:       log,
		broadcast: broadcast,
		inbound:    make(chan Request, 256),
		loopback:   make(chan any, 64),
		st:         newState(),
		shutdownCh: make(chan struct{}),
	}
	e.sched = scheduler.New(func(payload any) { e.loopback <- payload }, log.With("component", "scheduler"))
	return e
}

// SetBroadcast (re)binds the broadcast callback. The IPC hub needs a handle
// to the engine to construct its own broadcast fan-out function, and the
// engine needs that function before Run starts — so construction wires a
// nil/no-op broadcast and cmd/truinserver calls this once the hub exists.
func (e *Engine) SetBroadcast(fn func(protocol.BroadcastAction)) {
	e.broadcast = fn
}

// ShutdownRequested returns a channel closed once a Shutdown command has
// been processed, for cmd/truinserver to trigger the rest of the shutdown
// sequence (spec.md §4.2.3).
func (e *Engine) ShutdownRequested() <-chan struct{} {
	return e.shutdownCh
}

func (e *Engine) requestShutdown() {
	if e.shutdownOnce {
		return
	}
	e.shutdownOnce = true
	close(e.shutdownCh)
}

// Load performs the startup full-snapshot read described in spec.md
// §4.1.6: every collection is read into the in-memory working copy.
func (e *Engine) Load(ctx context.Context) error {
	zones, err := e.store.Zones.List(ctx)
	if err != nil {
		return err
	}
	for i := range zones {
		z := zones[i]
		e.st.zones[z.ID] = &z
		if z.ID >= e.st.nextZoneID {
			e.st.nextZoneID = z.ID + 1
		}
	}

	sets, err := e.store.ChallengeSets.List(ctx)
	if err != nil {
		return err
	}
	for i := range sets {
		s := sets[i]
		e.st.challengeSets[s.ID] = &s
		if s.ID >= e.st.nextSetID {
			e.st.nextSetID = s.ID + 1
		}
	}

	challenges, err := e.store.Challenges.List(ctx)
	if err != nil {
		return err
	}
	for i := range challenges {
		c := challenges[i]
		e.st.challenges[c.ID] = &c
		if c.ID >= e.st.nextChallengeID {
			e.st.nextChallengeID = c.ID + 1
		}
	}

	players, err := e.store.Players.List(ctx)
	if err != nil {
		return err
	}
	for i := range players {
		p := players[i]
		e.st.players[p.ID] = &p
		if p.ID >= e.st.nextPlayerID {
			e.st.nextPlayerID = p.ID + 1
		}
	}

	teams, err := e.store.Teams.List(ctx)
	if err != nil {
		return err
	}
	for i := range teams {
		tm := teams[i]
		e.st.teams[tm.ID] = &tm
		if tm.ID >= e.st.nextTeamID {
			e.st.nextTeamID = tm.ID + 1
		}
	}

	sessions, err := e.store.Sessions.List(ctx)
	if err != nil {
		return err
	}
	for i := range sessions {
		s := sessions[i]
		e.st.sessions[s.ID] = &s
		if s.ID >= e.st.nextSessionID {
			e.st.nextSessionID = s.ID + 1
		}
	}

	e.log.Info("loaded snapshot",
		"zones", len(e.st.zones),
		"challenge_sets", len(e.st.challengeSets),
		"challenges", len(e.st.challenges),
		"players", len(e.st.players),
		"teams", len(e.st.teams),
		"sessions", len(e.st.sessions),
	)
	return nil
}

// Submit enqueues an external command and returns a single-use channel
// that receives its result exactly once.
func (e *Engine) Submit(session *uint64, cmd protocol.Command) chan Result {
	reply := make(chan Result, 1)
	e.inbound <- Request{Session: session, Command: cmd, Reply: reply}
	return reply
}

// Run drains the command queue until ctx is cancelled. It is the engine's
// one logical thread: no other goroutine may touch e.st.
func (e *Engine) Run(ctx context.Context) {
	e.sched.Start()
	e.scheduleAutosave()

	for {
		select {
		case <-ctx.Done():
			e.sched.Stop(context.Background())
			return
		case req := <-e.inbound:
			e.handleRequest(ctx, req)
		case payload := <-e.loopback:
			e.handleLoopback(ctx, payload)
		}
	}
}

func (e *Engine) handleRequest(ctx context.Context, req Request) {
	reqID := uuid.NewString()
	log := e.log.With("request", reqID)

	// DeleteAllChallenges answers asynchronously once its loopback settles
	// (spec.md §4.1.3): it owns req.Reply itself rather than answering here.
	if _, ok := req.Command.(protocol.DeleteAllChallenges); ok {
		if req.Session != nil {
			if req.Reply != nil {
				req.Reply <- Result{Action: protocol.Failure{Err: protocol.New(protocol.SessionSupplied)}}
			}
			return
		}
		e.beginDeleteAllChallenges(ctx, req.Reply)
		return
	}

	start := time.Now()
	action, broadcastAction := e.step(ctx, req.Session, req.Command)

	if m := e.metrics; m != nil {
		m.ObserveCommand(commandKindName(req.Command), resultOutcome(action))
		m.ObserveCommandDuration(commandKindName(req.Command), time.Since(start).Seconds())
	}
	log.Debug("command dispatched", "command", commandKindName(req.Command))

	if req.Reply != nil {
		req.Reply <- Result{Action: action, Broadcast: broadcastAction}
	}
	if broadcastAction != nil && e.broadcast != nil {
		e.broadcast(broadcastAction)
	}
}

// step is the single dispatch point named in spec.md §4.1: "step(command)
// → (response, scheduler_requests)". scheduler_requests are issued as a
// side effect (timer/alarm/loopback creation) rather than returned, since
// Go's scheduler package already queues them independently.
func (e *Engine) step(ctx context.Context, session *uint64, cmd protocol.Command) (protocol.ResponseAction, protocol.BroadcastAction) {
	switch cmd.Scope() {
	case protocol.Global:
		if session != nil {
			return protocol.Failure{Err: protocol.New(protocol.SessionSupplied)}, nil
		}
		return e.stepGlobal(ctx, cmd)
	default:
		if session == nil {
			return protocol.Failure{Err: protocol.New(protocol.NoSessionSupplied)}, nil
		}
		return e.stepSession(ctx, *session, cmd)
	}
}

func resultOutcome(a protocol.ResponseAction) string {
	if _, ok := a.(protocol.Failure); ok {
		return "failure"
	}
	return "success"
}

func commandKindName(cmd protocol.Command) string {
	if cmd == nil {
		return "unknown"
	}
	return fmt.Sprintf("%T", cmd)
}
