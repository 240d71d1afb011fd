package engine

import (
	"context"
	"os"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/db"
)

const autosaveInterval = 10 * time.Second
const autosaveIdleReschedule = 3 * time.Second
const autosaveSettleDelay = 3 * time.Second

func (e *Engine) scheduleAutosave() {
	e.sched.CreateTimer(autosaveInterval, autosaveTick{})
}

// handleLoopback dispatches a scheduler-delivered payload, re-entering the
// engine identically to an external command (spec.md §4.4).
func (e *Engine) handleLoopback(ctx context.Context, payload any) {
	switch p := payload.(type) {
	case autosaveTick:
		e.onAutosaveTick(ctx)
	case autosaveSettled:
		e.onAutosaveSettled(ctx, p)
	case challengesCleared:
		e.onChallengesCleared(p)
	}
}

// onAutosaveTick implements spec.md §4.1.5.
func (e *Engine) onAutosaveTick(ctx context.Context) {
	if !e.st.changesSinceSave {
		e.sched.CreateTimer(autosaveIdleReschedule, autosaveTick{})
		return
	}

	zones := cloneMapValues(e.st.zones)
	sets := cloneMapValues(e.st.challengeSets)
	challenges := cloneMapValues(e.st.challenges)
	players := cloneMapValues(e.st.players)
	teams := cloneMapValues(e.st.teams)
	sessions := cloneMapValues(e.st.sessions)

	e.st.changesSinceSave = false
	e.st.autosaveInProgress = true

	e.sched.RawLoopback(ctx, func(ctx context.Context) any {
		start := time.Now()
		err := e.store.WithTx(ctx, func(tx *db.Tx) error {
			for _, z := range zones {
				if err := tx.Zones.Upsert(ctx, z); err != nil {
					return err
				}
			}
			for _, s := range sets {
				if err := tx.ChallengeSets.Upsert(ctx, s); err != nil {
					return err
				}
			}
			for _, c := range challenges {
				if err := tx.Challenges.Upsert(ctx, c); err != nil {
					return err
				}
			}
			for _, p := range players {
				if err := tx.Players.Upsert(ctx, p); err != nil {
					return err
				}
			}
			for _, t := range teams {
				if err := tx.Teams.Upsert(ctx, t); err != nil {
					return err
				}
			}
			for _, s := range sessions {
				if err := tx.Sessions.Upsert(ctx, s); err != nil {
					return err
				}
			}
			return nil
		})
		if m := e.metrics; m != nil {
			m.ObserveAutosave(time.Since(start).Seconds(), err != nil)
		}
		time.Sleep(autosaveSettleDelay)
		return autosaveSettled{err: err}
	})
}

func (e *Engine) onAutosaveSettled(ctx context.Context, p autosaveSettled) {
	e.st.autosaveInProgress = false
	for _, w := range e.st.autosaveWaiters {
		close(w)
	}
	e.st.autosaveWaiters = nil

	if p.err != nil {
		e.log.Error("autosave transaction failed, store may be inconsistent, terminating", "error", p.err)
		os.Exit(1)
	}

	e.sched.CreateTimer(autosaveInterval, autosaveTick{})
}

// awaitAutosaveDone registers a waiter that is closed the moment an
// in-progress autosave settles, or returns a closed channel immediately if
// no autosave is in flight. Used by DeleteAllChallenges' second phase.
func (e *Engine) awaitAutosaveDone() <-chan struct{} {
	if !e.st.autosaveInProgress {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	ch := make(chan struct{})
	e.st.autosaveWaiters = append(e.st.autosaveWaiters, ch)
	return ch
}

func cloneMapValues[T any](m map[uint64]*T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	return out
}
