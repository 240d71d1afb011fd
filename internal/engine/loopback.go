package engine

import "github.com/oocraftrabbitoo/truinlag/internal/model"

// autosaveTick is the payload the scheduler delivers every autosave
// interval (spec.md §4.1.5).
type autosaveTick struct{}

// autosaveSettled is delivered once the autosave transaction (run on its
// own goroutine via scheduler.RawLoopback) has committed or failed.
type autosaveSettled struct {
	err error
}

// challengesCleared is the loopback from DeleteAllChallenges' second phase
// (spec.md §4.1.3): leftovers is empty on success, or the original list to
// reinstall on failure.
type challengesCleared struct {
	leftovers []model.RawChallenge
}
