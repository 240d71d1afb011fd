package protocol

import "encoding/gob"

// BroadcastAction is implemented by every event fanned out to all connected
// clients.
type BroadcastAction interface {
	isBroadcast()
}

type Pinged struct{ Payload []byte }

func (Pinged) isBroadcast() {}

type PlayerChangedSession struct {
	Player         uint64
	From, To       *uint64
}

func (PlayerChangedSession) isBroadcast() {}

type PlayerChangedTeam struct {
	Session        uint64
	Player         uint64
	From, To       *uint64
}

func (PlayerChangedTeam) isBroadcast() {}

type TeamMadeCatcher struct {
	Session, Team uint64
}

func (TeamMadeCatcher) isBroadcast() {}

type TeamMadeRunner struct {
	Session, Team uint64
}

func (TeamMadeRunner) isBroadcast() {}

// ShutdownBroadcast tells every connection the engine is shutting down.
type ShutdownBroadcast struct{}

func (ShutdownBroadcast) isBroadcast() {}

func init() {
	gob.Register(Pinged{})
	gob.Register(PlayerChangedSession{})
	gob.Register(PlayerChangedTeam{})
	gob.Register(TeamMadeCatcher{})
	gob.Register(TeamMadeRunner{})
	gob.Register(ShutdownBroadcast{})
}
