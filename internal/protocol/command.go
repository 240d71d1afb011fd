// Package protocol defines the wire types exchanged between clients and the
// engine core: the command taxonomy, response/broadcast actions, and the
// length-delimited framing used to carry them. Commands form a closed
// tagged union — one concrete Go type per variant, all implementing
// Command — dispatched by internal/engine with a single type switch rather
// than virtual method calls, per the source's own dispatch style.
package protocol

import (
	"encoding/gob"
	"time"
)

// Command is implemented by every request variant a client can send.
// Scope reports whether the command must (SessionScoped) or must not
// (Global) carry a session id; dispatch in internal/engine uses it to
// produce NoSessionSupplied/SessionSupplied.
type Command interface {
	isCommand()
	Scope() Scope
}

// Scope says whether a command requires, forbids, or (for none currently)
// tolerates either, a session id alongside it.
type Scope int

const (
	Global Scope = iota
	SessionScoped
)

// GlobalOnly marks commands valid only without a session id.
type GlobalOnly struct{}

func (GlobalOnly) isCommand()     {}
func (GlobalOnly) Scope() Scope { return Global }

// SessionOnly marks commands valid only with a session id.
type SessionOnly struct{}

func (SessionOnly) isCommand()     {}
func (SessionOnly) Scope() Scope { return SessionScoped }

// ---- Global handler commands (spec.md §4.1.1) ----

type AddZone struct {
	GlobalOnly
	DisplayNumber      int32
	NumConnectingZones int32
	NumConnections     int32
	ThroughTrain       bool
	FlagA              bool
	IsSBahnZone        bool
}

type AddMinutesTo struct {
	GlobalOnly
	From, To uint64
	Minutes  uint64
}

type AddRawChallenge struct {
	GlobalOnly
	Challenge RawChallengeInput
}

type SetRawChallenge struct {
	GlobalOnly
	ID        uint64
	Challenge RawChallengeInput
}

type GetRawChallenges struct{ GlobalOnly }

type DeleteAllChallenges struct{ GlobalOnly }

type AddPlayer struct {
	GlobalOnly
	Name       string
	DiscordID  *string
	Passphrase string
}

type SetPlayerName struct {
	GlobalOnly
	Player uint64
	Name   string
}

type SetPlayerPassphrase struct {
	GlobalOnly
	Player     uint64
	Passphrase string
}

type RemovePlayer struct {
	GlobalOnly
	Player uint64
}

type SetPlayerSession struct {
	GlobalOnly
	Player  uint64
	Session *uint64
}

type GetPlayerByPassphrase struct {
	GlobalOnly
	Passphrase string
}

type AddSession struct {
	GlobalOnly
	Name string
	Mode int
}

type AddChallengeSet struct {
	GlobalOnly
	Name string
}

type GetChallengeSets struct{ GlobalOnly }

type Ping struct {
	GlobalOnly
	Payload []byte
}

type GetState struct{ GlobalOnly }

type Shutdown struct{ GlobalOnly }

// RawChallengeInput is the subset of model.RawChallenge fields a client may
// set via AddRawChallenge/SetRawChallenge; id, last_edit are server-assigned.
type RawChallengeInput struct {
	Kind             int
	Sets             []uint64
	Status           int
	Title            *string
	Description      *string
	RandomPlaceMode  int
	Place            *string
	Comment          string
	Kaffskala        *uint8
	Grade            *uint8
	ZoneIDs          []uint64
	BiasSat, BiasSun float32
	WalkingTime      uint8
	StationaryTime   uint8
	AdditionalPoint  int16
	RepStart, RepEnd uint16
	PointsPerRep     int16
	StationDistance  uint16
	TimeToHB         uint8
	Departures       uint8
	DeadEnd          bool
	NoDisembark      bool
	Fixed            bool
	InPerimeterOverride *bool
	ActionKind          *int
	ActionMinutes       *uint64
	ActionCatcherMessage *string
}

// ---- Session handler commands (spec.md §4.1.2) ----

type AddTeam struct {
	SessionOnly
	Session uint64
	Name    string
}

type SetTeamName struct {
	SessionOnly
	Session, Team uint64
	Name          string
}

type SetTeamRole struct {
	SessionOnly
	Session, Team uint64
	Role          int
}

type AssignPlayerToTeam struct {
	SessionOnly
	Session, Player uint64
	Team            *uint64
}

type SendLocation struct {
	SessionOnly
	Session, Player uint64
	Latitude        float64
	Longitude       float64
	Accuracy        float64
	Timestamp       time.Time
}

type GenerateTeamChallenges struct {
	SessionOnly
	Session, Team uint64
}

type Catch struct {
	SessionOnly
	Session, CatcherTeam, CaughtTeam uint64
}

type Complete struct {
	SessionOnly
	Session, Team uint64
	ChallengeIndex int
}

type Start struct {
	SessionOnly
	Session uint64
}

type Stop struct {
	SessionOnly
	Session uint64
}

type SessionGetState struct {
	SessionOnly
	Session uint64
}

type AddChallengeToTeam struct {
	SessionOnly
	Session, Team, RawChallenge uint64
}

func init() {
	gob.Register(AddZone{})
	gob.Register(AddMinutesTo{})
	gob.Register(AddRawChallenge{})
	gob.Register(SetRawChallenge{})
	gob.Register(GetRawChallenges{})
	gob.Register(DeleteAllChallenges{})
	gob.Register(AddPlayer{})
	gob.Register(SetPlayerName{})
	gob.Register(SetPlayerPassphrase{})
	gob.Register(RemovePlayer{})
	gob.Register(SetPlayerSession{})
	gob.Register(GetPlayerByPassphrase{})
	gob.Register(AddSession{})
	gob.Register(AddChallengeSet{})
	gob.Register(GetChallengeSets{})
	gob.Register(Ping{})
	gob.Register(GetState{})
	gob.Register(Shutdown{})
	gob.Register(AddTeam{})
	gob.Register(SetTeamName{})
	gob.Register(SetTeamRole{})
	gob.Register(AssignPlayerToTeam{})
	gob.Register(SendLocation{})
	gob.Register(GenerateTeamChallenges{})
	gob.Register(Catch{})
	gob.Register(Complete{})
	gob.Register(Start{})
	gob.Register(Stop{})
	gob.Register(SessionGetState{})
	gob.Register(AddChallengeToTeam{})
}
