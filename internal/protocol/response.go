package protocol

import (
	"encoding/gob"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// ResponseAction is implemented by every value sent back to the requesting
// client as the result of a single command.
type ResponseAction interface {
	isResponse()
}

// Success is returned by commands with no interesting payload.
type Success struct{}

func (Success) isResponse() {}

// Failure wraps an *Error as a response action.
type Failure struct {
	Err *Error
}

func (Failure) isResponse() {}

type RawChallengeList struct {
	Challenges []model.RawChallenge
}

func (RawChallengeList) isResponse() {}

type PlayerResponse struct {
	Player model.Player
}

func (PlayerResponse) isResponse() {}

type ChallengeSetList struct {
	Sets []model.ChallengeSet
}

func (ChallengeSetList) isResponse() {}

type StateResponse struct {
	Sessions []model.Session
	Players  []model.Player
}

func (StateResponse) isResponse() {}

type SessionStateResponse struct {
	Session model.Session
	Teams   []model.Team
}

func (SessionStateResponse) isResponse() {}

type IDResponse struct {
	ID uint64
}

func (IDResponse) isResponse() {}

func init() {
	gob.Register(Success{})
	gob.Register(Failure{})
	gob.Register(RawChallengeList{})
	gob.Register(PlayerResponse{})
	gob.Register(ChallengeSetList{})
	gob.Register(StateResponse{})
	gob.Register(SessionStateResponse{})
	gob.Register(IDResponse{})
}
