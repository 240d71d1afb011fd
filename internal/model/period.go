package model

import "time"

// PeriodKind discriminates the tagged Period union.
type PeriodKind int

const (
	PeriodTrophy PeriodKind = iota
	PeriodCaught
	PeriodCatcher
	PeriodCompletedChallenge
)

// Period is a log record of something a team did, closed over a slice of its
// location history. Periods are ordered by EndTime (non-decreasing, per
// spec.md §8).
type Period struct {
	Kind    PeriodKind `json:"kind"`
	EndTime time.Time  `json:"end_time"`

	// LocationStartIndex/LocationEndIndex bound the slice of the team's
	// location_history this period closes over. Invariant:
	// LocationStartIndex <= LocationEndIndex (spec.md §8).
	LocationStartIndex int `json:"location_start_index"`
	LocationEndIndex   int `json:"location_end_index"`

	// Caught/Catcher payload.
	OtherTeamID *uint64 `json:"other_team_id,omitempty"`
	Bounty      uint64  `json:"bounty,omitempty"`

	// CompletedChallenge payload.
	ChallengeTitle       string  `json:"challenge_title,omitempty"`
	ChallengeDescription string  `json:"challenge_description,omitempty"`
	ChallengeZone        *uint64 `json:"challenge_zone,omitempty"`
	ChallengePoints       uint64  `json:"challenge_points,omitempty"`
	ChallengeRawID        uint64  `json:"challenge_raw_id,omitempty"`
}
