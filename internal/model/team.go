package model

import "time"

// TeamRole is a team's current role in the pursuit.
type TeamRole int

const (
	Runner TeamRole = iota
	Catcher
)

func (r TeamRole) String() string {
	if r == Catcher {
		return "Catcher"
	}
	return "Runner"
}

// Team is a single team inside a session.
type Team struct {
	ID    uint64   `json:"id"`
	Name  string   `json:"name"`
	Role  TeamRole `json:"role"`
	Colour string  `json:"colour"`

	Points uint64 `json:"points"`
	Bounty uint64 `json:"bounty"`

	CurrentZoneID        uint64     `json:"current_zone_id"`
	CurrentLocation      *Location  `json:"current_location,omitempty"`
	LocationHistory      []Location `json:"location_history"`
	LocationSendingPlayer *uint64   `json:"location_sending_player,omitempty"`

	OpenChallenges []OpenChallenge `json:"open_challenges"`
	Periods        []Period       `json:"periods"`

	GracePeriodEnd *time.Time `json:"grace_period_end,omitempty"`

	// PlayerLocationCounts is keyed by player id.
	PlayerLocationCounts map[uint64]*LocationCounts `json:"player_location_counts"`

	PlayerIDs []uint64 `json:"player_ids"`
}

// HasCompleted reports whether the team completed the raw challenge with the
// given id at some point during the current game (used by the selector's
// not-already-completed filter).
func (t *Team) HasCompleted(rawID uint64) bool {
	for _, p := range t.Periods {
		if p.Kind == PeriodCompletedChallenge && p.ChallengeRawID == rawID {
			return true
		}
	}
	return false
}

// NewPeriod appends a period closing over the team's location history up to
// its current length, with EndTime = now. It mutates LocationHistory to
// append the current location first, if any, matching the source's
// new_period behavior of "snapshot current location into history on period
// close". If nothing was recorded since the previous period, a zero Location
// is appended so the new period still covers at least one entry.
func (t *Team) NewPeriod(now time.Time, kind PeriodKind, fill func(*Period)) {
	if t.CurrentLocation != nil {
		t.LocationHistory = append(t.LocationHistory, *t.CurrentLocation)
	}
	start := 0
	if n := len(t.Periods); n > 0 {
		start = t.Periods[n-1].LocationEndIndex + 1
	}
	if len(t.LocationHistory) <= start {
		t.LocationHistory = append(t.LocationHistory, Location{})
	}
	p := Period{
		Kind:               kind,
		EndTime:            now,
		LocationStartIndex: start,
		LocationEndIndex:   len(t.LocationHistory) - 1,
	}
	if fill != nil {
		fill(&p)
	}
	t.Periods = append(t.Periods, p)
}

// BeCaught applies the state transition for a team that was just caught.
func (t *Team) BeCaught(now time.Time, catcherTeamID uint64) {
	t.GracePeriodEnd = nil
	t.OpenChallenges = nil
	t.Role = Catcher
	bounty := t.Bounty
	t.NewPeriod(now, PeriodCaught, func(p *Period) {
		p.OtherTeamID = &catcherTeamID
		p.Bounty = bounty
	})
	t.Bounty = 0
}

// HaveCaught applies the state transition for a team that just caught
// another team. Challenge generation and the grace-period timer are the
// caller's responsibility (internal/engine), since both need engine-wide
// context this package does not have.
func (t *Team) HaveCaught(now time.Time, bounty uint64, caughtTeamID uint64) {
	t.Role = Runner
	t.Points += bounty
	t.Bounty = 0
	t.NewPeriod(now, PeriodCatcher, func(p *Period) {
		p.OtherTeamID = &caughtTeamID
		p.Bounty = bounty
	})
}

// CompleteChallenge applies the bookkeeping side of completing challenge
// index idx: awarding points, accruing bounty, logging the period, and
// relocating to the challenge's zone if it had one. It returns the completed
// challenge. Challenge regeneration is the caller's responsibility.
func (t *Team) CompleteChallenge(now time.Time, idx int, bountyPercentage float64) (OpenChallenge, bool) {
	if idx < 0 || idx >= len(t.OpenChallenges) {
		return OpenChallenge{}, false
	}
	completed := t.OpenChallenges[idx]
	t.Points += completed.Points
	t.Bounty += uint64(float64(completed.Points) * bountyPercentage)
	t.NewPeriod(now, PeriodCompletedChallenge, func(p *Period) {
		p.ChallengeTitle = completed.Title
		p.ChallengeDescription = completed.Description
		p.ChallengeZone = completed.Zone
		p.ChallengePoints = completed.Points
		p.ChallengeRawID = completed.ID
	})
	if completed.Zone != nil {
		t.CurrentZoneID = *completed.Zone
	}
	return completed, true
}
