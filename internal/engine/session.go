package engine

import (
	"context"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
	"github.com/oocraftrabbitoo/truinlag/internal/protocol"
	"github.com/oocraftrabbitoo/truinlag/internal/selector"
)

func (e *Engine) stepSession(ctx context.Context, sessionID uint64, cmd protocol.Command) (protocol.ResponseAction, protocol.BroadcastAction) {
	sess, ok := e.st.sessions[sessionID]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}

	switch c := cmd.(type) {
	case protocol.AddTeam:
		return e.addTeam(sess, c)
	case protocol.SetTeamName:
		return e.setTeamName(sess, c)
	case protocol.SetTeamRole:
		return e.setTeamRole(sess, c)
	case protocol.AssignPlayerToTeam:
		return e.assignPlayerToTeam(sess, c)
	case protocol.SendLocation:
		return e.sendLocation(sess, c)
	case protocol.GenerateTeamChallenges:
		return e.generateTeamChallenges(sess, c)
	case protocol.Catch:
		return e.catch(sess, c)
	case protocol.Complete:
		return e.complete(sess, c)
	case protocol.Start:
		return e.start(sess, c)
	case protocol.Stop:
		return e.stop(sess, c)
	case protocol.SessionGetState:
		return e.sessionGetState(sess)
	case protocol.AddChallengeToTeam:
		return e.addChallengeToTeam(sess, c)
	default:
		return protocol.Failure{Err: protocol.New(protocol.NotImplemented)}, nil
	}
}

func (e *Engine) teamInSession(sess *model.Session, teamID uint64) (*model.Team, bool) {
	for _, id := range sess.TeamIDs {
		if id == teamID {
			t, ok := e.st.teams[teamID]
			return t, ok
		}
	}
	return nil, false
}

// pickTeamColour returns the first configured colour not already in use by
// another team in the session, falling back to "black" if all are taken
// (spec.md §4.1.2).
func (e *Engine) pickTeamColour(sess *model.Session) string {
	used := make(map[string]bool, len(sess.TeamIDs))
	for _, id := range sess.TeamIDs {
		if t, ok := e.st.teams[id]; ok {
			used[t.Colour] = true
		}
	}
	for _, c := range sess.Config().TeamColours {
		if !used[c] {
			return c
		}
	}
	return "black"
}

func (e *Engine) addTeam(sess *model.Session, c protocol.AddTeam) (protocol.ResponseAction, protocol.BroadcastAction) {
	for _, id := range sess.TeamIDs {
		t, ok := e.st.teams[id]
		if !ok {
			continue
		}
		if similarTeamName(c.Name, t.Name) {
			return protocol.Failure{Err: protocol.Newf(protocol.TeamExists, "%s", t.Name)}, nil
		}
	}

	id := e.st.nextTeamID
	e.st.nextTeamID++
	e.st.teams[id] = &model.Team{
		ID:                   id,
		Name:                 c.Name,
		Role:                 model.Runner,
		Colour:               e.pickTeamColour(sess),
		PlayerLocationCounts: make(map[uint64]*model.LocationCounts),
	}
	sess.TeamIDs = append(sess.TeamIDs, id)
	e.markChanged()
	return protocol.IDResponse{ID: id}, nil
}

func (e *Engine) setTeamName(sess *model.Session, c protocol.SetTeamName) (protocol.ResponseAction, protocol.BroadcastAction) {
	team, ok := e.teamInSession(sess, c.Team)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	for _, id := range sess.TeamIDs {
		if id == c.Team {
			continue
		}
		if other, ok := e.st.teams[id]; ok && similarTeamName(c.Name, other.Name) {
			return protocol.Failure{Err: protocol.Newf(protocol.TeamExists, "%s", other.Name)}, nil
		}
	}
	team.Name = c.Name
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) setTeamRole(sess *model.Session, c protocol.SetTeamRole) (protocol.ResponseAction, protocol.BroadcastAction) {
	team, ok := e.teamInSession(sess, c.Team)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	role := model.TeamRole(c.Role)
	if team.Role == role {
		return protocol.Success{}, nil
	}
	team.Role = role
	e.markChanged()
	if role == model.Catcher {
		return protocol.Success{}, protocol.TeamMadeCatcher{Session: sess.ID, Team: team.ID}
	}
	return protocol.Success{}, protocol.TeamMadeRunner{Session: sess.ID, Team: team.ID}
}

func (e *Engine) assignPlayerToTeam(sess *model.Session, c protocol.AssignPlayerToTeam) (protocol.ResponseAction, protocol.BroadcastAction) {
	player, ok := e.st.players[c.Player]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	if c.Team != nil {
		if _, ok := e.teamInSession(sess, *c.Team); !ok {
			return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
		}
	}

	var from *uint64
	for _, id := range sess.TeamIDs {
		t, ok := e.st.teams[id]
		if !ok {
			continue
		}
		if removed := removeUint64(t.PlayerIDs, c.Player); len(removed) != len(t.PlayerIDs) {
			tid := id
			from = &tid
			t.PlayerIDs = removed
			delete(t.PlayerLocationCounts, c.Player)
		}
	}

	if c.Team != nil {
		team := e.st.teams[*c.Team]
		team.PlayerIDs = append(team.PlayerIDs, c.Player)
		if team.PlayerLocationCounts == nil {
			team.PlayerLocationCounts = make(map[uint64]*model.LocationCounts)
		}
		team.PlayerLocationCounts[c.Player] = &model.LocationCounts{}
	}
	player.SessionID = &sess.ID
	e.markChanged()
	return protocol.Success{}, protocol.PlayerChangedTeam{Session: sess.ID, Player: c.Player, From: from, To: c.Team}
}

func (e *Engine) sendLocation(sess *model.Session, c protocol.SendLocation) (protocol.ResponseAction, protocol.BroadcastAction) {
	var team *model.Team
	for _, id := range sess.TeamIDs {
		t, ok := e.st.teams[id]
		if !ok {
			continue
		}
		for _, pid := range t.PlayerIDs {
			if pid == c.Player {
				team = t
				break
			}
		}
		if team != nil {
			break
		}
	}
	if team == nil {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}

	counts, ok := team.PlayerLocationCounts[c.Player]
	if !ok {
		counts = &model.LocationCounts{}
		team.PlayerLocationCounts[c.Player] = counts
	}
	counts.Total++

	next := model.Location{Latitude: c.Latitude, Longitude: c.Longitude, Accuracy: c.Accuracy, Timestamp: c.Timestamp}
	if !acceptLocation(team.CurrentLocation, next) {
		return protocol.Success{}, nil
	}
	counts.Accepted++

	var lastHistory *model.Location
	if n := len(team.LocationHistory); n > 0 {
		lastHistory = &team.LocationHistory[n-1]
	}
	if shouldAppendHistory(lastHistory, next) {
		team.LocationHistory = append(team.LocationHistory, next)
	}
	team.CurrentLocation = &next
	team.LocationSendingPlayer = &c.Player
	e.markChanged()
	return protocol.Success{}, nil
}

// generateTeamChallenges delegates to internal/selector for the full
// period-determination, filter-cascade, zone-placement and point-calculation
// pipeline (spec.md §4.3), replacing the team's open challenges wholesale.
func (e *Engine) generateTeamChallenges(sess *model.Session, c protocol.GenerateTeamChallenges) (protocol.ResponseAction, protocol.BroadcastAction) {
	team, ok := e.teamInSession(sess, c.Team)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}

	var pointsToTop *uint64
	for _, id := range sess.TeamIDs {
		other, ok := e.st.teams[id]
		if !ok || other.ID == team.ID {
			continue
		}
		if pointsToTop == nil || other.Points > *pointsToTop {
			p := other.Points
			pointsToTop = &p
		}
	}

	team.OpenChallenges = selector.Generate(e.log, sess.Config(), team, e.st.challenges, e.st.zones, pointsToTop, time.Now())
	e.markChanged()
	return protocol.Success{}, nil
}

// openChallengeFromRaw materializes a raw challenge into a team-assigned
// open challenge: point calculation per spec.md §4.3.5 and title/description
// fallback to the session's defaults when the raw challenge leaves them
// unset. The full slot-schedule/zone-placement/Gaussian-jitter pass lives in
// internal/selector; this is the subset addChallengeToTeam needs for a
// single ad-hoc assignment.
func openChallengeFromRaw(rc *model.RawChallenge, cfg config.Config) model.OpenChallenge {
	points := cfg.PointsPerWalkingMinute*float64(rc.WalkingTime) + cfg.PointsPerStationaryMinute*float64(rc.StationaryTime)
	if rc.Kaffskala != nil {
		points += cfg.PointsPerKaffness * float64(*rc.Kaffskala)
	}
	if rc.Grade != nil {
		points += cfg.PointsPerGrade * float64(*rc.Grade)
	}
	points += float64(rc.AdditionalPoint)

	title := cfg.DefaultChallengeTitle
	if rc.Title != nil {
		title = *rc.Title
	}
	description := cfg.DefaultChallengeDescription
	if rc.Description != nil {
		description = *rc.Description
	}

	oc := model.OpenChallenge{
		ID:          rc.ID,
		Title:       title,
		Description: description,
		Points:      uint64(points),
	}
	if len(rc.ZoneIDs) > 0 {
		zone := rc.ZoneIDs[0]
		oc.Zone = &zone
	}
	if rc.Action != nil {
		now := time.Now()
		oa := &model.OpenAction{Kind: rc.Action.Kind, CatcherMessage: rc.Action.CatcherMessage}
		minutes := time.Duration(0)
		if rc.Action.Minutes != nil {
			minutes = time.Duration(*rc.Action.Minutes) * time.Minute
		}
		switch rc.Action.Kind {
		case model.ActionUncompletableMinutes:
			oa.UncompletableUntil = now.Add(minutes)
		case model.ActionTrap:
			oa.CompletableAfter = now.Add(minutes)
		}
		oc.Action = oa
	}
	return oc
}

func (e *Engine) catch(sess *model.Session, c protocol.Catch) (protocol.ResponseAction, protocol.BroadcastAction) {
	catcher, ok := e.teamInSession(sess, c.CatcherTeam)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	caught, ok := e.teamInSession(sess, c.CaughtTeam)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	if catcher.Role != model.Catcher || caught.Role != model.Runner {
		return protocol.Failure{Err: protocol.Newf(protocol.BadData, "not a valid catch")}, nil
	}

	now := time.Now()
	bounty := caught.Bounty
	caught.BeCaught(now, catcher.ID)
	catcher.HaveCaught(now, bounty, caught.ID)

	gp := now.Add(sess.Config().GracePeriodDuration)
	caught.GracePeriodEnd = &gp

	e.markChanged()
	return protocol.Success{}, protocol.TeamMadeRunner{Session: sess.ID, Team: catcher.ID}
}

func (e *Engine) complete(sess *model.Session, c protocol.Complete) (protocol.ResponseAction, protocol.BroadcastAction) {
	team, ok := e.teamInSession(sess, c.Team)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	_, ok = team.CompleteChallenge(time.Now(), c.ChallengeIndex, sess.Config().BountyPercentage)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) start(sess *model.Session, c protocol.Start) (protocol.ResponseAction, protocol.BroadcastAction) {
	if sess.InGame != nil && *sess.InGame {
		return protocol.Failure{Err: protocol.New(protocol.GameInProgress)}, nil
	}
	inGame := true
	sess.InGame = &inGame
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) stop(sess *model.Session, c protocol.Stop) (protocol.ResponseAction, protocol.BroadcastAction) {
	inGame := false
	sess.InGame = &inGame
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) sessionGetState(sess *model.Session) (protocol.ResponseAction, protocol.BroadcastAction) {
	teams := make([]model.Team, 0, len(sess.TeamIDs))
	for _, id := range sess.TeamIDs {
		if t, ok := e.st.teams[id]; ok {
			teams = append(teams, *t)
		}
	}
	return protocol.SessionStateResponse{Session: *sess, Teams: teams}, nil
}

func (e *Engine) addChallengeToTeam(sess *model.Session, c protocol.AddChallengeToTeam) (protocol.ResponseAction, protocol.BroadcastAction) {
	if sess.InGame != nil && *sess.InGame {
		return protocol.Failure{Err: protocol.New(protocol.GameInProgress)}, nil
	}
	team, ok := e.teamInSession(sess, c.Team)
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	rc, ok := e.st.challenges[c.RawChallenge]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	team.OpenChallenges = append(team.OpenChallenges, openChallengeFromRaw(rc, sess.Config()))
	e.markChanged()
	return protocol.Success{}, nil
}
