package engine

import (
	"context"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/db"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
	"github.com/oocraftrabbitoo/truinlag/internal/protocol"
)

func (e *Engine) stepGlobal(ctx context.Context, cmd protocol.Command) (protocol.ResponseAction, protocol.BroadcastAction) {
	switch c := cmd.(type) {
	case protocol.AddZone:
		return e.addZone(c)
	case protocol.AddMinutesTo:
		return e.addMinutesTo(c)
	case protocol.AddRawChallenge:
		return e.addRawChallenge(c)
	case protocol.SetRawChallenge:
		return e.setRawChallenge(c)
	case protocol.GetRawChallenges:
		return e.getRawChallenges()
	case protocol.AddPlayer:
		return e.addPlayer(c)
	case protocol.SetPlayerName:
		return e.setPlayerName(c)
	case protocol.SetPlayerPassphrase:
		return e.setPlayerPassphrase(c)
	case protocol.RemovePlayer:
		return e.removePlayer(c)
	case protocol.SetPlayerSession:
		return e.setPlayerSession(c)
	case protocol.GetPlayerByPassphrase:
		return e.getPlayerByPassphrase(c)
	case protocol.AddSession:
		return e.addSession(c)
	case protocol.AddChallengeSet:
		return e.addChallengeSet(c)
	case protocol.GetChallengeSets:
		return e.getChallengeSets()
	case protocol.Ping:
		return protocol.Success{}, protocol.Pinged{Payload: c.Payload}
	case protocol.GetState:
		return e.getState()
	case protocol.Shutdown:
		return e.shutdown()
	default:
		return protocol.Failure{Err: protocol.New(protocol.NotImplemented)}, nil
	}
}

func (e *Engine) addZone(c protocol.AddZone) (protocol.ResponseAction, protocol.BroadcastAction) {
	id := e.st.nextZoneID
	e.st.nextZoneID++
	e.st.zones[id] = &model.Zone{
		ID:                 id,
		DisplayNumber:      c.DisplayNumber,
		NumConnectingZones: c.NumConnectingZones,
		NumConnections:     c.NumConnections,
		ThroughTrain:       c.ThroughTrain,
		FlagA:              c.FlagA,
		IsSBahnZone:        c.IsSBahnZone,
		MinutesTo:          make(map[uint64]uint64),
	}
	e.markChanged()
	return protocol.IDResponse{ID: id}, nil
}

func (e *Engine) addMinutesTo(c protocol.AddMinutesTo) (protocol.ResponseAction, protocol.BroadcastAction) {
	from, ok := e.st.zones[c.From]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	if _, ok := e.st.zones[c.To]; !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	from.MinutesTo[c.To] = c.Minutes
	e.markChanged()
	return protocol.Success{}, nil
}

func rawChallengeFromInput(id uint64, in protocol.RawChallengeInput, now time.Time) model.RawChallenge {
	rc := model.RawChallenge{
		ID:                  id,
		Kind:                model.ChallengeKind(in.Kind),
		Sets:                in.Sets,
		Status:              model.ChallengeStatus(in.Status),
		Title:               in.Title,
		Description:         in.Description,
		RandomPlaceMode:     model.RandomPlaceMode(in.RandomPlaceMode),
		Place:               in.Place,
		Comment:             in.Comment,
		Kaffskala:           in.Kaffskala,
		Grade:               in.Grade,
		ZoneIDs:             in.ZoneIDs,
		BiasSat:             in.BiasSat,
		BiasSun:             in.BiasSun,
		WalkingTime:         in.WalkingTime,
		StationaryTime:      in.StationaryTime,
		AdditionalPoint:     in.AdditionalPoint,
		Repetitions:         model.U16Range{Start: in.RepStart, End: in.RepEnd},
		PointsPerRep:        in.PointsPerRep,
		StationDistance:     in.StationDistance,
		TimeToHB:            in.TimeToHB,
		Departures:          in.Departures,
		DeadEnd:             in.DeadEnd,
		NoDisembark:         in.NoDisembark,
		Fixed:               in.Fixed,
		InPerimeterOverride: in.InPerimeterOverride,
		LastEdit:            now,
	}
	if in.ActionKind != nil {
		rc.Action = &model.ChallengeAction{
			Kind:           model.ChallengeActionKind(*in.ActionKind),
			Minutes:        in.ActionMinutes,
			CatcherMessage: in.ActionCatcherMessage,
		}
	}
	return rc
}

func (e *Engine) addRawChallenge(c protocol.AddRawChallenge) (protocol.ResponseAction, protocol.BroadcastAction) {
	id := e.st.nextChallengeID
	e.st.nextChallengeID++
	rc := rawChallengeFromInput(id, c.Challenge, time.Now())
	e.st.challenges[id] = &rc
	e.markChanged()
	return protocol.IDResponse{ID: id}, nil
}

func (e *Engine) setRawChallenge(c protocol.SetRawChallenge) (protocol.ResponseAction, protocol.BroadcastAction) {
	if c.ID == 0 {
		return protocol.Failure{Err: protocol.Newf(protocol.BadData, "missing challenge id")}, nil
	}
	if _, ok := e.st.challenges[c.ID]; !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	rc := rawChallengeFromInput(c.ID, c.Challenge, time.Now())
	e.st.challenges[c.ID] = &rc
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) getRawChallenges() (protocol.ResponseAction, protocol.BroadcastAction) {
	return protocol.RawChallengeList{Challenges: cloneMapValues(e.st.challenges)}, nil
}

// beginDeleteAllChallenges implements the two-phase operation in spec.md
// §4.1.3. Phase 1 (synchronous): take ownership of the challenge list,
// replacing it with empty. Phase 2 (async, via RawLoopback): await any
// in-progress autosave, delete every challenge document, and re-enter the
// engine with the outcome. The reply promised to the client is answered
// from that second phase, not from this call — reply is stashed and
// delivered later by onChallengesCleared.
func (e *Engine) beginDeleteAllChallenges(ctx context.Context, reply chan Result) {
	leftovers := cloneMapValues(e.st.challenges)
	e.st.challenges = make(map[uint64]*model.RawChallenge)
	e.markChanged()

	if reply != nil {
		e.pendingDeleteAllReplies = append(e.pendingDeleteAllReplies, reply)
	}

	done := e.awaitAutosaveDone()
	e.sched.RawLoopback(ctx, func(ctx context.Context) any {
		<-done
		delErr := e.store.WithTx(ctx, func(tx *db.Tx) error {
			return tx.Challenges.DeleteAll(ctx)
		})
		if delErr != nil {
			e.log.Error("deleting all challenges failed", "error", delErr)
			return challengesCleared{leftovers: leftovers}
		}
		return challengesCleared{}
	})
}

func (e *Engine) onChallengesCleared(p challengesCleared) {
	var result Result
	if len(p.leftovers) > 0 {
		for i := range p.leftovers {
			c := p.leftovers[i]
			e.st.challenges[c.ID] = &c
		}
		e.markChanged()
		result = Result{Action: protocol.Failure{Err: protocol.New(protocol.InternalError)}}
	} else {
		result = Result{Action: protocol.Success{}}
	}

	for _, reply := range e.pendingDeleteAllReplies {
		reply <- result
	}
	e.pendingDeleteAllReplies = nil
}

func (e *Engine) addPlayer(c protocol.AddPlayer) (protocol.ResponseAction, protocol.BroadcastAction) {
	if c.Passphrase != "" {
		for _, p := range e.st.players {
			if p.Passphrase == c.Passphrase {
				return protocol.Failure{Err: protocol.New(protocol.AlreadyExists)}, nil
			}
		}
	}
	id := e.st.nextPlayerID
	e.st.nextPlayerID++
	e.st.players[id] = &model.Player{ID: id, Name: c.Name, DiscordID: c.DiscordID, Passphrase: c.Passphrase}
	e.markChanged()
	return protocol.IDResponse{ID: id}, nil
}

func (e *Engine) setPlayerName(c protocol.SetPlayerName) (protocol.ResponseAction, protocol.BroadcastAction) {
	p, ok := e.st.players[c.Player]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	p.Name = c.Name
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) setPlayerPassphrase(c protocol.SetPlayerPassphrase) (protocol.ResponseAction, protocol.BroadcastAction) {
	p, ok := e.st.players[c.Player]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	if c.Passphrase != "" {
		for id, other := range e.st.players {
			if id != c.Player && other.Passphrase == c.Passphrase {
				return protocol.Failure{Err: protocol.New(protocol.AlreadyExists)}, nil
			}
		}
	}
	p.Passphrase = c.Passphrase
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) removePlayer(c protocol.RemovePlayer) (protocol.ResponseAction, protocol.BroadcastAction) {
	p, ok := e.st.players[c.Player]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	p.Passphrase = ""
	p.SessionID = nil
	for _, t := range e.st.teams {
		t.PlayerIDs = removeUint64(t.PlayerIDs, c.Player)
		delete(t.PlayerLocationCounts, c.Player)
	}
	e.markChanged()
	return protocol.Success{}, nil
}

func (e *Engine) setPlayerSession(c protocol.SetPlayerSession) (protocol.ResponseAction, protocol.BroadcastAction) {
	p, ok := e.st.players[c.Player]
	if !ok {
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	}
	from := p.SessionID
	if equalUint64Ptr(from, c.Session) {
		return protocol.Success{}, nil
	}
	if from != nil {
		if sess, ok := e.st.sessions[*from]; ok {
			for _, tid := range sess.TeamIDs {
				if t, ok := e.st.teams[tid]; ok {
					t.PlayerIDs = removeUint64(t.PlayerIDs, c.Player)
				}
			}
		}
	}
	p.SessionID = c.Session
	e.markChanged()
	return protocol.Success{}, protocol.PlayerChangedSession{Player: c.Player, From: from, To: c.Session}
}

func (e *Engine) getPlayerByPassphrase(c protocol.GetPlayerByPassphrase) (protocol.ResponseAction, protocol.BroadcastAction) {
	var matches []model.Player
	for _, p := range e.st.players {
		if p.Passphrase != "" && p.Passphrase == c.Passphrase {
			matches = append(matches, *p)
		}
	}
	switch len(matches) {
	case 0:
		return protocol.Failure{Err: protocol.New(protocol.NotFound)}, nil
	case 1:
		return protocol.PlayerResponse{Player: matches[0]}, nil
	default:
		return protocol.Failure{Err: protocol.New(protocol.AmbiguousData)}, nil
	}
}

func (e *Engine) addSession(c protocol.AddSession) (protocol.ResponseAction, protocol.BroadcastAction) {
	for _, s := range e.st.sessions {
		if s.Name == c.Name {
			return protocol.Failure{Err: protocol.New(protocol.AlreadyExists)}, nil
		}
	}
	id := e.st.nextSessionID
	e.st.nextSessionID++
	e.st.sessions[id] = &model.Session{ID: id, Name: c.Name, Mode: model.SessionMode(c.Mode)}
	e.markChanged()
	return protocol.IDResponse{ID: id}, nil
}

func (e *Engine) addChallengeSet(c protocol.AddChallengeSet) (protocol.ResponseAction, protocol.BroadcastAction) {
	for _, s := range e.st.challengeSets {
		if s.Name == c.Name {
			return protocol.Failure{Err: protocol.New(protocol.AlreadyExists)}, nil
		}
	}
	id := e.st.nextSetID
	e.st.nextSetID++
	e.st.challengeSets[id] = &model.ChallengeSet{ID: id, Name: c.Name}
	e.markChanged()
	return protocol.IDResponse{ID: id}, nil
}

func (e *Engine) getChallengeSets() (protocol.ResponseAction, protocol.BroadcastAction) {
	return protocol.ChallengeSetList{Sets: cloneMapValues(e.st.challengeSets)}, nil
}

// getState does not mark changesSinceSave, preserving the read-idempotence
// law in spec.md §8.
func (e *Engine) getState() (protocol.ResponseAction, protocol.BroadcastAction) {
	return protocol.StateResponse{
		Sessions: cloneMapValues(e.st.sessions),
		Players:  cloneMapValues(e.st.players),
	}, nil
}

func (e *Engine) shutdown() (protocol.ResponseAction, protocol.BroadcastAction) {
	e.requestShutdown()
	return protocol.Success{}, protocol.ShutdownBroadcast{}
}

func (e *Engine) markChanged() { e.st.changesSinceSave = true }

func removeUint64(s []uint64, v uint64) []uint64 {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func equalUint64Ptr(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
