package selector

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// Generate runs the full pipeline from spec.md §4.3 and returns a shuffled
// list of OpenChallenges for team, drawn from challenges and placed within
// zones: one per slot (config.num_challenges slots) for which the filter
// cascade found a candidate; slots with no candidate are left out. pointsToTop is the leading team's
// point total, if any (used by the underdog boost).
func Generate(log *slog.Logger, cfg config.Config, team *model.Team, challenges map[uint64]*model.RawChallenge, zones map[uint64]*model.Zone, pointsToTop *uint64, now time.Time) []model.OpenChallenge {
	var currentZone *model.Zone
	if z, ok := zones[team.CurrentZoneID]; ok {
		currentZone = z
	}

	tod := JitteredNow(cfg, now)
	period := DeterminePeriod(cfg, tod)
	slots := BuildSlots(cfg, period, zones, currentZone)

	picked := make(map[uint64]bool, len(slots))
	open := make([]model.OpenChallenge, 0, len(slots))

	for _, slot := range slots {
		rc, ok := pickForSlot(log, challenges, cfg, slot, team, picked)
		if !ok {
			continue
		}
		picked[rc.ID] = true

		reps := sampleReps(rc)
		zoningEnabled := !slot.ZoningDisabled
		zoneID, hasZone := pickZone(rc, cfg, zones, currentZone, slot.AllowedZones, zoningEnabled)
		var zone *model.Zone
		if hasZone {
			zone = zones[zoneID]
		}

		points := calculatePoints(log, rc, cfg, zone, currentZone, reps, pointsToTop, now)
		title, description := renderTitleDescription(rc, cfg, zone, zoningEnabled, reps)

		oc := model.OpenChallenge{
			ID:          rc.ID,
			Title:       title,
			Description: description,
			Points:      points,
			Action:      materializeAction(rc.Action, reps, now),
		}
		if hasZone {
			oc.Zone = &zoneID
		}
		open = append(open, oc)
	}

	rand.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	return open
}
