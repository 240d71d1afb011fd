package selector

import (
	"math/rand/v2"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// zonesInMinuteRange returns the ids of zones whose travel time from `from`
// (in minutes) falls in rng, per the distance-range buckets referenced by
// spec.md §4.3.3/§4.3.4.
func zonesInMinuteRange(zones map[uint64]*model.Zone, from *model.Zone, rng config.Range) []uint64 {
	var out []uint64
	for id := range zones {
		minutes, ok := from.MinutesTo[id]
		if !ok {
			continue
		}
		if rng.Contains(float64(minutes)) {
			out = append(out, id)
		}
	}
	return out
}

// zonesUpTo returns zone ids within [lo, hi) minutes of `from`.
func zonesUpTo(zones map[uint64]*model.Zone, from *model.Zone, lo, hi float64) []uint64 {
	return zonesInMinuteRange(zones, from, config.Range{Start: lo, End: hi})
}

// pickZone resolves the zone for a challenge per spec.md §4.3.4.
func pickZone(rc *model.RawChallenge, cfg config.Config, zones map[uint64]*model.Zone, currentZone *model.Zone, allowed []uint64, zoningEnabled bool) (uint64, bool) {
	needsZone := rc.RandomPlaceMode != model.RandomPlaceNone ||
		rc.Kind == model.Ortsspezifisch || rc.Kind == model.Kaff || rc.Kind == model.ZKaff ||
		(rc.Kind == model.Zoneable && zoningEnabled)
	if !needsZone {
		return 0, false
	}

	switch {
	case rc.RandomPlaceMode == model.RandomPlaceZone:
		return uniformZone(zones, allowed, nil)
	case rc.RandomPlaceMode == model.RandomPlaceSBahnZone:
		return uniformZone(zones, allowed, func(z *model.Zone) bool { return z.IsSBahnZone })
	case rc.Kind == model.Kaff:
		if len(rc.ZoneIDs) > 0 {
			return rc.ZoneIDs[0], true
		}
		return 0, false
	case rc.Kind == model.Ortsspezifisch:
		if currentZone == nil {
			return 0, false
		}
		return rc.ClosestZone(currentZone)
	case rc.Kind == model.ZKaff:
		return cfg.CentreZone, true
	case rc.Kind == model.Zoneable && zoningEnabled:
		return uniformZone(zones, allowed, nil)
	default:
		return 0, false
	}
}

func uniformZone(zones map[uint64]*model.Zone, allowed []uint64, pred func(*model.Zone) bool) (uint64, bool) {
	var candidates []uint64
	if len(allowed) > 0 {
		candidates = allowed
	} else {
		for id, z := range zones {
			if pred == nil || pred(z) {
				candidates = append(candidates, id)
			}
		}
	}
	if pred != nil && len(allowed) > 0 {
		filtered := make([]uint64, 0, len(candidates))
		for _, id := range candidates {
			if z, ok := zones[id]; ok && pred(z) {
				filtered = append(filtered, id)
			}
		}
		candidates = filtered
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rand.IntN(len(candidates))], true
}
