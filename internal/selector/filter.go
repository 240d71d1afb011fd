package selector

import (
	"log/slog"
	"math/rand/v2"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// matchesSlot reports whether rc satisfies a slot's kind/zone/kaffskala
// restriction (the "per-slot kind filters" of spec.md §4.3.2).
func matchesSlot(rc *model.RawChallenge, slot SlotSpec) bool {
	found := false
	for _, k := range slot.Kinds {
		if rc.Kind == k {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if slot.MaxKaffskala != nil && rc.Kaffskala != nil && *rc.Kaffskala > *slot.MaxKaffskala {
		return false
	}
	if len(slot.AllowedZones) > 0 {
		inAllowed := false
		for _, z := range rc.ZoneIDs {
			for _, a := range slot.AllowedZones {
				if z == a {
					inAllowed = true
					break
				}
			}
			if inAllowed {
				break
			}
		}
		if !inAllowed {
			return false
		}
	}
	return true
}

func inSets(rc *model.RawChallenge, sets []uint64) bool {
	if len(sets) == 0 {
		return true
	}
	for _, s := range rc.Sets {
		for _, want := range sets {
			if s == want {
				return true
			}
		}
	}
	return false
}

func statusEligible(rc *model.RawChallenge) bool {
	return rc.Status == model.Approved || rc.Status == model.Refactor
}

// pickForSlot implements the four-level filter cascade in spec.md §4.3.2,
// skipping any challenge id already selected earlier in this batch.
func pickForSlot(log *slog.Logger, challenges map[uint64]*model.RawChallenge, cfg config.Config, slot SlotSpec, team *model.Team, alreadyPicked map[uint64]bool) (*model.RawChallenge, bool) {
	levels := []func(*model.RawChallenge) bool{
		func(rc *model.RawChallenge) bool {
			return inSets(rc, cfg.ChallengeSets) && statusEligible(rc) && !team.HasCompleted(rc.ID) && matchesSlot(rc, slot)
		},
		func(rc *model.RawChallenge) bool {
			return matchesSlot(rc, slot)
		},
		statusEligible,
		func(rc *model.RawChallenge) bool { return true },
	}

	for level, pred := range levels {
		var candidates []*model.RawChallenge
		for id, rc := range challenges {
			if alreadyPicked[id] {
				continue
			}
			if pred(rc) {
				candidates = append(candidates, rc)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		if level > 0 && log != nil {
			log.Warn("selector filter cascade fell back", "level", level+1)
		}
		return candidates[rand.IntN(len(candidates))], true
	}
	return nil, false
}
