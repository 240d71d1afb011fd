package selector

import (
	"math/rand/v2"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// BuildSlots implements the period-to-slot schedules of spec.md §4.3.3,
// given the team's current zone and the session's zone catalog.
func BuildSlots(cfg config.Config, period Period, zones map[uint64]*model.Zone, currentZone *model.Zone) []SlotSpec {
	n := cfg.NumChallenges
	if n <= 0 {
		n = 3
	}
	if n != 3 {
		return genericSlots(n, period)
	}

	switch period.Kind {
	case Specific:
		return []SlotSpec{
			{Kinds: specificKinds()},
			{Kinds: specificKinds()},
			{Kinds: specificKinds()},
		}
	case Normal:
		return normalSlots(cfg, zones, currentZone)
	case Perimeter:
		return perimeterSlots(cfg, period.Ratio, zones, currentZone)
	case ZKaff:
		return zkaffSlots(cfg, period.Ratio, zones, currentZone)
	case EndGame:
		return []SlotSpec{
			{Kinds: []model.ChallengeKind{model.ZKaff}},
			{Kinds: unspecificKinds()},
			{Kinds: unspecificKinds()},
		}
	default:
		return genericSlots(3, period)
	}
}

func normalSlots(cfg config.Config, zones map[uint64]*model.Zone, currentZone *model.Zone) []SlotSpec {
	var slot1 SlotSpec
	if currentZone != nil && rand.Float64() < cfg.RegioRatio {
		slot1 = SlotSpec{Kinds: []model.ChallengeKind{model.Regionsspezifisch}, ZoningDisabled: true}
	} else {
		var near []uint64
		if currentZone != nil {
			near = zonesInMinuteRange(zones, currentZone, cfg.NormalPeriodNearDistanceRange)
		}
		slot1 = SlotSpec{Kinds: specificKinds(), AllowedZones: near}
	}

	var far []uint64
	if currentZone != nil {
		far = zonesInMinuteRange(zones, currentZone, cfg.NormalPeriodFarDistanceRange)
	}
	slot2 := SlotSpec{Kinds: specificKinds(), AllowedZones: far}
	slot3 := SlotSpec{Kinds: unspecificKinds(), ZoningDisabled: true}
	return []SlotSpec{slot1, slot2, slot3}
}

func perimeterSlots(cfg config.Config, r float64, zones map[uint64]*model.Zone, currentZone *model.Zone) []SlotSpec {
	maxPerim := lerp(cfg.PerimDistanceRange.End, cfg.PerimDistanceRange.Start, r)
	centre := zones[cfg.CentreZone]
	var near, far []uint64
	if centre != nil {
		near = zonesUpTo(zones, centre, 0, maxPerim/2)
		far = zonesUpTo(zones, centre, maxPerim/2, maxPerim)
	}
	kaff := cfg.PerimMaxKaff
	slot1 := SlotSpec{Kinds: specificKinds(), AllowedZones: far, MaxKaffskala: u8ptr(kaff)}
	slot2 := SlotSpec{Kinds: specificKinds(), AllowedZones: near, MaxKaffskala: u8ptr(kaff)}
	slot3 := SlotSpec{Kinds: unspecificKinds()}
	return []SlotSpec{slot1, slot2, slot3}
}

func zkaffSlots(cfg config.Config, r float64, zones map[uint64]*model.Zone, currentZone *model.Zone) []SlotSpec {
	maxPerim := cfg.PerimDistanceRange.Start
	centre := zones[cfg.CentreZone]
	var near, far []uint64
	if centre != nil {
		near = zonesUpTo(zones, centre, 0, maxPerim/2)
		far = zonesUpTo(zones, centre, maxPerim/2, maxPerim)
	}

	p1 := clamp01(2 * r)
	p2 := clamp01(2 * (r - 0.5))

	var slot1, slot2 SlotSpec
	if rand.Float64() < p1 {
		slot1 = SlotSpec{Kinds: []model.ChallengeKind{model.ZKaff}}
	} else {
		slot1 = SlotSpec{Kinds: specificKinds(), AllowedZones: far}
	}
	if rand.Float64() < p2 {
		slot2 = SlotSpec{Kinds: []model.ChallengeKind{model.ZKaff}}
	} else {
		slot2 = SlotSpec{Kinds: specificKinds(), AllowedZones: near}
	}
	slot3 := SlotSpec{Kinds: unspecificKinds()}
	return []SlotSpec{slot1, slot2, slot3}
}

// genericSlots handles num_challenges != 3 per spec.md §4.3.3's closing
// rule: num_challenges-1 period-appropriate specific slots, one Unspecific.
func genericSlots(n int, period Period) []SlotSpec {
	if n <= 0 {
		return nil
	}
	kinds := specificKinds()
	if period.Kind == EndGame {
		kinds = []model.ChallengeKind{model.ZKaff}
	}
	slots := make([]SlotSpec, 0, n)
	for i := 0; i < n-1; i++ {
		slots = append(slots, SlotSpec{Kinds: kinds})
	}
	slots = append(slots, SlotSpec{Kinds: unspecificKinds()})
	return slots
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func u8ptr(v uint64) *uint8 {
	u := uint8(v)
	return &u
}
