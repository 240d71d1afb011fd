package selector

import "github.com/oocraftrabbitoo/truinlag/internal/model"

// SlotSpec describes one of the num_challenges slots a generation pass must
// fill: which kinds are acceptable, whether zoning applies, and an optional
// zone/kaffskala restriction (spec.md §4.3.3).
type SlotSpec struct {
	Kinds []model.ChallengeKind
	// ZoningDisabled turns off zone placement (and the zone suffix on the
	// title) for Zoneable-kind challenges picked for this slot; zero value
	// means zoning applies normally.
	ZoningDisabled bool
	AllowedZones   []uint64 // nil = unrestricted
	MaxKaffskala   *uint8   // nil = unrestricted
}

func specificKinds() []model.ChallengeKind {
	return []model.ChallengeKind{model.Kaff, model.Ortsspezifisch, model.Zoneable}
}

func unspecificKinds() []model.ChallengeKind {
	return []model.ChallengeKind{model.Zoneable, model.Unspezifisch}
}
