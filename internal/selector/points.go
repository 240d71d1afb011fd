package selector

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// sampleReps uniformly samples a repetition count from rc's range, 0 if the
// range is empty (spec.md §8's preserved-as-is behavior for an empty range).
func sampleReps(rc *model.RawChallenge) uint16 {
	if rc.Repetitions.Empty() {
		return 0
	}
	span := int(rc.Repetitions.End) - int(rc.Repetitions.Start)
	return rc.Repetitions.Start + uint16(rand.IntN(span))
}

// calculatePoints implements spec.md §4.3.5.
func calculatePoints(log *slog.Logger, rc *model.RawChallenge, cfg config.Config, zone *model.Zone, currentZone *model.Zone, reps uint16, pointsToTop *uint64, now time.Time) uint64 {
	p := float64(rc.AdditionalPoint)

	if rc.Kaffskala != nil {
		p += float64(*rc.Kaffskala) * cfg.PointsPerKaffness
	}
	if rc.Grade != nil {
		p += float64(*rc.Grade) * cfg.PointsPerGrade
	}
	p += float64(rc.WalkingTime) * cfg.PointsPerWalkingMinute
	p += float64(rc.StationaryTime) * cfg.PointsPerStationaryMinute
	p += float64(reps) * float64(rc.PointsPerRep)

	if zone != nil {
		p += float64(zone.ZonicKaffness(cfg.ZonicKaffnessPerConnection, cfg.ZonicKaffnessPerDisplayNumber))
		if currentZone != nil {
			m, ok := currentZone.MinutesTo[zone.ID]
			if !ok && log != nil {
				log.Warn("no recorded travel time between zones, using 0", "from", currentZone.ID, "to", zone.ID)
			}
			minutes := float64(m)
			p += cfg.TravelMinutesMultiplier * math.Pow(minutes, cfg.TravelMinutesExponent)
		}
	}

	switch rc.Kind {
	case model.ZKaff:
		if rc.DeadEnd {
			p += float64(cfg.ZKaffPointsForDeadEnd)
		}
		if cfg.ZKaffStationDistanceDivisor != 0 {
			p += float64(rc.StationDistance) / float64(cfg.ZKaffStationDistanceDivisor)
		}
		p += float64(rc.TimeToHB) * cfg.ZKaffPointsPerMinuteToHB
		p += (cfg.ZKaffDeparturesBase - math.Pow(float64(rc.Departures), cfg.ZKaffDeparturesExponent)) * cfg.ZKaffDeparturesMultiplier
	case model.Zoneable:
		if zone != nil {
			p += cfg.PointsForZoneable
		}
	}

	switch now.Weekday() {
	case time.Saturday:
		p *= float64(rc.BiasSat)
	case time.Sunday:
		p *= float64(rc.BiasSun)
	}

	if pointsToTop != nil {
		d := float64(*pointsToTop) - float64(cfg.UnderdogStartingDifference)
		if d > 0 {
			p *= 1 + d*cfg.UnderdogMultiplierPer1000*0.001
		}
	}

	p += sampleGaussian(0, p*cfg.RelativeStandardDeviation)

	if rc.Fixed {
		fixedP := float64(rc.AdditionalPoint) + float64(reps)*float64(rc.PointsPerRep)
		surplus := p - fixedP
		if surplus > fixedP*cfg.FixedCutoffMult {
			if log != nil {
				log.Warn("fixed challenge surplus exceeded cutoff, using regular total", "raw_challenge", rc.ID)
			}
			p -= fixedP
		} else {
			p = fixedP
		}
	}

	if p < 0 {
		p = 0
	}
	return uint64(math.Round(p))
}
