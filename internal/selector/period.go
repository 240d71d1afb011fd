// Package selector implements GenerateTeamChallenges' challenge-picking
// pipeline (spec.md §4.3): period determination, a filter cascade over the
// raw challenge catalog, period-to-slot schedules, zone placement, point
// calculation and title/description templating.
package selector

import (
	"math/rand/v2"
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
)

// PeriodKind discriminates the game-clock period a generation request falls
// into (spec.md §4.3.1).
type PeriodKind int

const (
	Specific PeriodKind = iota
	Normal
	Perimeter
	ZKaff
	EndGame
)

// Period is the period determination's result: a kind plus, for Perimeter
// and ZKaff, the progress ratio through that period.
type Period struct {
	Kind  PeriodKind
	Ratio float64
}

// DeterminePeriod implements spec.md §4.3.1. now is local wall-clock time of
// day; wiggle is applied by the caller via JitteredNow so tests can supply a
// deterministic "now".
func DeterminePeriod(cfg config.Config, now time.Duration) Period {
	if now <= cfg.StartTime+time.Duration(cfg.SpecificMinutes)*time.Minute {
		return Period{Kind: Specific}
	}
	if now >= cfg.EndTime {
		return Period{Kind: EndGame}
	}

	endGameTime := cfg.EndTime - time.Duration(cfg.EndGameMinutes)*time.Minute
	zurichTime := endGameTime - time.Duration(cfg.ZKaffMinutes)*time.Minute
	perimeterTime := zurichTime - time.Duration(cfg.PerimeterMinutes)*time.Minute

	switch {
	case now >= endGameTime:
		return Period{Kind: EndGame}
	case now >= zurichTime:
		ratio := float64(now-zurichTime) / float64(time.Duration(cfg.ZKaffMinutes)*time.Minute)
		return Period{Kind: ZKaff, Ratio: ratio}
	case now >= perimeterTime:
		ratio := float64(now-perimeterTime) / float64(time.Duration(cfg.PerimeterMinutes)*time.Minute)
		return Period{Kind: Perimeter, Ratio: ratio}
	default:
		return Period{Kind: Normal}
	}
}

// JitteredNow applies the uniform random [-wiggle, +wiggle] minute jitter
// from spec.md §4.3.1 to the local time-of-day offset of `now`.
func JitteredNow(cfg config.Config, now time.Time) time.Duration {
	tod := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute + time.Duration(now.Second())*time.Second
	wiggle := cfg.TimeWiggleMinutes
	if wiggle <= 0 {
		return tod
	}
	jitterMinutes := rand.IntN(2*wiggle+1) - wiggle
	return tod + time.Duration(jitterMinutes)*time.Minute
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
