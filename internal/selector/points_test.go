package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// A Wednesday (so no weekend bias applies) and zero jitter stddev keep the
// formula deterministic for these assertions.
var wednesday = time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)

func TestCalculatePointsBaseTerms(t *testing.T) {
	cfg := config.Default()
	cfg.RelativeStandardDeviation = 0

	rc := &model.RawChallenge{
		WalkingTime:    10,
		StationaryTime: 5,
		BiasSat:        1,
		BiasSun:        1,
	}

	got := calculatePoints(nil, rc, cfg, nil, nil, 0, nil, wednesday)
	want := uint64(10*cfg.PointsPerWalkingMinute + 5*cfg.PointsPerStationaryMinute)
	require.Equal(t, want, got)
}

func TestCalculatePointsUnderdogBoostIncreasesPoints(t *testing.T) {
	cfg := config.Default()
	cfg.RelativeStandardDeviation = 0

	rc := &model.RawChallenge{WalkingTime: 10, BiasSat: 1, BiasSun: 1}

	without := calculatePoints(nil, rc, cfg, nil, nil, 0, nil, wednesday)
	lead := cfg.UnderdogStartingDifference + 1000
	with := calculatePoints(nil, rc, cfg, nil, nil, 0, &lead, wednesday)
	require.Greater(t, with, without)
}

func TestCalculatePointsFixedUsesFixedTotalWithinCutoff(t *testing.T) {
	cfg := config.Default()
	cfg.RelativeStandardDeviation = 0

	rc := &model.RawChallenge{
		Fixed:           true,
		AdditionalPoint: 100,
		BiasSat:         1,
		BiasSun:         1,
	}

	got := calculatePoints(nil, rc, cfg, nil, nil, 0, nil, wednesday)
	require.Equal(t, uint64(100), got)
}

func TestCalculatePointsNeverNegative(t *testing.T) {
	cfg := config.Default()
	cfg.RelativeStandardDeviation = 0

	rc := &model.RawChallenge{AdditionalPoint: -1000, BiasSat: 1, BiasSun: 1}
	got := calculatePoints(nil, rc, cfg, nil, nil, 0, nil, wednesday)
	require.Equal(t, uint64(0), got)
}

func TestSampleRepsEmptyRangeYieldsZero(t *testing.T) {
	rc := &model.RawChallenge{Repetitions: model.U16Range{Start: 5, End: 5}}
	require.Equal(t, uint16(0), sampleReps(rc))
}

func TestSampleRepsWithinRange(t *testing.T) {
	rc := &model.RawChallenge{Repetitions: model.U16Range{Start: 2, End: 6}}
	for i := 0; i < 50; i++ {
		reps := sampleReps(rc)
		require.GreaterOrEqual(t, reps, uint16(2))
		require.Less(t, reps, uint16(6))
	}
}
