package selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.StartTime = 9 * time.Hour
	cfg.SpecificMinutes = 30
	cfg.EndTime = 20 * time.Hour
	cfg.EndGameMinutes = 30
	cfg.ZKaffMinutes = 60
	cfg.PerimeterMinutes = 90
	return cfg
}

func TestDeterminePeriodSpecificWindow(t *testing.T) {
	cfg := testConfig()
	p := DeterminePeriod(cfg, 9*time.Hour+10*time.Minute)
	require.Equal(t, Specific, p.Kind)
}

func TestDeterminePeriodNormalAfterSpecific(t *testing.T) {
	cfg := testConfig()
	p := DeterminePeriod(cfg, 12*time.Hour)
	require.Equal(t, Normal, p.Kind)
}

func TestDeterminePeriodPerimeterRatio(t *testing.T) {
	cfg := testConfig()
	endGameTime := cfg.EndTime - time.Duration(cfg.EndGameMinutes)*time.Minute
	zurichTime := endGameTime - time.Duration(cfg.ZKaffMinutes)*time.Minute
	perimeterTime := zurichTime - time.Duration(cfg.PerimeterMinutes)*time.Minute

	p := DeterminePeriod(cfg, perimeterTime+45*time.Minute)
	require.Equal(t, Perimeter, p.Kind)
	require.InDelta(t, 0.5, p.Ratio, 0.01)
}

func TestDeterminePeriodZKaff(t *testing.T) {
	cfg := testConfig()
	endGameTime := cfg.EndTime - time.Duration(cfg.EndGameMinutes)*time.Minute
	zurichTime := endGameTime - time.Duration(cfg.ZKaffMinutes)*time.Minute

	p := DeterminePeriod(cfg, zurichTime+30*time.Minute)
	require.Equal(t, ZKaff, p.Kind)
	require.InDelta(t, 0.5, p.Ratio, 0.01)
}

func TestDeterminePeriodEndGameAtOrAfterEndTime(t *testing.T) {
	cfg := testConfig()
	p := DeterminePeriod(cfg, cfg.EndTime)
	require.Equal(t, EndGame, p.Kind)

	p = DeterminePeriod(cfg, cfg.EndTime+time.Hour)
	require.Equal(t, EndGame, p.Kind)
}

func TestJitteredNowNoWiggleReturnsExactTimeOfDay(t *testing.T) {
	cfg := testConfig()
	cfg.TimeWiggleMinutes = 0
	now := time.Date(2026, 7, 30, 14, 5, 30, 0, time.UTC)
	require.Equal(t, 14*time.Hour+5*time.Minute+30*time.Second, JitteredNow(cfg, now))
}

func TestJitteredNowStaysWithinWiggleBounds(t *testing.T) {
	cfg := testConfig()
	cfg.TimeWiggleMinutes = 5
	now := time.Date(2026, 7, 30, 14, 0, 0, 0, time.UTC)
	base := 14 * time.Hour
	for i := 0; i < 50; i++ {
		got := JitteredNow(cfg, now)
		require.InDelta(t, float64(base), float64(got), float64(5*time.Minute))
	}
}
