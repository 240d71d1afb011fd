package selector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

func TestPickForSlotPrefersFullMatch(t *testing.T) {
	cfg := config.Default()
	cfg.ChallengeSets = nil

	slot := SlotSpec{Kinds: []model.ChallengeKind{model.Kaff}}
	team := &model.Team{}
	challenges := map[uint64]*model.RawChallenge{
		1: {ID: 1, Kind: model.Kaff, Status: model.Approved},
		2: {ID: 2, Kind: model.Unspezifisch, Status: model.Approved},
	}

	rc, ok := pickForSlot(nil, challenges, cfg, slot, team, map[uint64]bool{})
	require.True(t, ok)
	require.Equal(t, uint64(1), rc.ID)
}

func TestPickForSlotFallsBackWhenSlotHasNoCandidate(t *testing.T) {
	cfg := config.Default()
	cfg.ChallengeSets = nil

	slot := SlotSpec{Kinds: []model.ChallengeKind{model.Kaff}}
	team := &model.Team{}
	challenges := map[uint64]*model.RawChallenge{
		1: {ID: 1, Kind: model.Unspezifisch, Status: model.Approved},
	}

	rc, ok := pickForSlot(nil, challenges, cfg, slot, team, map[uint64]bool{})
	require.True(t, ok)
	require.Equal(t, uint64(1), rc.ID)
}

func TestPickForSlotExcludesAlreadyPicked(t *testing.T) {
	cfg := config.Default()
	cfg.ChallengeSets = nil

	slot := SlotSpec{Kinds: []model.ChallengeKind{model.Kaff}}
	team := &model.Team{}
	challenges := map[uint64]*model.RawChallenge{
		1: {ID: 1, Kind: model.Kaff, Status: model.Approved},
	}

	_, ok := pickForSlot(nil, challenges, cfg, slot, team, map[uint64]bool{1: true})
	require.False(t, ok)
}

func TestPickForSlotSkipsCompletedChallengeAtFullLevel(t *testing.T) {
	cfg := config.Default()
	cfg.ChallengeSets = nil

	slot := SlotSpec{Kinds: []model.ChallengeKind{model.Kaff}}
	team := &model.Team{Periods: []model.Period{
		{Kind: model.PeriodCompletedChallenge, ChallengeRawID: 1},
	}}
	challenges := map[uint64]*model.RawChallenge{
		1: {ID: 1, Kind: model.Kaff, Status: model.Approved},
	}

	// Level 1 excludes the completed challenge; level 2 (slot kinds only)
	// no longer checks completion and picks it up.
	rc, ok := pickForSlot(nil, challenges, cfg, slot, team, map[uint64]bool{})
	require.True(t, ok)
	require.Equal(t, uint64(1), rc.ID)
}

func TestMatchesSlotRejectsOverMaxKaffskala(t *testing.T) {
	max := uint8(3)
	slot := SlotSpec{Kinds: []model.ChallengeKind{model.Kaff}, MaxKaffskala: &max}
	high := uint8(5)
	rc := &model.RawChallenge{Kind: model.Kaff, Kaffskala: &high}
	require.False(t, matchesSlot(rc, slot))
}

func TestStatusEligibleApprovedAndRefactorOnly(t *testing.T) {
	require.True(t, statusEligible(&model.RawChallenge{Status: model.Approved}))
	require.True(t, statusEligible(&model.RawChallenge{Status: model.Refactor}))
	require.False(t, statusEligible(&model.RawChallenge{Status: model.Rejected}))
}
