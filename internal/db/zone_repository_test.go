package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
	"github.com/oocraftrabbitoo/truinlag/internal/testutil"
)

func TestZoneRepositoryUpsertGetList(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	zone := model.Zone{
		ID:                 1,
		DisplayNumber:      12,
		NumConnectingZones: 3,
		IsSBahnZone:        true,
		MinutesTo:          map[uint64]uint64{2: 7},
	}
	require.NoError(t, store.Zones.Upsert(ctx, zone))

	got, err := store.Zones.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, zone.DisplayNumber, got.DisplayNumber)
	require.Equal(t, zone.IsSBahnZone, got.IsSBahnZone)
	require.Equal(t, uint64(7), got.MinutesTo[2])

	zone.DisplayNumber = 99
	require.NoError(t, store.Zones.Upsert(ctx, zone))
	got, err = store.Zones.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int32(99), got.DisplayNumber)

	list, err := store.Zones.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, uint64(1), list[0].ID)
}

func TestZoneRepositoryGetMissingReturnsNil(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	got, err := store.Zones.Get(ctx, 404)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestZoneRepositoryReplaceAll(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	require.NoError(t, store.Zones.Upsert(ctx, model.Zone{ID: 1}))
	require.NoError(t, store.Zones.ReplaceAll(ctx, []model.Zone{{ID: 2}, {ID: 3}}))

	list, err := store.Zones.List(ctx)
	require.NoError(t, err)
	ids := make([]uint64, len(list))
	for i, z := range list {
		ids[i] = z.ID
	}
	require.ElementsMatch(t, []uint64{2, 3}, ids)
}
