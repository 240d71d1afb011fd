package db_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/db"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
	"github.com/oocraftrabbitoo/truinlag/internal/testutil"
)

// WithTx backs the autosave protocol: every repository write inside one
// call must land together or not at all (spec.md §4.1.5).
func TestWithTxCommitsAllWritesTogether(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	err := store.WithTx(ctx, func(tx *db.Tx) error {
		if err := tx.Zones.Upsert(ctx, model.Zone{ID: 1}); err != nil {
			return err
		}
		return tx.Players.Upsert(ctx, model.Player{ID: 1, Name: "Alex", Passphrase: "p"})
	})
	require.NoError(t, err)

	zone, err := store.Zones.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, zone)

	player, err := store.Players.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, player)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	err := store.WithTx(ctx, func(tx *db.Tx) error {
		if err := tx.Zones.Upsert(ctx, model.Zone{ID: 1}); err != nil {
			return err
		}
		return testutil.ErrSimulated
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, testutil.ErrSimulated))

	zone, err := store.Zones.Get(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, zone, "the zone upsert must not survive a transaction that failed afterward")
}
