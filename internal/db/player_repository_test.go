package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
	"github.com/oocraftrabbitoo/truinlag/internal/testutil"
)

func TestPlayerRepositoryUpsertGetByPassphrase(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	p := model.Player{ID: 1, Name: "Alex", Passphrase: "correct-horse-battery-staple"}
	require.NoError(t, store.Players.Upsert(ctx, p))

	got, err := store.Players.GetByPassphrase(ctx, p.Passphrase)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, p.ID, got.ID)
	require.False(t, got.Deleted())
}

// Soft-deleting a player blanks its passphrase rather than removing the row
// (see DESIGN.md's remove_player open question), so GetByPassphrase stops
// resolving it while Get by id still returns the historical record.
func TestPlayerRepositorySoftDeleteBlanksPassphraseOnly(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	p := model.Player{ID: 1, Name: "Alex", Passphrase: "correct-horse-battery-staple"}
	require.NoError(t, store.Players.Upsert(ctx, p))

	p.Passphrase = ""
	require.NoError(t, store.Players.Upsert(ctx, p))

	byPassphrase, err := store.Players.GetByPassphrase(ctx, "correct-horse-battery-staple")
	require.NoError(t, err)
	require.Nil(t, byPassphrase)

	byID, err := store.Players.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.True(t, byID.Deleted())

	all, err := store.Players.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
