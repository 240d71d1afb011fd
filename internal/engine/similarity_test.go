package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimilarTeamNameExactMatchCaseInsensitive(t *testing.T) {
	require.True(t, similarTeamName("Foxes", "foxes"))
}

func TestSimilarTeamNameCloseTypo(t *testing.T) {
	require.True(t, similarTeamName("Foxess", "Foxes"))
}

func TestSimilarTeamNameUnrelated(t *testing.T) {
	require.False(t, similarTeamName("Foxes", "Dragons"))
}
