package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

func TestAcceptLocationNoPrev(t *testing.T) {
	next := model.Location{Accuracy: 50, Timestamp: time.Now()}
	require.True(t, acceptLocation(nil, next))
}

func TestAcceptLocationGoodAccuracy(t *testing.T) {
	prev := model.Location{Accuracy: 10, Timestamp: time.Now()}
	next := model.Location{Accuracy: 15, Timestamp: prev.Timestamp.Add(time.Second)}
	require.True(t, acceptLocation(&prev, next))
}

func TestAcceptLocationImprovedRatio(t *testing.T) {
	prev := model.Location{Accuracy: 100, Timestamp: time.Now()}
	next := model.Location{Accuracy: 50, Timestamp: prev.Timestamp.Add(time.Second)}
	require.True(t, acceptLocation(&prev, next))
}

func TestAcceptLocationStaleAcceptedAfterThirtySeconds(t *testing.T) {
	prev := model.Location{Accuracy: 25, Timestamp: time.Now()}
	next := model.Location{Accuracy: 40, Timestamp: prev.Timestamp.Add(31 * time.Second)}
	require.True(t, acceptLocation(&prev, next))
}

func TestAcceptLocationRejectedWhenWorseAndRecent(t *testing.T) {
	prev := model.Location{Accuracy: 25, Timestamp: time.Now()}
	next := model.Location{Accuracy: 40, Timestamp: prev.Timestamp.Add(5 * time.Second)}
	require.False(t, acceptLocation(&prev, next))
}

func TestShouldAppendHistoryNoPrior(t *testing.T) {
	next := model.Location{Latitude: 47.37, Longitude: 8.54, Timestamp: time.Now()}
	require.True(t, shouldAppendHistory(nil, next))
}

func TestShouldAppendHistoryTooCloseAndRecent(t *testing.T) {
	last := model.Location{Latitude: 47.37, Longitude: 8.54, Timestamp: time.Now()}
	next := model.Location{Latitude: 47.37001, Longitude: 8.54, Timestamp: last.Timestamp.Add(time.Second)}
	require.False(t, shouldAppendHistory(&last, next))
}

func TestShouldAppendHistoryFarEnoughAndLateEnough(t *testing.T) {
	last := model.Location{Latitude: 47.37, Longitude: 8.54, Timestamp: time.Now()}
	next := model.Location{Latitude: 47.3710, Longitude: 8.54, Timestamp: last.Timestamp.Add(11 * time.Second)}
	require.True(t, shouldAppendHistory(&last, next))
}
