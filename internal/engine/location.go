package engine

import (
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// acceptLocation implements the filter from spec.md §4.1.4. prev is nil if
// the team has no recorded location yet.
func acceptLocation(prev *model.Location, next model.Location) bool {
	if prev == nil {
		return true
	}
	if next.Accuracy < 20 {
		return true
	}
	if next.Accuracy/prev.Accuracy < 1.0 {
		return true
	}
	delta := next.Timestamp.Sub(prev.Timestamp)
	if delta > 15*time.Second && next.Accuracy/prev.Accuracy < 1.5 {
		return true
	}
	if delta > 30*time.Second {
		return true
	}
	return false
}

// shouldAppendHistory reports whether an accepted location is far enough
// (>20m) and late enough (>10s) past the last history entry to be appended,
// per spec.md §4.1.4.
func shouldAppendHistory(lastHistory *model.Location, next model.Location) bool {
	if lastHistory == nil {
		return true
	}
	dist := model.DistanceMeters(*lastHistory, next)
	delta := next.Timestamp.Sub(lastHistory.Timestamp)
	return dist > 20 && delta > 10*time.Second
}
