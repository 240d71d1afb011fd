package selector

import (
	"time"

	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// materializeAction implements spec.md §4.3.7: a raw challenge's action
// template becomes an absolute-deadline OpenAction at generation time.
func materializeAction(action *model.ChallengeAction, reps uint16, now time.Time) *model.OpenAction {
	if action == nil || action.Kind == model.ActionNone {
		return nil
	}
	duration := minutesOr(action, reps)
	switch action.Kind {
	case model.ActionTrap:
		return &model.OpenAction{
			Kind:             action.Kind,
			CompletableAfter: now.Add(duration),
			CatcherMessage:   action.CatcherMessage,
		}
	case model.ActionUncompletableMinutes:
		return &model.OpenAction{
			Kind:               action.Kind,
			UncompletableUntil: now.Add(duration),
		}
	default:
		return nil
	}
}

func minutesOr(action *model.ChallengeAction, reps uint16) time.Duration {
	if action.Minutes != nil {
		return time.Duration(*action.Minutes) * time.Minute
	}
	return time.Duration(reps) * time.Minute
}
