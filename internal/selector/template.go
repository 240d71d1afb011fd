package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oocraftrabbitoo/truinlag/internal/config"
	"github.com/oocraftrabbitoo/truinlag/internal/model"
)

// renderTitleDescription implements spec.md §4.3.6.
func renderTitleDescription(rc *model.RawChallenge, cfg config.Config, zone *model.Zone, zoningEnabled bool, reps uint16) (string, string) {
	title := cfg.DefaultChallengeTitle
	description := cfg.DefaultChallengeDescription

	if rc.Place != nil {
		if rc.Kind == model.ZKaff {
			title = fmt.Sprintf("Züridrift nach %s", *rc.Place)
			description = fmt.Sprintf("Gönd zu de Station %s in Züri.", *rc.Place)
		} else {
			title = fmt.Sprintf("Usflug uf %s", *rc.Place)
			description = fmt.Sprintf("Gönd nach %s.", *rc.Place)
		}
	}

	if rc.Title != nil {
		title = *rc.Title
	}
	if rc.Description != nil {
		description = *rc.Description
	}

	if rc.NoDisembark {
		title = "🛤️ " + title
	}

	if zone != nil && rc.Kind == model.Zoneable && zoningEnabled {
		title = fmt.Sprintf("%s (Zone %d)", title, zone.DisplayNumber)
	}

	zoneNum := ""
	if zone != nil {
		zoneNum = strconv.Itoa(int(zone.DisplayNumber))
	}
	replacer := strings.NewReplacer("%z", zoneNum, "%s", zoneNum, "%r", strconv.Itoa(int(reps)))
	return replacer.Replace(title), replacer.Replace(description)
}
