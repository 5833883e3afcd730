package service

import (
	"time"

	"launch_notifier/internal/models"
)

// SelectNext returns the earliest launch at site whose NET is at or after now.
// Site comparison is exact and case-sensitive. Equal NET times keep API order.
func SelectNext(records []models.LaunchRecord, site string, now time.Time) models.Selection {
	best := -1
	for i, r := range records {
		if r.SiteName != site {
			continue
		}
		if r.NetTime.Before(now) {
			continue
		}
		if best < 0 || r.NetTime.Before(records[best].NetTime) {
			best = i
		}
	}
	if best < 0 {
		return models.NoMatch()
	}
	return models.Match(records[best])
}
