package service

import (
	"fmt"
	"time"

	"launch_notifier"
)

// displayLayout renders e.g. "Jan 15, 2026 @ 07:30 AM AZ"; the zone abbreviation is the zone's name.
const displayLayout = "Jan 2, 2006 @ 03:04 PM MST"

// FormatLocal converts ts into zone and renders it for display.
// A zero timestamp carries no instant or offset and is rejected.
func FormatLocal(ts time.Time, zone *time.Location) (string, error) {
	if ts.IsZero() {
		return "", fmt.Errorf("%w: timestamp has no time or zone information", launch_notifier.ErrFormat)
	}
	if zone == nil {
		return "", fmt.Errorf("%w: no target zone", launch_notifier.ErrFormat)
	}
	return ts.In(zone).Format(displayLayout), nil
}
