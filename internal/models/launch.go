package models

import "time"

// LaunchRecord is one upcoming launch as reported by the schedule API.
type LaunchRecord struct {
	Name           string    `json:"name"`
	NetTime        time.Time `json:"net_time"`        // No Earlier Than, carries the API's UTC offset
	SiteName       string    `json:"site_name"`       // canonical site identifier, e.g. "Vandenberg"
	PayloadSummary string    `json:"payload_summary"` // may be empty
}

// Selection is the outcome of picking the next launch for a site.
// Either Found is true and Launch is populated, or it is the zero value.
type Selection struct {
	Launch LaunchRecord
	Found  bool
}

// NoMatch is the empty Selection.
func NoMatch() Selection { return Selection{} }

// Match wraps a selected record.
func Match(r LaunchRecord) Selection { return Selection{Launch: r, Found: true} }
