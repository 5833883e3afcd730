package service

import (
	"fmt"
	"strings"
	"time"

	"launch_notifier"
	"launch_notifier/internal/models"

	"github.com/rivo/uniseg"
)

const (
	// MaxMessageBytes is the soft ceiling for one mesh text message.
	MaxMessageBytes = 200

	prefixMission  = "🚀 "
	prefixDate     = "📅 "
	prefixPayload  = "📦 "
	noPayloadText  = "No payload info available"
	noMissionText  = "Unknown Mission"
	ellipsis       = "..."
	messageLineSep = "\n"
)

// MessageComposer renders a LaunchRecord as the three-line mesh message.
type MessageComposer struct {
	zone     *time.Location
	maxBytes int
}

func NewMessageComposer(zone *time.Location) *MessageComposer {
	return &MessageComposer{zone: zone, maxBytes: MaxMessageBytes}
}

// Compose builds:
//
//	🚀 <mission name>
//	📅 <local time>
//	📦 <payload summary>
//
// Only the payload text is shortened to fit maxBytes, unless the first two lines
// alone are too long, in which case the mission name is shortened as well.
// Prefixes and the date are never cut.
func (c *MessageComposer) Compose(r models.LaunchRecord) (string, error) {
	when, err := FormatLocal(r.NetTime, c.zone)
	if err != nil {
		return "", err
	}

	name := singleLine(r.Name)
	if name == "" {
		name = noMissionText
	}
	payload := singleLine(r.PayloadSummary)
	if payload == "" {
		payload = noPayloadText
	}

	// bytes taken by everything except the name and payload text
	fixed := len(prefixMission) + len(messageLineSep) + len(prefixDate) + len(when) + len(messageLineSep) + len(prefixPayload)

	if room := c.maxBytes - fixed - len(name); len(payload) > room {
		if room >= len(ellipsis) {
			payload = truncateGraphemes(payload, room)
		} else {
			payload = ellipsis
			nameRoom := c.maxBytes - fixed - len(payload)
			if nameRoom < len(ellipsis) {
				return "", fmt.Errorf("%w: date line leaves no room within %d bytes", launch_notifier.ErrFormat, c.maxBytes)
			}
			name = truncateGraphemes(name, nameRoom)
		}
	}

	return strings.Join([]string{
		prefixMission + name,
		prefixDate + when,
		prefixPayload + payload,
	}, messageLineSep), nil
}

// singleLine collapses all whitespace, including newlines, into single spaces.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateGraphemes shortens s to at most maxBytes bytes, ending in an ellipsis,
// without splitting a grapheme cluster (emoji, combining marks).
func truncateGraphemes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	budget := maxBytes - len(ellipsis)
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if b.Len()+len(cluster) > budget {
			break
		}
		b.WriteString(cluster)
	}
	return strings.TrimRight(b.String(), " ") + ellipsis
}
