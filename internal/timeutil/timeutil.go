// Package timeutil parses and formats the human-readable durations used in
// code creation, like "1d 12h" or "30m".
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 317 years, the cap the duration parser enforces.
const maxSeconds = 10_000_000_000

// ParseSeconds converts a string like "2d 4h 30m" into a number of seconds.
// Recognised units are s, m, h, d and y; elements are whitespace-separated
// and summed.
func ParseSeconds(text string) (int64, error) {
	var seconds int64
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty duration")
	}
	for _, element := range fields {
		if len(element) < 2 {
			return 0, fmt.Errorf("invalid duration element %q", element)
		}
		unit := strings.ToLower(element[len(element)-1:])
		value, err := strconv.ParseInt(element[:len(element)-1], 10, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid duration element %q", element)
		}
		var factor int64
		switch unit {
		case "s":
			factor = 1
		case "m":
			factor = 60
		case "h":
			factor = 3600
		case "d":
			factor = 86400
		case "y":
			factor = 525_600 * 60
		default:
			return 0, fmt.Errorf("unknown duration unit %q", unit)
		}
		// Reject before multiplying: an overflowing product would wrap
		// negative and slip under the cap.
		if value > maxSeconds/factor {
			return 0, fmt.Errorf("duration too long")
		}
		seconds += value * factor
		if seconds >= maxSeconds {
			return 0, fmt.Errorf("duration too long")
		}
	}
	return seconds, nil
}

// Period renders a duration the way it reads in an embed: "2 days 4 hours
// 30 minutes". Seconds are dropped once the duration spans a day or more.
func Period(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days != 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours != 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes != 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if seconds != 0 && days == 0 {
		parts = append(parts, fmt.Sprintf("%d seconds", seconds))
	}
	return strings.Join(parts, " ")
}
