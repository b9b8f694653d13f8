// Package constants provides shared constants for the week-routine application
package constants

import "github.com/belphemur/week-routine/weekmask"

// IsValidDayOfWeek checks if a configured day reference names a weekday.
// Names are matched case-insensitively and indexes 0 (Sunday) to 6 (Saturday) are accepted.
func IsValidDayOfWeek(day string) bool {
	_, ok := weekmask.Resolve(day)
	return ok
}
