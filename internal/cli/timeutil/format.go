// Package timeutil provides time formatting utilities for CLI output.
package timeutil

import (
	"time"
)

// LocalTimeFormat is the format used for displaying local times in CLI output.
// Uses Go's reference time: Mon Jan 2 15:04:05 2006.
const LocalTimeFormat = "Mon Jan 2 15:04:05 2006"

// FormatLocal renders a timestamp in the caller's local timezone.
func FormatLocal(t time.Time) string {
	return t.Local().Format(LocalTimeFormat)
}
