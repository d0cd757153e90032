package devplan

import (
	"time"

	"github.com/google/uuid"
)

// timeNow and newID are package-level variables for testability.
// Tests can replace them to control time and ids in assertions.
var (
	timeNow = time.Now
	newID   = uuid.NewString
)

const dateLayout = "2006-01-02"

// formatTime renders t the way every timestamp in the aggregate is stored.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime accepts RFC3339 timestamps and plain dates.
func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
