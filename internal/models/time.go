package models

import "time"

// TimeLayout is the fixed-width UTC timestamp format used for created_at
// and updated_at. Fixed fractional digits keep lexicographic order equal to
// chronological order, which `ORDER BY updated_at` relies on.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Now returns the current UTC time in TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}
