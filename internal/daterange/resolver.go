// Package daterange validates the requested delivery date window and
// substitutes the warehouse-local "today" when the input is unusable.
package daterange

import (
	"regexp"
	"time"
)

// Zone is the fixed offset the upstream FMS operates in. Fallback dates and
// row timestamps are rendered in this zone.
var Zone = time.FixedZone("UTC+10", 10*60*60)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const dateLayout = "2006-01-02"

type Range struct {
	Start string
	End   string
}

// Resolve returns the validated range. The bool reports whether any fallback
// was substituted. It never fails: a missing or malformed candidate becomes
// today's date in Zone, for both ends.
func Resolve(start, end string) (Range, bool) {
	return ResolveAt(start, end, time.Now())
}

// ResolveAt is Resolve with an explicit clock.
func ResolveAt(start, end string, now time.Time) (Range, bool) {
	if Valid(start) && Valid(end) {
		return Range{Start: start, End: end}, false
	}
	today := now.In(Zone).Format(dateLayout)
	return Range{Start: today, End: today}, true
}

// Valid reports whether the candidate matches the YYYY-MM-DD shape.
func Valid(date string) bool {
	return datePattern.MatchString(date)
}
