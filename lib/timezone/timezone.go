package timezone

import (
	"fmt"
	"strings"
	"time"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Athens")
	if err != nil {
		panic(err)
	}
}

// force timezone to be in Athens because sometimes our servers
// end up elsewhere which will cause disturbances when
// manipulating dates based on <time.Time>.Year()/Month()/Day()/Hour()/...
func Now() time.Time {
	return time.Now().In(Location)
}

// Offset returns the UTC offset of the Athens region at t,
// formatted as "+02:00" (EET) or "+03:00" (EEST).
func Offset(t time.Time) string {
	_, seconds := t.In(Location).Zone()
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

// CombineDateTime replaces the time-of-day of an existing ISO timestamp
// with a newly extracted "HH:MM" clock time, keeping the date portion and
// attaching the regional offset in effect on that date.
// "2025-11-15T00:00:00.000+02:00" + "20:30" -> "2025-11-15T20:30:00+02:00".
func CombineDateTime(existing, clock string) (string, error) {
	datePart, _, found := strings.Cut(existing, "T")
	if !found {
		datePart = existing
	}
	day, err := time.ParseInLocation("2006-01-02", datePart, Location)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", datePart, err)
	}
	if _, err := time.Parse("15:04", clock); err != nil {
		return "", fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return fmt.Sprintf("%sT%s:00%s", datePart, clock, Offset(day)), nil
}

// IsMissingTime reports whether an ISO timestamp carries the midnight
// placeholder instead of a real start time. The upstream importers write
// midnight when a listing page had no time-of-day, so any 00:00:00 is
// treated as missing and subject to re-extraction.
func IsMissingTime(iso string) bool {
	_, rest, found := strings.Cut(iso, "T")
	if !found {
		return true
	}
	return strings.HasPrefix(rest, "00:00:00")
}
