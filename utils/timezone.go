package utils

import (
	"time"

	"github.com/NygerianPrynce/kalTrackV2/apperror"
)

// DefaultTimezone is used only when the caller omits the tz parameter
// entirely. Callers that care must always pass a zone.
const DefaultTimezone = "America/Chicago"

// LoadTimezone validates an IANA timezone identifier by loading its location
// data. An unrecognized identifier fails; there is no silent fallback to a
// default zone. An empty identifier resolves to DefaultTimezone.
func LoadTimezone(tz string) (*time.Location, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperror.InvalidTimezone()
	}
	return loc, nil
}

// DateInZone returns the YYYY-MM-DD calendar date the instant falls on as
// observed in loc. Two instants far apart in UTC can share a date, and two
// close together can straddle local midnight into different dates.
func DateInZone(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// WallClockInZone re-expresses the instant's wall-clock reading in loc as a
// UTC instant with the same year/month/day/hour/minute/second. Useful only
// for comparisons where timezone-local wall-clock ordering matters.
func WallClockInZone(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), 0, time.UTC)
}
