package utils

import "time"

const dateLayout = "2006-01-02"

// ResolveWindow turns a named range token into absolute bounds in server
// time: N days back from now truncated to the start of that day, through the
// end of the current day. Unrecognized tokens fall back to 14 days.
func ResolveWindow(token string, now time.Time) (time.Time, time.Time) {
	days := 14
	switch token {
	case "7d":
		days = 7
	case "14d":
		days = 14
	case "30d":
		days = 30
	case "90d":
		days = 90
	}

	to := endOfDay(now)
	from := startOfDay(now.AddDate(0, 0, -days))
	return from, to
}

// ResolveDates expands an explicit calendar-date pair to full-day bounds,
// 00:00:00.000 through 23:59:59.999 in server time. Returns ok=false when
// either date is missing or fails to parse, so the caller can fall through
// to the named window.
func ResolveDates(fromStr, toStr string, loc *time.Location) (time.Time, time.Time, bool) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.ParseInLocation(dateLayout, fromStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation(dateLayout, toStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return startOfDay(from), endOfDay(to), true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
