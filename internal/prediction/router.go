package prediction

import (
	"time"
)

// Strategy identifies which acquisition strategy serves a request.
type Strategy string

const (
	StrategyForecast   Strategy = "forecast"
	StrategyHistorical Strategy = "historical"
	StrategyPattern    Strategy = "pattern"
)

// Route decides which acquisition strategy covers targetDate given now.
// The decision is a pure function of the whole-day difference between the
// two dates; time-of-day components are zeroed before differencing.
//
//   - more than 3 days in the past: exact historical observations
//   - the last 2 days: unavailable (provider processing delay)
//   - today through 15 days ahead: short-range forecast
//   - beyond 15 days: historical pattern prediction
//
// Exactly 3 days back routes to historical, not to the unavailable gap.
func Route(targetDate, now time.Time) (Strategy, error) {
	days := daysFromToday(targetDate, now)

	switch {
	case days <= -3:
		return StrategyHistorical, nil
	case days < 0:
		return "", ErrDataUnavailable
	case days <= 15:
		return StrategyForecast, nil
	default:
		return StrategyPattern, nil
	}
}

// daysFromToday returns the signed whole-day distance from now's calendar
// date to target's calendar date.
func daysFromToday(target, now time.Time) int {
	t := midnightUTC(target)
	n := midnightUTC(now)
	return int(t.Sub(n).Hours() / 24)
}

// midnightUTC rebuilds a time at 00:00 UTC on the same calendar date the
// value shows in its own location, so instants on either side of a zone
// boundary still difference in whole days.
func midnightUTC(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
