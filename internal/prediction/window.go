package prediction

import (
	"fmt"
	"strconv"
	"strings"
)

// HourWindow is an inclusive range of whole hours within one calendar day.
type HourWindow struct {
	Start int
	End   int
}

// Hours returns the number of hourly samples the window spans.
func (w HourWindow) Hours() int {
	return w.End - w.Start + 1
}

// ParseWindow parses "HH:MM" start and end hours into an HourWindow.
// Minutes are accepted but ignored: all providers are hour-aligned.
func ParseWindow(startHour, endHour string) (HourWindow, error) {
	start, err := parseHour(startHour)
	if err != nil {
		return HourWindow{}, fmt.Errorf("invalid start hour %q: %w", startHour, err)
	}

	end, err := parseHour(endHour)
	if err != nil {
		return HourWindow{}, fmt.Errorf("invalid end hour %q: %w", endHour, err)
	}

	if end < start {
		return HourWindow{}, fmt.Errorf("end hour %q precedes start hour %q", endHour, startHour)
	}

	return HourWindow{Start: start, End: end}, nil
}

func parseHour(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	return hour, nil
}
