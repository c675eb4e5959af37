package timestamp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	rangeSeparator = "-"
	clockSeparator = ":"
)

// TimeRange is a span of a video timeline, expressed in whole seconds.
type TimeRange struct {
	Start int
	End   int
}

// Length returns the number of seconds covered by this range. Reversed
// ranges report a negative length.
func (r TimeRange) Length() int { return r.End - r.Start }

func (r TimeRange) String() string {
	return fmt.Sprintf("%s%s%s", formatClock(r.Start), rangeSeparator, formatClock(r.End))
}

// Parse converts a list of "MM:SS-MM:SS" strings in to TimeRanges. Minutes are
// not capped at 59, so "90:00" is 5400 seconds. If any item is malformed a
// *ParseError is returned describing the first offending item, and no ranges
// are returned.
//
// Parse does not validate that ranges are ordered or non-empty; that is left
// to the segment planner.
func Parse(items []string) ([]TimeRange, error) {
	ranges := make([]TimeRange, 0, len(items))
	for i, item := range items {
		r, err := ParseRange(item)
		if err != nil {
			if parseErr, ok := err.(*ParseError); ok {
				parseErr.Index = i
			}

			return nil, err
		}

		ranges = append(ranges, r)
	}

	return ranges, nil
}

// ParseRange parses a single "MM:SS-MM:SS" item.
func ParseRange(item string) (TimeRange, error) {
	tokens := strings.Split(item, rangeSeparator)
	if len(tokens) != 2 {
		return TimeRange{}, &ParseError{Input: item, Reason: fmt.Sprintf("expected exactly two MM:SS tokens separated by '%s', found %d", rangeSeparator, len(tokens))}
	}

	start, err := parseClock(tokens[0])
	if err != nil {
		return TimeRange{}, &ParseError{Input: item, Reason: fmt.Sprintf("start %s", err.Error())}
	}

	end, err := parseClock(tokens[1])
	if err != nil {
		return TimeRange{}, &ParseError{Input: item, Reason: fmt.Sprintf("end %s", err.Error())}
	}

	return TimeRange{Start: start, End: end}, nil
}

// parseClock converts "MM:SS" to seconds using raw arithmetic (minutes*60+seconds).
func parseClock(token string) (int, error) {
	parts := strings.Split(strings.TrimSpace(token), clockSeparator)
	if len(parts) != 2 {
		return 0, fmt.Errorf("token %q must contain exactly one '%s'", token, clockSeparator)
	}

	minutes, err := parseComponent(parts[0])
	if err != nil {
		return 0, fmt.Errorf("token %q has invalid minutes: %w", token, err)
	}

	seconds, err := parseComponent(parts[1])
	if err != nil {
		return 0, fmt.Errorf("token %q has invalid seconds: %w", token, err)
	}

	if minutes > (math.MaxInt-seconds)/60 {
		return 0, fmt.Errorf("token %q: %w", token, errOutOfRange)
	}

	return minutes*60 + seconds, nil
}

func parseComponent(component string) (int, error) {
	if component == "" {
		return 0, errEmptyComponent
	}

	if strings.HasPrefix(component, "-") {
		return 0, errNegative
	}

	for _, c := range component {
		if c < '0' || c > '9' {
			return 0, errNotInteger
		}
	}

	v, err := strconv.Atoi(component)
	if err != nil {
		return 0, errOutOfRange
	}

	return v, nil
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
