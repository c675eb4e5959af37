// Package segment partitions a video timeline in to the ordered list of
// normal and sped-up segments that make up a speed transform.
package segment

import (
	"fmt"

	"github.com/keepr/mediakit/internal/timestamp"
)

// Kind marks whether a segment plays at its original speed or
// has the speed multiplier applied.
type Kind int

const (
	Normal Kind = iota
	SpedUp
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case SpedUp:
		return "sped_up"
	default:
		return fmt.Sprintf("UNKNOWN[%d]", int(k))
	}
}

// Segment is a reference in to the source timeline, in seconds. It owns no
// media; the encode step is responsible for materialising it.
type Segment struct {
	Start float64
	End   float64
	Kind  Kind
}

// Duration returns the length of this segment in the source timeline.
func (s Segment) Duration() float64 { return s.End - s.Start }

func (s Segment) String() string {
	return fmt.Sprintf("%s[%.3f,%.3f)", s.Kind, s.Start, s.End)
}

// Plan walks the ranges against a cursor that starts at zero, emitting a Normal
// segment for any gap before a range, a SpedUp segment for the range itself, and
// a final Normal segment for whatever remains of the timeline after the last range.
//
// Ranges must be in order and must not overlap (a range may start exactly where the
// previous one ended). Ranges with start == end are skipped. A range that ends
// beyond the duration is rejected rather than clamped.
func Plan(duration float64, ranges []timestamp.TimeRange) ([]Segment, error) {
	if duration <= 0 {
		return nil, &OutOfBoundsError{Duration: duration, reason: "source duration must be positive"}
	}

	segments := make([]Segment, 0, len(ranges)*2+1)
	cursor := 0.0
	for i, r := range ranges {
		start, end := float64(r.Start), float64(r.End)
		if r.End < r.Start {
			return nil, &RangeOrderError{Index: i, Range: r, reason: "range ends before it starts"}
		}
		if start < cursor {
			return nil, &RangeOrderError{Index: i, Range: r, Cursor: cursor, reason: "range starts before the end of the previous range"}
		}
		if end > duration {
			return nil, &OutOfBoundsError{Index: i, Range: r, Duration: duration, reason: "range ends beyond the end of the source"}
		}

		if cursor < start {
			segments = appendNormal(segments, cursor, start)
		}

		if start < end {
			segments = append(segments, Segment{Start: start, End: end, Kind: SpedUp})
		}

		cursor = end
	}

	if cursor < duration {
		segments = appendNormal(segments, cursor, duration)
	}

	return segments, nil
}

// appendNormal extends a trailing Normal segment ending at start rather than
// emitting a second one, so a skipped zero-length range never splits a run.
func appendNormal(segments []Segment, start float64, end float64) []Segment {
	if n := len(segments); n > 0 && segments[n-1].Kind == Normal && segments[n-1].End == start {
		segments[n-1].End = end
		return segments
	}

	return append(segments, Segment{Start: start, End: end, Kind: Normal})
}

// TotalDuration sums the source duration covered by the segments.
func TotalDuration(segments []Segment) float64 {
	total := 0.0
	for _, s := range segments {
		total += s.Duration()
	}

	return total
}

// OutputDuration returns the expected duration of the rendered output once
// speed has been applied to every SpedUp segment.
func OutputDuration(segments []Segment, speed float64) float64 {
	total := 0.0
	for _, s := range segments {
		if s.Kind == SpedUp {
			total += s.Duration() / speed
		} else {
			total += s.Duration()
		}
	}

	return total
}
