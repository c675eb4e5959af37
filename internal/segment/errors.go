package segment

import (
	"fmt"

	"github.com/keepr/mediakit/internal/timestamp"
)

type (
	// RangeOrderError is returned when a range is reversed, overlaps the range
	// before it, or appears out of order.
	RangeOrderError struct {
		Index  int
		Range  timestamp.TimeRange
		Cursor float64
		reason string
	}

	// OutOfBoundsError is returned when a range reaches past the end
	// of the source, or when the source has no usable duration.
	OutOfBoundsError struct {
		Index    int
		Range    timestamp.TimeRange
		Duration float64
		reason   string
	}
)

func (err *RangeOrderError) Error() string {
	return fmt.Sprintf("invalid range %s (item %d): %s", err.Range, err.Index, err.reason)
}

func (err *OutOfBoundsError) Error() string {
	if err.Range == (timestamp.TimeRange{}) {
		return fmt.Sprintf("invalid plan for duration %.3fs: %s", err.Duration, err.reason)
	}

	return fmt.Sprintf("range %s (item %d) is out of bounds for duration %.3fs: %s", err.Range, err.Index, err.Duration, err.reason)
}
