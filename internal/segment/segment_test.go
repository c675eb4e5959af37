package segment_test

import (
	"errors"
	"testing"

	"github.com/keepr/mediakit/internal/segment"
	"github.com/keepr/mediakit/internal/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rng = timestamp.TimeRange

func assertContiguous(t *testing.T, duration float64, segments []segment.Segment) {
	require.NotEmpty(t, segments)
	assert.Equal(t, 0.0, segments[0].Start, "first segment must start at zero")
	assert.Equal(t, duration, segments[len(segments)-1].End, "last segment must end at the duration")
	for i := 1; i < len(segments); i++ {
		assert.Equal(t, segments[i-1].End, segments[i].Start, "segment %d must start where segment %d ends", i, i-1)
	}
	for _, s := range segments {
		assert.Greater(t, s.Duration(), 0.0, "segment %s must not be empty", s)
	}
	assert.InDelta(t, duration, segment.TotalDuration(segments), 1e-9)
}

func Test_Plan_SingleRange(t *testing.T) {
	segments, err := segment.Plan(60, []rng{{Start: 2, End: 54}})
	require.NoError(t, err)
	assert.Equal(t, []segment.Segment{
		{Start: 0, End: 2, Kind: segment.Normal},
		{Start: 2, End: 54, Kind: segment.SpedUp},
		{Start: 54, End: 60, Kind: segment.Normal},
	}, segments)
	assertContiguous(t, 60, segments)
}

func Test_Plan_NoRanges(t *testing.T) {
	segments, err := segment.Plan(42.5, nil)
	require.NoError(t, err)
	assert.Equal(t, []segment.Segment{{Start: 0, End: 42.5, Kind: segment.Normal}}, segments)
}

func Test_Plan_ZeroLengthRangeKeepsNormalRun(t *testing.T) {
	segments, err := segment.Plan(30, []rng{{Start: 5, End: 5}, {Start: 10, End: 12}})
	require.NoError(t, err)
	assert.Equal(t, []segment.Segment{
		{Start: 0, End: 10, Kind: segment.Normal},
		{Start: 10, End: 12, Kind: segment.SpedUp},
		{Start: 12, End: 30, Kind: segment.Normal},
	}, segments)

	segments, err = segment.Plan(30, []rng{{Start: 0, End: 0}, {Start: 30, End: 30}})
	require.NoError(t, err)
	assert.Equal(t, []segment.Segment{{Start: 0, End: 30, Kind: segment.Normal}}, segments)

	// The skipped range still moves the cursor, so later ranges must follow it.
	_, err = segment.Plan(30, []rng{{Start: 5, End: 5}, {Start: 3, End: 4}})
	var orderErr *segment.RangeOrderError
	assert.ErrorAs(t, err, &orderErr)
}

func Test_Plan_Coverage(t *testing.T) {
	tests := []struct {
		summary  string
		duration float64
		ranges   []rng
		kinds    []segment.Kind
	}{
		{"Range at start", 30, []rng{{Start: 0, End: 10}}, []segment.Kind{segment.SpedUp, segment.Normal}},
		{"Range at end", 30, []rng{{Start: 10, End: 30}}, []segment.Kind{segment.Normal, segment.SpedUp}},
		{"Whole video", 30, []rng{{Start: 0, End: 30}}, []segment.Kind{segment.SpedUp}},
		{"Adjacent ranges", 30, []rng{{Start: 5, End: 10}, {Start: 10, End: 20}}, []segment.Kind{segment.Normal, segment.SpedUp, segment.SpedUp, segment.Normal}},
		{"Gapped ranges", 30, []rng{{Start: 0, End: 5}, {Start: 10, End: 15}, {Start: 20, End: 25}}, []segment.Kind{
			segment.SpedUp, segment.Normal, segment.SpedUp, segment.Normal, segment.SpedUp, segment.Normal,
		}},
		{"Fractional duration", 30.48, []rng{{Start: 29, End: 30}}, []segment.Kind{segment.Normal, segment.SpedUp, segment.Normal}},
		{"Zero length range skipped", 30, []rng{{Start: 5, End: 5}, {Start: 10, End: 12}}, []segment.Kind{segment.Normal, segment.SpedUp, segment.Normal}},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			segments, err := segment.Plan(tt.duration, tt.ranges)
			require.NoError(t, err)
			assertContiguous(t, tt.duration, segments)

			kinds := make([]segment.Kind, len(segments))
			for i, s := range segments {
				kinds[i] = s.Kind
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func Test_Plan_RangeOrder(t *testing.T) {
	tests := []struct {
		summary string
		ranges  []rng
		index   int
	}{
		{"Reversed range", []rng{{Start: 20, End: 10}}, 0},
		{"Overlapping ranges", []rng{{Start: 0, End: 10}, {Start: 5, End: 15}}, 1},
		{"Out of order ranges", []rng{{Start: 20, End: 25}, {Start: 0, End: 5}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			segments, err := segment.Plan(60, tt.ranges)
			assert.Nil(t, segments)

			var orderErr *segment.RangeOrderError
			if assert.True(t, errors.As(err, &orderErr), "expected *RangeOrderError, got %T", err) {
				assert.Equal(t, tt.index, orderErr.Index)
			}
		})
	}
}

func Test_Plan_OutOfBounds(t *testing.T) {
	segments, err := segment.Plan(60, []rng{{Start: 10, End: 20}, {Start: 50, End: 61}})
	assert.Nil(t, segments)

	var boundsErr *segment.OutOfBoundsError
	if assert.True(t, errors.As(err, &boundsErr), "expected *OutOfBoundsError, got %T", err) {
		assert.Equal(t, 1, boundsErr.Index)
		assert.Equal(t, 60.0, boundsErr.Duration)
	}

	_, err = segment.Plan(0, nil)
	assert.True(t, errors.As(err, &boundsErr), "zero duration must be rejected")
}

func Test_OutputDuration(t *testing.T) {
	segments, err := segment.Plan(60, []rng{{Start: 2, End: 54}})
	require.NoError(t, err)

	assert.InDelta(t, 2+26+6, segment.OutputDuration(segments, 2), 1e-9)
	assert.InDelta(t, 2+104+6, segment.OutputDuration(segments, 0.5), 1e-9)
	assert.InDelta(t, 60, segment.OutputDuration(segments, 1), 1e-9)
}
