package timeslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func clock(h, m int) time.Time {
	return time.Date(2026, 6, 1, h, m, 0, 0, time.UTC)
}

func TestEnumerationInclusiveBounds(t *testing.T) {
	p := New("09:00", "10:30", WithAnchor(anchor))
	require.NoError(t, p.Err())

	slots := p.Slots()
	require.Len(t, slots, 4)
	assert.Equal(t, clock(9, 0), slots[0])
	assert.Equal(t, clock(9, 30), slots[1])
	assert.Equal(t, clock(10, 0), slots[2])
	assert.Equal(t, clock(10, 30), slots[3])
}

func TestEnumerationDegenerateRange(t *testing.T) {
	p := New("09:00", "09:00", WithAnchor(anchor))
	require.NoError(t, p.Err())
	require.Len(t, p.Slots(), 1)
	assert.Equal(t, clock(9, 0), p.Slots()[0])
}

func TestEnumerationRFC3339Bounds(t *testing.T) {
	p := New("2026-06-01T09:00:00Z", "2026-06-01T10:00:00Z", WithStep(60))
	require.NoError(t, p.Err())
	require.Len(t, p.Slots(), 2)
}

func TestMarkersCount(t *testing.T) {
	p := New("09:00", "12:00", WithAnchor(anchor))
	// 60/30 cover + start marker + post-end marker.
	assert.Equal(t, 4, p.MarkersCount())

	noTail := New("09:00", "12:00", WithAnchor(anchor), WithoutPostEndMarker())
	assert.Equal(t, 3, noTail.MarkersCount())

	bad := New("09", "12:00", WithAnchor(anchor))
	assert.Equal(t, 0, bad.MarkersCount())
}

func TestPickFitsWithinSlots(t *testing.T) {
	// Slots: 09:00 09:30 10:00 10:30.
	p := New("09:00", "10:30", WithAnchor(anchor))
	require.NoError(t, p.Err())
	require.Equal(t, 4, p.MarkersCount())

	sel, ok := p.Pick(0)
	require.True(t, ok)
	assert.Equal(t, clock(9, 0), sel.Start)
	// End is start plus duration, not the post-end marker.
	assert.Equal(t, clock(10, 0), sel.End)

	_, ok = p.Pick(1)
	assert.False(t, ok, "span would run past the last slot")

	_, ok = p.Pick(-1)
	assert.False(t, ok)
	_, ok = p.Pick(4)
	assert.False(t, ok)
}

func TestPickWithoutPostEndMarker(t *testing.T) {
	p := New("09:00", "10:30", WithAnchor(anchor), WithoutPostEndMarker())

	sel, ok := p.Pick(1)
	require.True(t, ok)
	assert.Equal(t, clock(9, 30), sel.Start)
	assert.Equal(t, clock(10, 30), sel.End)

	_, ok = p.Pick(2)
	assert.False(t, ok)
}

func TestPickSkipsDisabledSlots(t *testing.T) {
	p := New("09:00", "12:00", WithAnchor(anchor),
		WithDisabled(func(at time.Time) bool { return at.Equal(clock(9, 30)) }))

	_, ok := p.Pick(0)
	assert.False(t, ok, "covered slot 09:30 is disabled")
	_, ok = p.Pick(1)
	assert.False(t, ok, "start slot itself is disabled")

	sel, ok := p.Pick(2)
	require.True(t, ok)
	assert.Equal(t, clock(10, 0), sel.Start)
}

func TestPickIgnoresDisabledPostEndMarker(t *testing.T) {
	// Slots: 09:00..10:30. Picking 09:00 covers 09:00-10:00; the marker at
	// 10:30 is visual only and must not veto the pick.
	p := New("09:00", "10:30", WithAnchor(anchor),
		WithDisabled(func(at time.Time) bool { return at.Equal(clock(10, 30)) }))

	_, ok := p.Pick(0)
	assert.True(t, ok)
}

func TestInvalidBoundsAndConfig(t *testing.T) {
	cases := []struct {
		name string
		p    *Picker
		err  error
	}{
		{"partial clock", New("09", "10:30", WithAnchor(anchor)), ErrBadBound},
		{"out of range clock", New("25:00", "26:00", WithAnchor(anchor)), ErrBadBound},
		{"inverted", New("12:00", "09:00", WithAnchor(anchor)), ErrInvertedRange},
		{"zero step", New("09:00", "10:30", WithAnchor(anchor), WithStep(0)), ErrBadStep},
		{"negative duration", New("09:00", "10:30", WithAnchor(anchor), WithDuration(-30)), ErrBadStep},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.p.Err(), tc.err)
			assert.Empty(t, tc.p.Slots())
			_, ok := tc.p.Pick(0)
			assert.False(t, ok)
		})
	}
}

func TestParseClockStrictness(t *testing.T) {
	for _, bad := range []string{"", "09", "9:00", "09:5", "24:00", "09:60", "09:00:00", " 09:00"} {
		_, ok := ParseClock(anchor, bad)
		assert.False(t, ok, "%q should not parse", bad)
	}

	at, ok := ParseClock(anchor, "23:59")
	require.True(t, ok)
	assert.Equal(t, clock(23, 59), at)
}

func TestHighlightedInclusiveEnds(t *testing.T) {
	p := New("09:00", "12:00", WithAnchor(anchor))
	sel, ok := p.Pick(0)
	require.True(t, ok)

	assert.True(t, p.Highlighted(sel, clock(9, 0)))
	assert.True(t, p.Highlighted(sel, clock(9, 30)))
	assert.True(t, p.Highlighted(sel, clock(10, 0)))
	assert.False(t, p.Highlighted(sel, clock(10, 30)))
	assert.False(t, p.Highlighted(sel, clock(8, 30)))
}
