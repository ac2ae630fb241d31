// Package timeslot enumerates evenly spaced time-of-day points within a
// bounded range and validates fixed-duration selections over them.
package timeslot

import (
	"errors"
	"regexp"
	"time"
)

const (
	DefaultStepMinutes     = 30
	DefaultDurationMinutes = 60
)

var (
	ErrBadBound      = errors.New("time bound does not parse")
	ErrInvertedRange = errors.New("range start is after range end")
	ErrBadStep       = errors.New("step and duration must be positive")
)

var clockRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock parses a strict 24-hour "HH:mm" string onto the anchor day.
// Anything else, including partial strings like "09", is rejected.
func ParseClock(anchor time.Time, s string) (time.Time, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	min := int(s[3]-'0')*10 + int(s[4]-'0')
	y, mo, d := anchor.Date()
	return time.Date(y, mo, d, h, min, 0, 0, anchor.Location()), true
}

// resolveBound accepts either a strict "HH:mm" clock or an RFC 3339
// date-time, both resolved against the anchor's calendar day / location.
func resolveBound(anchor time.Time, v string) (time.Time, bool) {
	if t, ok := ParseClock(anchor, v); ok {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Range is an accepted selection. End is always Start plus the configured
// duration, never derived from the visual marker count.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Picker holds an enumerated slot set for one anchor day. A Picker in the
// error state exposes the error and zero slots; it never panics.
type Picker struct {
	anchor   time.Time
	stepMin  int
	durMin   int
	postEnd  bool
	disabled func(time.Time) bool

	slots []time.Time
	err   error
}

// Option configures a Picker before validation runs.
type Option func(*Picker)

// WithStep sets the slot spacing in minutes. Zero or negative values put
// the picker in the error state rather than falling back to the default.
func WithStep(minutes int) Option {
	return func(p *Picker) { p.stepMin = minutes }
}

// WithDuration sets the selection length in minutes.
func WithDuration(minutes int) Option {
	return func(p *Picker) { p.durMin = minutes }
}

// WithoutPostEndMarker drops the trailing boundary marker from the
// visual span.
func WithoutPostEndMarker() Option {
	return func(p *Picker) { p.postEnd = false }
}

// WithDisabled supplies the predicate consulted before a pick is accepted.
func WithDisabled(fn func(time.Time) bool) Option {
	return func(p *Picker) { p.disabled = fn }
}

// WithAnchor fixes the calendar day clock bounds resolve against.
// Defaults to today.
func WithAnchor(t time.Time) Option {
	return func(p *Picker) { p.anchor = t }
}

// New enumerates slots between from and to. Both bounds accept strict
// "HH:mm" clocks or RFC 3339 date-times.
func New(from, to string, opts ...Option) *Picker {
	p := &Picker{
		anchor:  time.Now(),
		stepMin: DefaultStepMinutes,
		durMin:  DefaultDurationMinutes,
		postEnd: true,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.stepMin <= 0 || p.durMin <= 0 {
		p.err = ErrBadStep
		return p
	}
	start, ok := resolveBound(p.anchor, from)
	if !ok {
		p.err = ErrBadBound
		return p
	}
	end, ok := resolveBound(p.anchor, to)
	if !ok {
		p.err = ErrBadBound
		return p
	}
	if start.After(end) {
		p.err = ErrInvertedRange
		return p
	}

	step := time.Duration(p.stepMin) * time.Minute
	span := end.Sub(start)
	if span < 0 {
		span = 0
	}
	count := int(span/step) + 1
	p.slots = make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		p.slots = append(p.slots, start.Add(time.Duration(i)*step))
	}
	return p
}

// Err reports the validation error, if any.
func (p *Picker) Err() error {
	return p.err
}

// Slots returns the enumerated points, oldest first. Empty in the error
// state.
func (p *Picker) Slots() []time.Time {
	out := make([]time.Time, len(p.slots))
	copy(out, p.slots)
	return out
}

// MarkersCount is the number of consecutive slot positions a selection
// spans visually: whole-slot cover of the duration plus one, plus the
// post-end marker when enabled.
func (p *Picker) MarkersCount() int {
	if p.err != nil {
		return 0
	}
	count := p.durMin/p.stepMin + 1
	if p.postEnd {
		count++
	}
	return count
}

// Pick validates a click on slot index i. The span must fit inside the
// slot set and every covered slot short of the trailing post-end marker
// must pass the disabled predicate. On success the selection's real end
// is start plus the duration.
func (p *Picker) Pick(i int) (Range, bool) {
	if p.err != nil || i < 0 || i >= len(p.slots) {
		return Range{}, false
	}
	markers := p.MarkersCount()
	tail := i + markers - 1
	if tail > len(p.slots)-1 {
		return Range{}, false
	}

	covered := markers
	if p.postEnd {
		covered--
	}
	if p.disabled != nil {
		for j := i; j < i+covered; j++ {
			if p.disabled(p.slots[j]) {
				return Range{}, false
			}
		}
	}

	start := p.slots[i]
	return Range{Start: start, End: start.Add(time.Duration(p.durMin) * time.Minute)}, true
}

// Highlighted reports whether slot time t falls inside the selection,
// inclusive of both ends. The post-end marker beyond End is never
// highlighted.
func (p *Picker) Highlighted(sel Range, t time.Time) bool {
	return !t.Before(sel.Start) && !t.After(sel.End)
}
