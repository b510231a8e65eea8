// Package clock provides the process-wide time source used for every
// timestamp the tracker writes.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Zoned is a Clock that reports wall time in a fixed UTC offset.
type Zoned struct {
	loc *time.Location
}

// NewZoned returns a Clock pinned to loc.
func NewZoned(loc *time.Location) Zoned {
	if loc == nil {
		loc = time.UTC
	}
	return Zoned{loc: loc}
}

// Now returns the current time in the clock's location.
func (z Zoned) Now() time.Time {
	return time.Now().In(z.loc)
}

// Location returns the clock's location.
func (z Zoned) Location() *time.Location {
	return z.loc
}

// ParseOffset turns "+08:00", "-0530", "+8" or "Z" into a fixed zone.
func ParseOffset(offset string) (*time.Location, error) {
	s := strings.TrimSpace(offset)
	if s == "" || strings.EqualFold(s, "z") || strings.EqualFold(s, "utc") {
		return time.UTC, nil
	}

	sign := 1
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	default:
		return nil, fmt.Errorf("invalid utc offset %q: must start with + or -", offset)
	}

	var hh, mm string
	switch {
	case strings.Contains(s, ":"):
		parts := strings.SplitN(s, ":", 2)
		hh, mm = parts[0], parts[1]
	case len(s) == 4:
		hh, mm = s[:2], s[2:]
	default:
		hh, mm = s, "0"
	}

	hours, err := strconv.Atoi(hh)
	if err != nil {
		return nil, fmt.Errorf("invalid utc offset %q: %w", offset, err)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return nil, fmt.Errorf("invalid utc offset %q: %w", offset, err)
	}
	if hours > 14 || minutes > 59 || hours < 0 || minutes < 0 {
		return nil, fmt.Errorf("invalid utc offset %q: out of range", offset)
	}

	secs := sign * (hours*3600 + minutes*60)
	name := fmt.Sprintf("UTC%s%02d:%02d", signString(sign), hours, minutes)
	return time.FixedZone(name, secs), nil
}

func signString(sign int) string {
	if sign < 0 {
		return "-"
	}
	return "+"
}

// Manual is a Clock whose time only moves when told to. Safe for
// concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the clock's current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
