// internal/calendar/policy.go
package calendar

import (
	"fmt"
	"strings"
	"time"

	"hr-screening/internal/common/config"
)

const dateLayout = "2006-01-02"

// Window is one half-open business window within a day, stored as minutes
// since midnight. [Start, End).
type Window struct {
	Start int
	End   int
}

// ParseWindow parses "HH:MM" start/end clock times into a Window.
func ParseWindow(start, end string) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, fmt.Errorf("window start %s not before end %s", start, end)
	}
	return Window{Start: s, End: e}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// StartOn returns the window's opening instant on the given calendar day.
func (w Window) StartOn(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, w.Start/60, w.Start%60, 0, 0, day.Location())
}

// EndOn returns the window's closing instant (exclusive) on the given day.
func (w Window) EndOn(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, w.End/60, w.End%60, 0, 0, day.Location())
}

// Policy defines when interviews may be scheduled: business windows,
// the weekday rule, and the holiday set. Read-only after construction.
type Policy struct {
	windows  []Window
	holidays map[string]struct{}
	loc      *time.Location
}

// New builds a Policy. Holidays are YYYY-MM-DD dates.
func New(windows []Window, holidays []string, loc *time.Location) (*Policy, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("at least one business window is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	hs := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		if _, err := time.Parse(dateLayout, h); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", h, err)
		}
		hs[h] = struct{}{}
	}
	return &Policy{windows: windows, holidays: hs, loc: loc}, nil
}

// FromConfig builds a Policy from the interview configuration section.
func FromConfig(cfg config.InterviewConfig) (*Policy, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	windows := make([]Window, 0, len(cfg.Windows))
	for _, w := range cfg.Windows {
		win, err := ParseWindow(w.Start, w.End)
		if err != nil {
			return nil, err
		}
		windows = append(windows, win)
	}
	return New(windows, cfg.Holidays, loc)
}

// Location returns the scheduling timezone.
func (p *Policy) Location() *time.Location {
	return p.loc
}

// Windows returns the configured business windows in day order.
func (p *Policy) Windows() []Window {
	return p.windows
}

// IsWeekday reports whether t falls on Monday through Friday.
func (p *Policy) IsWeekday(t time.Time) bool {
	wd := t.In(p.loc).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsHoliday reports whether t's date is in the holiday set.
func (p *Policy) IsHoliday(t time.Time) bool {
	_, ok := p.holidays[t.In(p.loc).Format(dateLayout)]
	return ok
}

// IsWorkday reports whether t's date is a non-holiday weekday.
func (p *Policy) IsWorkday(t time.Time) bool {
	return p.IsWeekday(t) && !p.IsHoliday(t)
}

// FitsWindow reports whether [start, start+d) lies fully within one business
// window without crossing the window boundary.
func (p *Policy) FitsWindow(start time.Time, d time.Duration) bool {
	local := start.In(p.loc)
	end := local.Add(d)
	if end.Day() != local.Day() {
		return false
	}
	startMin := local.Hour()*60 + local.Minute()
	endMin := startMin + int(d.Minutes())
	for _, w := range p.windows {
		if startMin >= w.Start && endMin <= w.End {
			return true
		}
	}
	return false
}
