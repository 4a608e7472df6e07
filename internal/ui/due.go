package ui

import (
	"fmt"
	"time"
)

// DateLayout is how due dates are shown and parsed without a time part.
const DateLayout = "2006-01-02"

// Relative describes how far due is from now: "in 3h", "2d overdue".
func Relative(due, now time.Time) string {
	d := due.Sub(now)
	if d < 0 {
		return span(-d) + " overdue"
	}
	return "in " + span(d)
}

func span(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
}

// FormatDue renders a due date in local time, dropping midnight times.
func FormatDue(due time.Time) string {
	if due.IsZero() {
		return "no date"
	}
	local := due.Local()
	if local.Hour() == 0 && local.Minute() == 0 {
		return local.Format(DateLayout)
	}
	return local.Format(DateLayout + " 15:04")
}

// ParseDue accepts RFC 3339, "2006-01-02 15:04", "2006-01-02" (local
// midnight) or a "+duration" offset from now such as "+90m" or "+2d".
func ParseDue(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}
	if s[0] == '+' {
		return parseOffset(s[1:], now)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout+" 15:04", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}

func parseOffset(s string, now time.Time) (time.Time, error) {
	if n := len(s); n > 1 && s[n-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s[:n-1], "%d", &days); err != nil {
			return time.Time{}, fmt.Errorf("bad day offset %q", s)
		}
		return now.AddDate(0, 0, days), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad offset %q: %w", s, err)
	}
	return now.Add(d), nil
}
