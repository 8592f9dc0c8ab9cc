package market

import "time"

// Window is a daily trading window over local hours, open at [Open, Close).
// Close may be 24 to run through the end of the day.
type Window struct {
	Open  int `json:"open" yaml:"open"`
	Close int `json:"close" yaml:"close"`
}

// Session decides whether trading is allowed at a given wall-clock time.
// The market follows a daily schedule of one or more windows; time between
// windows (and between midnight and the first window) is closed.
type Session struct {
	windows []Window
}

// DefaultWindows is the exchange schedule: a morning block from 09:00 to
// 14:00 and an evening block from 16:00 through end of day.
var DefaultWindows = []Window{
	{Open: 9, Close: 14},
	{Open: 16, Close: 24},
}

func NewSession(windows []Window) *Session {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	return &Session{windows: windows}
}

// Open reports whether now falls inside any trading window.
func (s *Session) Open(now time.Time) bool {
	h := now.Hour()
	for _, w := range s.windows {
		if h >= w.Open && h < w.Close {
			return true
		}
	}
	return false
}

// NextBoundary returns the next session transition after now: the upcoming
// close when the market is open, the upcoming open when it is closed. A
// window closing at 24 reports 23:59:59 of the same day rather than midnight.
func (s *Session) NextBoundary(now time.Time) time.Time {
	h := now.Hour()

	for _, w := range s.windows {
		if h >= w.Open && h < w.Close {
			if w.Close == 24 {
				return at(now, 23, 59, 59)
			}
			return at(now, w.Close, 0, 0)
		}
	}

	for _, w := range s.windows {
		if h < w.Open {
			return at(now, w.Open, 0, 0)
		}
	}

	// Past every window today; first window tomorrow.
	return at(now.AddDate(0, 0, 1), s.windows[0].Open, 0, 0)
}

func at(day time.Time, hour, min, sec int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, sec, 0, day.Location())
}
