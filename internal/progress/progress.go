package progress

import "time"

// DayKeyLayout history map keys are calendar days in this layout
const DayKeyLayout = "2006-01-02"

// Direction tells which side of the goal counts as success. Screen time
// budgets want usage at or under the goal, workout style goals want it at or
// over; the same engine serves both.
type Direction int

const (
	// Minimize a day qualifies when minutes <= goal
	Minimize Direction = iota
	// Maximize a day qualifies when minutes >= goal
	Maximize
)

// Snapshot today's completion against the daily goal
type Snapshot struct {
	UsedMinutes int     `json:"used_minutes"`
	Percent     float64 `json:"percent"`
}

// Daily computes completion of usedMinutes against goalMinutes. Percent is
// clamped to [0, 1] and is 0 when the goal is unset; rounding to a display
// percentage is the caller's business.
func Daily(goalMinutes, usedMinutes int) Snapshot {
	pct := 0.0
	if goalMinutes > 0 {
		pct = float64(usedMinutes) / float64(goalMinutes)
		if pct > 1 {
			pct = 1
		}
		if pct < 0 {
			pct = 0
		}
	}
	return Snapshot{
		UsedMinutes: usedMinutes,
		Percent:     pct,
	}
}

// Streak counts consecutive qualifying days walking backward from today.
// history maps DayKeyLayout day strings to recorded minutes. The walk stops at
// the first day with no entry, a zero goal, or minutes on the wrong side of
// the goal; it never skips gaps.
func Streak(goalMinutes int, direction Direction, history map[string]int, today time.Time) int {
	streak := 0
	cursor := StartOfDay(today)
	for {
		minutes, ok := history[cursor.Format(DayKeyLayout)]
		if !ok || goalMinutes == 0 || !qualifies(goalMinutes, direction, minutes) {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func qualifies(goalMinutes int, direction Direction, minutes int) bool {
	if direction == Maximize {
		return minutes >= goalMinutes
	}
	return minutes <= goalMinutes
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
