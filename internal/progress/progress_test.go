package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(t time.Time, offset int) string {
	return StartOfDay(t).AddDate(0, 0, offset).Format(DayKeyLayout)
}

func TestDaily(t *testing.T) {
	cases := []struct {
		name    string
		goal    int
		used    int
		percent float64
	}{
		{"zero goal guards division", 0, 50, 0},
		{"half way", 100, 50, 0.5},
		{"exactly on goal", 100, 100, 1},
		{"over goal is clamped", 100, 150, 1},
		{"nothing used", 100, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snapshot := Daily(c.goal, c.used)
			assert.Equal(t, c.percent, snapshot.Percent)
			assert.Equal(t, c.used, snapshot.UsedMinutes)
		})
	}
}

func TestStreak_EmptyHistory(t *testing.T) {
	assert.Equal(t, 0, Streak(120, Minimize, map[string]int{}, time.Now()))
	assert.Equal(t, 0, Streak(120, Minimize, nil, time.Now()))
}

func TestStreak_ZeroGoal(t *testing.T) {
	now := time.Now()
	history := map[string]int{day(now, 0): 30}
	assert.Equal(t, 0, Streak(0, Minimize, history, now))
}

func TestStreak_Minimize(t *testing.T) {
	now := time.Now()
	history := map[string]int{
		day(now, 0):  90,
		day(now, -1): 120, // on the goal still counts
		day(now, -2): 45,
	}
	assert.Equal(t, 3, Streak(120, Minimize, history, now))
}

func TestStreak_Maximize(t *testing.T) {
	now := time.Now()
	history := map[string]int{
		day(now, 0):  45,
		day(now, -1): 30, // on the goal still counts
		day(now, -2): 10, // under a workout goal breaks it
		day(now, -3): 60,
	}
	assert.Equal(t, 2, Streak(30, Maximize, history, now))
}

func TestStreak_StopsAtFirstViolation(t *testing.T) {
	now := time.Now()
	history := map[string]int{
		day(now, 0):  60,
		day(now, -1): 200, // over budget
		day(now, -2): 30,  // would qualify, but the walk never skips
		day(now, -3): 30,
	}
	assert.Equal(t, 1, Streak(120, Minimize, history, now))
}

func TestStreak_StopsAtGap(t *testing.T) {
	now := time.Now()
	history := map[string]int{
		day(now, 0): 60,
		// no entry yesterday
		day(now, -2): 60,
	}
	assert.Equal(t, 1, Streak(120, Minimize, history, now))
}

func TestStreak_TodayMissing(t *testing.T) {
	now := time.Now()
	history := map[string]int{day(now, -1): 60}
	assert.Equal(t, 0, Streak(120, Minimize, history, now))
}
