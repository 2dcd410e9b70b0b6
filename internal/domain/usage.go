package domain

import (
	"context"
	"time"

	"github.com/goalstake/goalstake-server/internal/progress"
)

// AppUsage per-app share of a day's usage
type AppUsage struct {
	AppName     string `json:"app_name"`
	MinutesUsed int    `json:"minutes_used"`
}

// UsageEntryModel one user's recorded usage for one calendar day.
//
// The ID is derived from (user, day) so that saving the same day again
// replaces the previous record instead of duplicating it. Entries are whole
// records, never patched field by field.
type UsageEntryModel struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Date          time.Time  `json:"date"` // start of day
	MinutesUsed   int        `json:"minutes_used"`
	WeeklyMinutes int        `json:"weekly_minutes,omitempty"`
	DailyAverage  int        `json:"daily_average,omitempty"`
	AppUsage      []AppUsage `json:"app_usage,omitempty"` // descending by minutes
}

// UsageEntryID deterministic entry key for a user and a calendar day
func UsageEntryID(userID string, day time.Time) string {
	return userID + "_" + day.Format(progress.DayKeyLayout)
}

// ProgressReport today's completion and the running streak
type ProgressReport struct {
	GoalMinutes int               `json:"goal_minutes"`
	Today       progress.Snapshot `json:"today"`
	StreakDays  int               `json:"streak_days"`
}

// WeeklySummary aggregates of the current Monday-based week
type WeeklySummary struct {
	WeekStart    time.Time          `json:"week_start"`
	WeekEnd      time.Time          `json:"week_end"`
	TotalMinutes int                `json:"total_minutes"`
	GoalMinutes  int                `json:"goal_minutes"` // daily goal * 7
	Entries      []*UsageEntryModel `json:"entries"`
}

type UsageRepository interface {
	UpsertEntry(ctx context.Context, entry *UsageEntryModel) error
	GetEntry(ctx context.Context, userID string, day time.Time) (*UsageEntryModel, error)
	ListEntriesInRange(ctx context.Context, userID string, from, to time.Time) ([]*UsageEntryModel, error)
	MinutesByDay(ctx context.Context, userID string) (map[string]int, error)
}

type UsageUseCase interface {
	RecordScreenshot(ctx context.Context, user *UserModel, imageURL, recognizedText string, day time.Time) (*UsageEntryModel, error)
	RecordManual(ctx context.Context, user *UserModel, minutes int, day time.Time) (*UsageEntryModel, error)
	GetProgress(ctx context.Context, user *UserModel, today time.Time) (*ProgressReport, error)
	GetWeeklySummary(ctx context.Context, user *UserModel, at time.Time) (*WeeklySummary, error)
}
