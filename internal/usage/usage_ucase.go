package usage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/extraction"
	"github.com/goalstake/goalstake-server/internal/infrastructure/driver"
	"github.com/goalstake/goalstake-server/internal/progress"
	"github.com/goalstake/goalstake-server/internal/recognize"
	"go.elastic.co/apm"
)

// weeklyCacheTTL weekly summaries are cheap to rebuild, keep the cache short
const weeklyCacheTTL = 5 * time.Minute

// UsageUseCaseImpl ...
type UsageUseCaseImpl struct {
	UsageRepository domain.UsageRepository
	Recognizer      recognize.Recognizer
	KeyValueDB      driver.KeyValueDB
}

var _ domain.UsageUseCase = &UsageUseCaseImpl{}

// NewUsageUseCase ...
func NewUsageUseCase(
	UsageRepository domain.UsageRepository,
	Recognizer recognize.Recognizer,
	KeyValueDB driver.KeyValueDB,
) *UsageUseCaseImpl {
	return &UsageUseCaseImpl{
		UsageRepository: UsageRepository,
		Recognizer:      Recognizer,
		KeyValueDB:      KeyValueDB,
	}
}

// RecordScreenshot turns a screen time screenshot into the day's usage entry.
// The caller supplies either text already recognized on the client or an image
// URL to run through the recognition service. Saving the same day twice
// replaces the earlier entry.
func (uu *UsageUseCaseImpl) RecordScreenshot(ctx context.Context, user *domain.UserModel, imageURL, recognizedText string, day time.Time) (*domain.UsageEntryModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UsageUseCaseImpl.RecordScreenshot", "service")
	defer apmSpan.End()

	text := recognizedText
	if text == "" {
		recognized, err := uu.Recognizer.RecognizeImage(ctx, imageURL)
		if err != nil {
			return nil, err
		}
		text = recognized
	}

	extracted, err := extraction.Extract(text)
	if err != nil {
		return nil, err
	}

	entry := uu.newEntry(user.ID, day)
	entry.MinutesUsed = extracted.DailyMinutes
	entry.WeeklyMinutes = extracted.WeeklyMinutes
	entry.DailyAverage = extracted.DailyAverage
	for _, app := range extracted.AppUsage {
		entry.AppUsage = append(entry.AppUsage, domain.AppUsage{
			AppName:     app.AppName,
			MinutesUsed: app.MinutesUsed,
		})
	}

	if err := uu.saveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordManual saves a hand entered minute count for the day
func (uu *UsageUseCaseImpl) RecordManual(ctx context.Context, user *domain.UserModel, minutes int, day time.Time) (*domain.UsageEntryModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UsageUseCaseImpl.RecordManual", "service")
	defer apmSpan.End()

	if minutes < 0 {
		return nil, domain.ErrInvalidMinutes
	}

	entry := uu.newEntry(user.ID, day)
	entry.MinutesUsed = minutes

	if err := uu.saveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetProgress reports today's completion against the user's daily goal plus
// the current streak of qualifying days
func (uu *UsageUseCaseImpl) GetProgress(ctx context.Context, user *domain.UserModel, today time.Time) (*domain.ProgressReport, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UsageUseCaseImpl.GetProgress", "service")
	defer apmSpan.End()

	history, err := uu.UsageRepository.MinutesByDay(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	day := progress.StartOfDay(today)
	used := history[day.Format(progress.DayKeyLayout)]
	direction := domain.GoalDirection(domain.GoalScreenTime)

	return &domain.ProgressReport{
		GoalMinutes: user.DailyGoalMinutes,
		Today:       progress.Daily(user.DailyGoalMinutes, used),
		StreakDays:  progress.Streak(user.DailyGoalMinutes, direction, history, day),
	}, nil
}

// GetWeeklySummary aggregates the Monday-based week containing at. Summaries
// are cached per user and week and invalidated whenever a day in that week is
// saved.
func (uu *UsageUseCaseImpl) GetWeeklySummary(ctx context.Context, user *domain.UserModel, at time.Time) (*domain.WeeklySummary, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UsageUseCaseImpl.GetWeeklySummary", "service")
	defer apmSpan.End()

	weekStart := StartOfWeek(at)
	weekEnd := weekStart.AddDate(0, 0, 6)

	cacheKey := weeklyCacheKey(user.ID, weekStart)
	if cached, err := uu.KeyValueDB.Get(cacheKey); err == nil {
		summary := new(domain.WeeklySummary)
		if err := json.Unmarshal([]byte(cached), summary); err == nil {
			return summary, nil
		}
	} else if !driver.IsNil(err) {
		return nil, err
	}

	entries, err := uu.UsageRepository.ListEntriesInRange(ctx, user.ID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, entry := range entries {
		total += entry.MinutesUsed
	}
	summary := &domain.WeeklySummary{
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
		TotalMinutes: total,
		GoalMinutes:  user.DailyGoalMinutes * 7,
		Entries:      entries,
	}

	if encoded, err := json.Marshal(summary); err == nil {
		// cache write failures only cost the next reader a rebuild
		_ = uu.KeyValueDB.SetEX(cacheKey, string(encoded), weeklyCacheTTL)
	}
	return summary, nil
}

func (uu *UsageUseCaseImpl) newEntry(userID string, day time.Time) *domain.UsageEntryModel {
	day = progress.StartOfDay(day)
	return &domain.UsageEntryModel{
		ID:     domain.UsageEntryID(userID, day),
		UserID: userID,
		Date:   day,
	}
}

func (uu *UsageUseCaseImpl) saveEntry(ctx context.Context, entry *domain.UsageEntryModel) error {
	if err := uu.UsageRepository.UpsertEntry(ctx, entry); err != nil {
		return err
	}
	// drop the stale weekly summary for the week this day belongs to
	return uu.KeyValueDB.Delete(weeklyCacheKey(entry.UserID, StartOfWeek(entry.Date)))
}

func weeklyCacheKey(userID string, weekStart time.Time) string {
	return "weekly:" + userID + ":" + weekStart.Format(progress.DayKeyLayout)
}

// StartOfWeek truncates t to the Monday of its week
func StartOfWeek(t time.Time) time.Time {
	day := progress.StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}
