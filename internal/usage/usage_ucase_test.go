package usage

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/progress"
	"github.com/goalstake/goalstake-server/internal/recognize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsageRepo struct {
	entries map[string]*domain.UsageEntryModel
	ranges  int
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{entries: make(map[string]*domain.UsageEntryModel)}
}

func (f *fakeUsageRepo) UpsertEntry(ctx context.Context, entry *domain.UsageEntryModel) error {
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeUsageRepo) GetEntry(ctx context.Context, userID string, day time.Time) (*domain.UsageEntryModel, error) {
	return f.entries[domain.UsageEntryID(userID, day)], nil
}

func (f *fakeUsageRepo) ListEntriesInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.UsageEntryModel, error) {
	f.ranges++
	out := make([]*domain.UsageEntryModel, 0)
	for _, entry := range f.entries {
		if entry.UserID != userID {
			continue
		}
		if entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakeUsageRepo) MinutesByDay(ctx context.Context, userID string) (map[string]int, error) {
	history := make(map[string]int)
	for _, entry := range f.entries {
		if entry.UserID == userID {
			history[entry.Date.Format(progress.DayKeyLayout)] = entry.MinutesUsed
		}
	}
	return history, nil
}

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) SetEX(key, value string, expiration time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeKV) Get(key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeKV) Exists(key string) (bool, error) {
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeKV) Ping() error { return nil }

type fakeRecognizer struct {
	text string
	err  error
	url  string
}

func (f *fakeRecognizer) RecognizeImage(ctx context.Context, imageURL string) (string, error) {
	f.url = imageURL
	return f.text, f.err
}

func newUseCase(repo *fakeUsageRepo, rec recognize.Recognizer, kv *fakeKV) *UsageUseCaseImpl {
	return NewUsageUseCase(repo, rec, kv)
}

var testUser = &domain.UserModel{ID: "u1", Username: "casey", DailyGoalMinutes: 120}

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse(progress.DayKeyLayout, value)
	require.NoError(t, err)
	return day
}

func TestRecordScreenshot_WithClientText(t *testing.T) {
	repo := newFakeUsageRepo()
	uc := newUseCase(repo, recognize.Disabled{}, newFakeKV())
	day := mustDay(t, "2026-08-24")

	text := "Screen Time\nToday\n1 h 45 m\nInstagram 50m\nSafari 35m"
	entry, err := uc.RecordScreenshot(context.Background(), testUser, "", text, day)
	require.NoError(t, err)
	assert.Equal(t, 105, entry.MinutesUsed)
	assert.Equal(t, "u1_2026-08-24", entry.ID)
	require.Len(t, entry.AppUsage, 2)
	assert.Equal(t, "Instagram", entry.AppUsage[0].AppName)

	saved, err := repo.GetEntry(context.Background(), "u1", day)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 105, saved.MinutesUsed)
}

func TestRecordScreenshot_WithImageURL(t *testing.T) {
	repo := newFakeUsageRepo()
	rec := &fakeRecognizer{text: "Today\n2 h 30 m"}
	uc := newUseCase(repo, rec, newFakeKV())
	day := mustDay(t, "2026-08-24")

	entry, err := uc.RecordScreenshot(context.Background(), testUser, "https://img.example/shot.png", "", day)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/shot.png", rec.url)
	assert.Equal(t, 150, entry.MinutesUsed)
}

func TestRecordScreenshot_RecognizerDisabled(t *testing.T) {
	uc := newUseCase(newFakeUsageRepo(), recognize.Disabled{}, newFakeKV())
	_, err := uc.RecordScreenshot(context.Background(), testUser, "https://img.example/shot.png", "", time.Now())
	assert.Equal(t, recognize.ErrNotConfigured, err)
}

func TestRecordScreenshot_LastWriteWins(t *testing.T) {
	repo := newFakeUsageRepo()
	uc := newUseCase(repo, recognize.Disabled{}, newFakeKV())
	day := mustDay(t, "2026-08-24")

	_, err := uc.RecordScreenshot(context.Background(), testUser, "", "Today\n3 h\nInstagram 90m", day)
	require.NoError(t, err)
	_, err = uc.RecordScreenshot(context.Background(), testUser, "", "Today\n1 h 5 m", day)
	require.NoError(t, err)

	saved, err := repo.GetEntry(context.Background(), "u1", day)
	require.NoError(t, err)
	assert.Equal(t, 65, saved.MinutesUsed)
	// the replacement carries no app rows, the old breakdown must be gone
	assert.Empty(t, saved.AppUsage)
	assert.Len(t, repo.entries, 1)
}

func TestRecordManual(t *testing.T) {
	repo := newFakeUsageRepo()
	uc := newUseCase(repo, recognize.Disabled{}, newFakeKV())
	day := mustDay(t, "2026-08-24")

	entry, err := uc.RecordManual(context.Background(), testUser, 95, day)
	require.NoError(t, err)
	assert.Equal(t, 95, entry.MinutesUsed)

	_, err = uc.RecordManual(context.Background(), testUser, -1, day)
	assert.Equal(t, domain.ErrInvalidMinutes, err)
}

func TestGetProgress(t *testing.T) {
	repo := newFakeUsageRepo()
	uc := newUseCase(repo, recognize.Disabled{}, newFakeKV())

	// three day run under the 120 minute budget, then a day over it
	for day, minutes := range map[string]int{
		"2026-08-21": 180,
		"2026-08-22": 100,
		"2026-08-23": 119,
		"2026-08-24": 60,
	} {
		_, err := uc.RecordManual(context.Background(), testUser, minutes, mustDay(t, day))
		require.NoError(t, err)
	}

	report, err := uc.GetProgress(context.Background(), testUser, mustDay(t, "2026-08-24"))
	require.NoError(t, err)
	assert.Equal(t, 120, report.GoalMinutes)
	assert.Equal(t, 60, report.Today.UsedMinutes)
	assert.InDelta(t, 0.5, report.Today.Percent, 1e-9)
	assert.Equal(t, 3, report.StreakDays)
}

func TestGetProgress_NoEntryToday(t *testing.T) {
	uc := newUseCase(newFakeUsageRepo(), recognize.Disabled{}, newFakeKV())

	report, err := uc.GetProgress(context.Background(), testUser, mustDay(t, "2026-08-24"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Today.UsedMinutes)
	assert.Equal(t, 0, report.StreakDays)
}

func TestGetWeeklySummary(t *testing.T) {
	repo := newFakeUsageRepo()
	kv := newFakeKV()
	uc := newUseCase(repo, recognize.Disabled{}, kv)

	// 2026-08-24 is a Monday
	for day, minutes := range map[string]int{
		"2026-08-23": 300, // previous week, excluded
		"2026-08-24": 60,
		"2026-08-26": 90,
	} {
		_, err := uc.RecordManual(context.Background(), testUser, minutes, mustDay(t, day))
		require.NoError(t, err)
	}

	summary, err := uc.GetWeeklySummary(context.Background(), testUser, mustDay(t, "2026-08-26"))
	require.NoError(t, err)
	assert.Equal(t, mustDay(t, "2026-08-24"), summary.WeekStart)
	assert.Equal(t, mustDay(t, "2026-08-30"), summary.WeekEnd)
	assert.Equal(t, 150, summary.TotalMinutes)
	assert.Equal(t, 840, summary.GoalMinutes)
	assert.Len(t, summary.Entries, 2)
}

func TestGetWeeklySummary_CachedAndInvalidated(t *testing.T) {
	repo := newFakeUsageRepo()
	kv := newFakeKV()
	uc := newUseCase(repo, recognize.Disabled{}, kv)
	monday := mustDay(t, "2026-08-24")

	_, err := uc.RecordManual(context.Background(), testUser, 60, monday)
	require.NoError(t, err)

	_, err = uc.GetWeeklySummary(context.Background(), testUser, monday)
	require.NoError(t, err)
	queries := repo.ranges

	// second read is served from the cache
	summary, err := uc.GetWeeklySummary(context.Background(), testUser, monday)
	require.NoError(t, err)
	assert.Equal(t, queries, repo.ranges)
	assert.Equal(t, 60, summary.TotalMinutes)

	// saving a day of the week drops the cached summary
	_, err = uc.RecordManual(context.Background(), testUser, 75, monday.AddDate(0, 0, 1))
	require.NoError(t, err)

	summary, err = uc.GetWeeklySummary(context.Background(), testUser, monday)
	require.NoError(t, err)
	assert.Greater(t, repo.ranges, queries)
	assert.Equal(t, 135, summary.TotalMinutes)
}

func TestStartOfWeek(t *testing.T) {
	monday := mustDay(t, "2026-08-24")
	for _, day := range []string{"2026-08-24", "2026-08-26", "2026-08-30"} {
		assert.Equal(t, monday, StartOfWeek(mustDay(t, day)), day)
	}
	assert.Equal(t, mustDay(t, "2026-08-17"), StartOfWeek(mustDay(t, "2026-08-23")))
}
