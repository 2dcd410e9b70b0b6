package usage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/infrastructure/driver"
	"github.com/goalstake/goalstake-server/internal/progress"
)

// UsageMySQL stores one row per (user, day); saving an existing day replaces
// the whole row, app breakdown included.
type UsageMySQL struct {
	Conn driver.ITransactionalDB
}

var _ domain.UsageRepository = &UsageMySQL{}

func NewUsageRepository(Conn driver.ITransactionalDB) *UsageMySQL {
	return &UsageMySQL{Conn}
}

func (repo *UsageMySQL) UpsertEntry(ctx context.Context, entry *domain.UsageEntryModel) error {
	conn := repo.Conn

	appUsage, err := json.Marshal(entry.AppUsage)
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `INSERT INTO usage_entry(id, user_id, date, minutes_used, weekly_minutes, daily_average, app_usage)
	VALUES($1,$2,$3,$4,$5,$6,$7)
	ON DUPLICATE KEY UPDATE
		minutes_used=VALUES(minutes_used),
		weekly_minutes=VALUES(weekly_minutes),
		daily_average=VALUES(daily_average),
		app_usage=VALUES(app_usage);`,
		entry.ID, entry.UserID, entry.Date.Format(progress.DayKeyLayout),
		entry.MinutesUsed, entry.WeeklyMinutes, entry.DailyAverage, string(appUsage))
	return err
}

func (repo *UsageMySQL) GetEntry(ctx context.Context, userID string, day time.Time) (*domain.UsageEntryModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, user_id, date, minutes_used, weekly_minutes, daily_average, app_usage
	FROM usage_entry WHERE id=$1`, domain.UsageEntryID(userID, day))
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		return scanEntry(row)
	}
	return nil, nil
}

func (repo *UsageMySQL) ListEntriesInRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.UsageEntryModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT id, user_id, date, minutes_used, weekly_minutes, daily_average, app_usage
	FROM usage_entry
	WHERE user_id=$1 AND date BETWEEN $2 AND $3
	ORDER BY date ASC`, userID, from.Format(progress.DayKeyLayout), to.Format(progress.DayKeyLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.UsageEntryModel, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (repo *UsageMySQL) MinutesByDay(ctx context.Context, userID string) (map[string]int, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT date, minutes_used
	FROM usage_entry WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(map[string]int)
	for rows.Next() {
		var day string
		var minutes int
		if err := rows.Scan(&day, &minutes); err != nil {
			return nil, err
		}
		history[day] = minutes
	}
	return history, nil
}

func (repo *UsageMySQL) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}

func scanEntry(row driver.ISQLRows) (*domain.UsageEntryModel, error) {
	entry := new(domain.UsageEntryModel)
	var day string
	var appUsage string
	if err := row.Scan(&entry.ID, &entry.UserID, &day, &entry.MinutesUsed,
		&entry.WeeklyMinutes, &entry.DailyAverage, &appUsage); err != nil {
		return nil, err
	}
	date, err := time.Parse(progress.DayKeyLayout, day)
	if err != nil {
		return nil, err
	}
	entry.Date = date
	if appUsage != "" {
		if err := json.Unmarshal([]byte(appUsage), &entry.AppUsage); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
