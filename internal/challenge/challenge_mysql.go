package challenge

import (
	"context"
	"database/sql"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/infrastructure/driver"
	"github.com/goalstake/goalstake-server/internal/infrastructure/uuid"
	"github.com/goalstake/goalstake-server/internal/progress"
)

type ChallengeMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ domain.ChallengeRepository = &ChallengeMySQL{}

func NewChallengeRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *ChallengeMySQL {
	return &ChallengeMySQL{Conn, UUIDGenerator}
}

const challengeColumns = `id, group_id, title, goal_type, metric_unit, target_value, stake_amount_cents,
	distribution_mode, verification_mode, start_date, end_date, status, charity_id, mixed_winners_percent, created_at`

func (repo *ChallengeMySQL) SaveChallenge(ctx context.Context, challenge *domain.ChallengeModel) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		challenge.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO challenge(`+challengeColumns+`)
	VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		challenge.ID, challenge.GroupID, challenge.Title, challenge.GoalType, challenge.MetricUnit,
		challenge.TargetValue, challenge.StakeAmountCents, challenge.DistributionMode,
		challenge.VerificationMode, challenge.StartDate, challenge.EndDate, challenge.Status,
		challenge.CharityID, challenge.MixedWinnersPercent, challenge.CreatedAt)
	return err
}

func (repo *ChallengeMySQL) GetChallenge(ctx context.Context, challengeID string) (*domain.ChallengeModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT `+challengeColumns+` FROM challenge WHERE id=$1`, challengeID)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		return scanChallenge(row)
	}
	return nil, nil
}

func (repo *ChallengeMySQL) ListChallengesByGroup(ctx context.Context, groupID string) ([]*domain.ChallengeModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT `+challengeColumns+` FROM challenge
	WHERE group_id=$1 ORDER BY created_at DESC`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChallenges(rows)
}

func (repo *ChallengeMySQL) ListChallengesByParticipant(ctx context.Context, userID string) ([]*domain.ChallengeModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT c.id, c.group_id, c.title, c.goal_type, c.metric_unit, c.target_value, c.stake_amount_cents,
	c.distribution_mode, c.verification_mode, c.start_date, c.end_date, c.status, c.charity_id, c.mixed_winners_percent, c.created_at
	FROM challenge c
	JOIN challenge_participant cp ON cp.challenge_id = c.id
	WHERE cp.user_id=$1 ORDER BY c.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectChallenges(rows)
}

func (repo *ChallengeMySQL) AddParticipant(ctx context.Context, participant *domain.ChallengeParticipant) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		participant.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO challenge_participant(id, challenge_id, user_id, stake_amount_cents, joined_at)
	VALUES($1,$2,$3,$4,$5)`,
		participant.ID, participant.ChallengeID, participant.UserID,
		participant.StakeAmountCents, participant.JoinedAt)
	return err
}

func (repo *ChallengeMySQL) IsParticipant(ctx context.Context, challengeID, userID string) (bool, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT 1 FROM challenge_participant
	WHERE challenge_id=$1 AND user_id=$2`, challengeID, userID)
	if err != nil {
		return false, err
	}
	defer row.Close()
	return row.Next(), nil
}

func (repo *ChallengeMySQL) UpsertEntry(ctx context.Context, entry *domain.ChallengeEntryModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `INSERT INTO challenge_entry(id, challenge_id, user_id, date, amount, source, created_at)
	VALUES($1,$2,$3,$4,$5,$6,$7)
	ON DUPLICATE KEY UPDATE
		amount=VALUES(amount),
		source=VALUES(source);`,
		entry.ID, entry.ChallengeID, entry.UserID, entry.Date.Format(progress.DayKeyLayout),
		entry.Amount, entry.Source, entry.CreatedAt)
	return err
}

func (repo *ChallengeMySQL) ListEntries(ctx context.Context, challengeID, userID string) ([]*domain.ChallengeEntryModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT id, challenge_id, user_id, date, amount, source, created_at
	FROM challenge_entry
	WHERE challenge_id=$1 AND user_id=$2
	ORDER BY date ASC`, challengeID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ChallengeEntryModel, 0)
	for rows.Next() {
		entry := new(domain.ChallengeEntryModel)
		var day string
		if err := rows.Scan(&entry.ID, &entry.ChallengeID, &entry.UserID, &day,
			&entry.Amount, &entry.Source, &entry.CreatedAt); err != nil {
			return nil, err
		}
		date, err := time.Parse(progress.DayKeyLayout, day)
		if err != nil {
			return nil, err
		}
		entry.Date = date
		entries = append(entries, entry)
	}
	return entries, nil
}

func (repo *ChallengeMySQL) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}

func scanChallenge(row driver.ISQLRows) (*domain.ChallengeModel, error) {
	c := new(domain.ChallengeModel)
	if err := row.Scan(&c.ID, &c.GroupID, &c.Title, &c.GoalType, &c.MetricUnit,
		&c.TargetValue, &c.StakeAmountCents, &c.DistributionMode, &c.VerificationMode,
		&c.StartDate, &c.EndDate, &c.Status, &c.CharityID, &c.MixedWinnersPercent, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func collectChallenges(rows driver.ISQLRows) ([]*domain.ChallengeModel, error) {
	challenges := make([]*domain.ChallengeModel, 0)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}
