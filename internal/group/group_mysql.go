package group

import (
	"context"
	"database/sql"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/infrastructure/driver"
	"github.com/goalstake/goalstake-server/internal/infrastructure/uuid"
)

type GroupMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ domain.GroupRepository = &GroupMySQL{}

func NewGroupRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *GroupMySQL {
	return &GroupMySQL{Conn, UUIDGenerator}
}

func (repo *GroupMySQL) SaveGroup(ctx context.Context, group *domain.GroupModel) error {
	conn := repo.Conn
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		group.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO user_group(id, name, distribution_mode, charity_id, mixed_winners_percent, created_at)
	VALUES($1,$2,$3,$4,$5,$6)`,
		group.ID, group.Name, group.Settings.DistributionMode,
		group.Settings.CharityID, group.Settings.MixedWinnersPercent, group.CreatedAt)
	return err
}

func (repo *GroupMySQL) AddMember(ctx context.Context, groupID, userID, role string) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `INSERT INTO group_member(group_id, user_id, role)
	VALUES($1,$2,$3)`, groupID, userID, role)
	return err
}

func (repo *GroupMySQL) GetGroupWithMembers(ctx context.Context, groupID string) (*domain.GroupModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT id, name, distribution_mode, charity_id, mixed_winners_percent, created_at
	FROM user_group WHERE id=$1`, groupID)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if !row.Next() {
		return nil, nil
	}
	group := new(domain.GroupModel)
	if err := row.Scan(&group.ID, &group.Name, &group.Settings.DistributionMode,
		&group.Settings.CharityID, &group.Settings.MixedWinnersPercent, &group.CreatedAt); err != nil {
		return nil, err
	}

	members, err := conn.QueryContext(ctx, `SELECT gm.user_id, u.username, gm.role, u.daily_goal_minutes, gm.joined_at
	FROM group_member gm JOIN user u ON u.id = gm.user_id
	WHERE gm.group_id=$1
	ORDER BY gm.joined_at ASC`, groupID)
	if err != nil {
		return nil, err
	}
	defer members.Close()

	for members.Next() {
		var m domain.GroupMember
		if err := members.Scan(&m.UserID, &m.Name, &m.Role, &m.DailyGoalMinutes, &m.JoinedAt); err != nil {
			return nil, err
		}
		group.Members = append(group.Members, m)
	}
	return group, nil
}

func (repo *GroupMySQL) ListGroupsByUser(ctx context.Context, userID string) ([]*domain.GroupModel, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `SELECT g.id, g.name, g.distribution_mode, g.charity_id, g.mixed_winners_percent, g.created_at
	FROM user_group g JOIN group_member gm ON gm.group_id = g.id
	WHERE gm.user_id=$1
	ORDER BY g.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]*domain.GroupModel, 0)
	for rows.Next() {
		group := new(domain.GroupModel)
		if err := rows.Scan(&group.ID, &group.Name, &group.Settings.DistributionMode,
			&group.Settings.CharityID, &group.Settings.MixedWinnersPercent, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (repo *GroupMySQL) UpdateSettings(ctx context.Context, groupID string, settings *domain.StakeSettings) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE user_group
	SET distribution_mode=$1,
			charity_id=$2,
			mixed_winners_percent=$3
	WHERE id = $4;`, settings.DistributionMode, settings.CharityID, settings.MixedWinnersPercent, groupID)
	return err
}

func (repo *GroupMySQL) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `SELECT 1 FROM group_member
	WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if err != nil {
		return false, err
	}
	defer row.Close()
	return row.Next(), nil
}

func (repo *GroupMySQL) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}
