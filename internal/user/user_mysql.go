package user

import (
	"context"
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/infrastructure/driver"
	"github.com/goalstake/goalstake-server/internal/infrastructure/uuid"
)

type UserMySQL struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ domain.UserRepository = &UserMySQL{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserMySQL {
	return &UserMySQL{Conn, UUIDGenerator}
}

// FindByCredential query user with provided credential
func (repo *UserMySQL) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	conn := repo.Conn
	username := post.Username
	row, err := conn.QueryContext(ctx, `SELECT id, username, password, email, daily_goal_minutes, login_retry, last_login
	FROM user WHERE username=$1 OR email=$2`, username, username)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		user := new(domain.UserModel)
		if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email,
			&user.DailyGoalMinutes, &user.LoginRetry, &user.LastLogin); err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, nil
}

func (repo *UserMySQL) SaveUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	// generate id
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO user(id, username, password, email, daily_goal_minutes, last_login)
	VALUES($1,$2,$3,$4,$5,$6)`, post.ID, post.Username, post.Password, post.Email, post.DailyGoalMinutes, post.LastLogin)

	if err, ok := err.(*mysql.MySQLError); ok && err.Number == 1062 {
		return domain.ErrDuplicatedUser
	}
	return err
}

func (repo *UserMySQL) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE user
	SET login_retry=$1,
			last_login=$2
	WHERE id = $3;`, post.LoginRetry, post.LastLogin, post.ID)
	return err
}

func (repo *UserMySQL) UpdateDailyGoal(ctx context.Context, userID string, goalMinutes int) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE user
	SET daily_goal_minutes=$1
	WHERE id = $2;`, goalMinutes, userID)
	return err
}

func (repo *UserMySQL) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}
