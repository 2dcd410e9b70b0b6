package domain

import (
	"context"
	"time"
)

// group membership roles
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type GroupMember struct {
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	DailyGoalMinutes int       `json:"daily_goal_minutes"`
	JoinedAt         time.Time `json:"joined_at"`
}

// StakeSettings group level defaults for how forfeited stakes are split.
// Stored and validated only; settlement itself is not computed here.
type StakeSettings struct {
	DistributionMode    string  `json:"distribution_mode" validate:"required,oneof=redistribute donate mixed"`
	CharityID           *string `json:"charity_id"`
	MixedWinnersPercent *int    `json:"mixed_winners_percent" validate:"omitempty,min=0,max=100"`
}

type GroupModel struct {
	ID        string        `json:"id"`
	Name      string        `json:"name" validate:"required"`
	Settings  StakeSettings `json:"settings"`
	Members   []GroupMember `json:"members,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type GroupRepository interface {
	SaveGroup(ctx context.Context, group *GroupModel) error
	AddMember(ctx context.Context, groupID, userID, role string) error
	GetGroupWithMembers(ctx context.Context, groupID string) (*GroupModel, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*GroupModel, error)
	UpdateSettings(ctx context.Context, groupID string, settings *StakeSettings) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

type GroupUseCase interface {
	CreateGroup(ctx context.Context, creator *UserModel, name string) (*GroupModel, error)
	JoinGroup(ctx context.Context, user *UserModel, groupID string) error
	GetGroup(ctx context.Context, user *UserModel, groupID string) (*GroupModel, error)
	ListMyGroups(ctx context.Context, user *UserModel) ([]*GroupModel, error)
	UpdateSettings(ctx context.Context, user *UserModel, groupID string, settings *StakeSettings) error
}
