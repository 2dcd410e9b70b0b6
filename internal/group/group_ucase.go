package group

import (
	"context"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"go.elastic.co/apm"
)

// GroupUseCaseImpl ...
type GroupUseCaseImpl struct {
	GroupRepository domain.GroupRepository
}

var _ domain.GroupUseCase = &GroupUseCaseImpl{}

// NewGroupUseCase ...
func NewGroupUseCase(GroupRepository domain.GroupRepository) *GroupUseCaseImpl {
	return &GroupUseCaseImpl{
		GroupRepository: GroupRepository,
	}
}

// CreateGroup creates a group with redistribute defaults and makes the creator
// its admin
func (gu *GroupUseCaseImpl) CreateGroup(ctx context.Context, creator *domain.UserModel, name string) (*domain.GroupModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "GroupUseCaseImpl.CreateGroup", "service")
	defer apmSpan.End()

	group := &domain.GroupModel{
		Name: name,
		Settings: domain.StakeSettings{
			DistributionMode: domain.DistributionRedistribute,
		},
		CreatedAt: time.Now(),
	}
	if err := gu.GroupRepository.SaveGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := gu.GroupRepository.AddMember(ctx, group.ID, creator.ID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return group, nil
}

// JoinGroup adds the user as a regular member
func (gu *GroupUseCaseImpl) JoinGroup(ctx context.Context, user *domain.UserModel, groupID string) error {
	apmSpan, _ := apm.StartSpan(ctx, "GroupUseCaseImpl.JoinGroup", "service")
	defer apmSpan.End()

	group, err := gu.GroupRepository.GetGroupWithMembers(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrNoSuchGroup
	}
	for _, m := range group.Members {
		if m.UserID == user.ID {
			// joining twice is a no-op
			return nil
		}
	}
	return gu.GroupRepository.AddMember(ctx, groupID, user.ID, domain.RoleMember)
}

// GetGroup returns the group with its member list; only members may look
func (gu *GroupUseCaseImpl) GetGroup(ctx context.Context, user *domain.UserModel, groupID string) (*domain.GroupModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "GroupUseCaseImpl.GetGroup", "service")
	defer apmSpan.End()

	group, err := gu.GroupRepository.GetGroupWithMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrNoSuchGroup
	}
	if !hasMember(group, user.ID) {
		return nil, domain.ErrNotGroupMember
	}
	return group, nil
}

// ListMyGroups ...
func (gu *GroupUseCaseImpl) ListMyGroups(ctx context.Context, user *domain.UserModel) ([]*domain.GroupModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "GroupUseCaseImpl.ListMyGroups", "service")
	defer apmSpan.End()

	return gu.GroupRepository.ListGroupsByUser(ctx, user.ID)
}

// UpdateSettings replaces the group's stake settings; admins only
func (gu *GroupUseCaseImpl) UpdateSettings(ctx context.Context, user *domain.UserModel, groupID string, settings *domain.StakeSettings) error {
	apmSpan, _ := apm.StartSpan(ctx, "GroupUseCaseImpl.UpdateSettings", "service")
	defer apmSpan.End()

	group, err := gu.GroupRepository.GetGroupWithMembers(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return domain.ErrNoSuchGroup
	}
	if !hasRole(group, user.ID, domain.RoleAdmin) {
		return domain.ErrNotGroupMember
	}
	return gu.GroupRepository.UpdateSettings(ctx, groupID, settings)
}

func hasMember(group *domain.GroupModel, userID string) bool {
	for _, m := range group.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func hasRole(group *domain.GroupModel, userID, role string) bool {
	for _, m := range group.Members {
		if m.UserID == userID && m.Role == role {
			return true
		}
	}
	return false
}
