package group

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroupRepo struct {
	groups  map[string]*domain.GroupModel
	members map[string][]domain.GroupMember // keyed by group id
	nextID  int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:  make(map[string]*domain.GroupModel),
		members: make(map[string][]domain.GroupMember),
	}
}

func (f *fakeGroupRepo) SaveGroup(ctx context.Context, group *domain.GroupModel) error {
	f.nextID++
	group.ID = "g" + strconv.Itoa(f.nextID)
	stored := *group
	f.groups[group.ID] = &stored
	return nil
}

func (f *fakeGroupRepo) AddMember(ctx context.Context, groupID, userID, role string) error {
	f.members[groupID] = append(f.members[groupID], domain.GroupMember{
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	})
	return nil
}

func (f *fakeGroupRepo) GetGroupWithMembers(ctx context.Context, groupID string) (*domain.GroupModel, error) {
	stored, ok := f.groups[groupID]
	if !ok {
		return nil, nil
	}
	group := *stored
	group.Members = f.members[groupID]
	return &group, nil
}

func (f *fakeGroupRepo) ListGroupsByUser(ctx context.Context, userID string) ([]*domain.GroupModel, error) {
	out := make([]*domain.GroupModel, 0)
	for id, group := range f.groups {
		for _, m := range f.members[id] {
			if m.UserID == userID {
				out = append(out, group)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) UpdateSettings(ctx context.Context, groupID string, settings *domain.StakeSettings) error {
	f.groups[groupID].Settings = *settings
	return nil
}

func (f *fakeGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	for _, m := range f.members[groupID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

var (
	alice = &domain.UserModel{ID: "u1", Username: "alice"}
	bob   = &domain.UserModel{ID: "u2", Username: "bob"}
)

func TestCreateGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := NewGroupUseCase(repo)

	group, err := uc.CreateGroup(context.Background(), alice, "No Scroll Squad")
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, domain.DistributionRedistribute, group.Settings.DistributionMode)

	stored, err := uc.GetGroup(context.Background(), alice, group.ID)
	require.NoError(t, err)
	require.Len(t, stored.Members, 1)
	assert.Equal(t, domain.RoleAdmin, stored.Members[0].Role)
}

func TestJoinGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := NewGroupUseCase(repo)

	group, err := uc.CreateGroup(context.Background(), alice, "No Scroll Squad")
	require.NoError(t, err)

	require.NoError(t, uc.JoinGroup(context.Background(), bob, group.ID))
	// idempotent
	require.NoError(t, uc.JoinGroup(context.Background(), bob, group.ID))

	stored, err := uc.GetGroup(context.Background(), bob, group.ID)
	require.NoError(t, err)
	require.Len(t, stored.Members, 2)
	assert.Equal(t, domain.RoleMember, stored.Members[1].Role)

	assert.Equal(t, domain.ErrNoSuchGroup, uc.JoinGroup(context.Background(), bob, "missing"))
}

func TestGetGroup_MembersOnly(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := NewGroupUseCase(repo)

	group, err := uc.CreateGroup(context.Background(), alice, "No Scroll Squad")
	require.NoError(t, err)

	_, err = uc.GetGroup(context.Background(), bob, group.ID)
	assert.Equal(t, domain.ErrNotGroupMember, err)

	_, err = uc.GetGroup(context.Background(), alice, "missing")
	assert.Equal(t, domain.ErrNoSuchGroup, err)
}

func TestListMyGroups(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := NewGroupUseCase(repo)

	g1, err := uc.CreateGroup(context.Background(), alice, "Squad A")
	require.NoError(t, err)
	_, err = uc.CreateGroup(context.Background(), bob, "Squad B")
	require.NoError(t, err)
	require.NoError(t, uc.JoinGroup(context.Background(), bob, g1.ID))

	mine, err := uc.ListMyGroups(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	mine, err = uc.ListMyGroups(context.Background(), bob)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestUpdateSettings_AdminOnly(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := NewGroupUseCase(repo)

	group, err := uc.CreateGroup(context.Background(), alice, "No Scroll Squad")
	require.NoError(t, err)
	require.NoError(t, uc.JoinGroup(context.Background(), bob, group.ID))

	charity := "charity-1"
	settings := &domain.StakeSettings{
		DistributionMode: domain.DistributionDonate,
		CharityID:        &charity,
	}

	err = uc.UpdateSettings(context.Background(), bob, group.ID, settings)
	assert.Equal(t, domain.ErrNotGroupMember, err)

	require.NoError(t, uc.UpdateSettings(context.Background(), alice, group.ID, settings))
	stored, err := uc.GetGroup(context.Background(), alice, group.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DistributionDonate, stored.Settings.DistributionMode)
}
