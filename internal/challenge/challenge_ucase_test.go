package challenge

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChallengeRepo struct {
	challenges   map[string]*domain.ChallengeModel
	participants map[string][]string // challenge id -> user ids
	entries      map[string]*domain.ChallengeEntryModel
	nextID       int
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{
		challenges:   make(map[string]*domain.ChallengeModel),
		participants: make(map[string][]string),
		entries:      make(map[string]*domain.ChallengeEntryModel),
	}
}

func (f *fakeChallengeRepo) SaveChallenge(ctx context.Context, challenge *domain.ChallengeModel) error {
	f.nextID++
	challenge.ID = "c" + strconv.Itoa(f.nextID)
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) GetChallenge(ctx context.Context, challengeID string) (*domain.ChallengeModel, error) {
	return f.challenges[challengeID], nil
}

func (f *fakeChallengeRepo) ListChallengesByGroup(ctx context.Context, groupID string) ([]*domain.ChallengeModel, error) {
	out := make([]*domain.ChallengeModel, 0)
	for _, c := range f.challenges {
		if c.GroupID == groupID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) ListChallengesByParticipant(ctx context.Context, userID string) ([]*domain.ChallengeModel, error) {
	out := make([]*domain.ChallengeModel, 0)
	for id, users := range f.participants {
		for _, u := range users {
			if u == userID {
				out = append(out, f.challenges[id])
			}
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) AddParticipant(ctx context.Context, participant *domain.ChallengeParticipant) error {
	f.nextID++
	participant.ID = "p" + strconv.Itoa(f.nextID)
	f.participants[participant.ChallengeID] = append(f.participants[participant.ChallengeID], participant.UserID)
	return nil
}

func (f *fakeChallengeRepo) IsParticipant(ctx context.Context, challengeID, userID string) (bool, error) {
	for _, u := range f.participants[challengeID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeChallengeRepo) UpsertEntry(ctx context.Context, entry *domain.ChallengeEntryModel) error {
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeChallengeRepo) ListEntries(ctx context.Context, challengeID, userID string) ([]*domain.ChallengeEntryModel, error) {
	out := make([]*domain.ChallengeEntryModel, 0)
	for _, e := range f.entries {
		if e.ChallengeID == challengeID && e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeMembership map[string][]string // group id -> user ids

func (f fakeMembership) SaveGroup(ctx context.Context, group *domain.GroupModel) error { return nil }
func (f fakeMembership) AddMember(ctx context.Context, groupID, userID, role string) error {
	f[groupID] = append(f[groupID], userID)
	return nil
}
func (f fakeMembership) GetGroupWithMembers(ctx context.Context, groupID string) (*domain.GroupModel, error) {
	return nil, nil
}
func (f fakeMembership) ListGroupsByUser(ctx context.Context, userID string) ([]*domain.GroupModel, error) {
	return nil, nil
}
func (f fakeMembership) UpdateSettings(ctx context.Context, groupID string, settings *domain.StakeSettings) error {
	return nil
}
func (f fakeMembership) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	for _, u := range f[groupID] {
		if u == userID {
			return true, nil
		}
	}
	return false, nil
}

var (
	alice    = &domain.UserModel{ID: "u1", Username: "alice"}
	bob      = &domain.UserModel{ID: "u2", Username: "bob"}
	outsider = &domain.UserModel{ID: "u3", Username: "mallory"}
)

func fixtures() (*fakeChallengeRepo, fakeMembership, *ChallengeUseCaseImpl) {
	repo := newFakeChallengeRepo()
	groups := fakeMembership{"g1": {"u1", "u2"}}
	return repo, groups, NewChallengeUseCase(repo, groups)
}

func newChallenge() *domain.ChallengeModel {
	return &domain.ChallengeModel{
		GroupID:          "g1",
		Title:            "Under 2h all week",
		GoalType:         domain.GoalScreenTime,
		MetricUnit:       "minutes",
		TargetValue:      120,
		StakeAmountCents: 500,
		DistributionMode: domain.DistributionRedistribute,
		VerificationMode: domain.VerificationHonor,
		StartDate:        time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateChallenge(t *testing.T) {
	repo, _, uc := fixtures()

	created, err := uc.CreateChallenge(context.Background(), alice, newChallenge())
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusActive, created.Status)
	assert.NotEmpty(t, created.ID)

	// creator is the first participant
	joined, err := repo.IsParticipant(context.Background(), created.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, joined)
}

func TestCreateChallenge_Guards(t *testing.T) {
	_, _, uc := fixtures()

	_, err := uc.CreateChallenge(context.Background(), outsider, newChallenge())
	assert.Equal(t, domain.ErrNotGroupMember, err)

	backwards := newChallenge()
	backwards.EndDate = backwards.StartDate
	_, err = uc.CreateChallenge(context.Background(), alice, backwards)
	assert.Equal(t, domain.ErrInvalidChallengeWindow, err)
}

func TestCreateChallenge_MixedPercentOnlyForMixedMode(t *testing.T) {
	_, _, uc := fixtures()

	percent := 60
	c := newChallenge()
	c.MixedWinnersPercent = &percent
	created, err := uc.CreateChallenge(context.Background(), alice, c)
	require.NoError(t, err)
	assert.Nil(t, created.MixedWinnersPercent)

	charity := "charity-1"
	mixed := newChallenge()
	mixed.DistributionMode = domain.DistributionMixed
	mixed.CharityID = &charity
	mixed.MixedWinnersPercent = &percent
	created, err = uc.CreateChallenge(context.Background(), alice, mixed)
	require.NoError(t, err)
	require.NotNil(t, created.MixedWinnersPercent)
	assert.Equal(t, 60, *created.MixedWinnersPercent)
}

func TestCreateChallenge_MixedPercentOutOfRange(t *testing.T) {
	_, _, uc := fixtures()
	charity := "charity-1"

	for _, percent := range []int{150, -5} {
		percent := percent
		mixed := newChallenge()
		mixed.DistributionMode = domain.DistributionMixed
		mixed.CharityID = &charity
		mixed.MixedWinnersPercent = &percent
		_, err := uc.CreateChallenge(context.Background(), alice, mixed)
		assert.Equal(t, domain.ErrInvalidMixedPercent, err)
	}
}

func TestJoinChallenge(t *testing.T) {
	repo, _, uc := fixtures()
	created, err := uc.CreateChallenge(context.Background(), alice, newChallenge())
	require.NoError(t, err)

	participant, err := uc.JoinChallenge(context.Background(), bob, created.ID, 700)
	require.NoError(t, err)
	assert.Equal(t, 700, participant.StakeAmountCents)

	// joining twice is rejected
	_, err = uc.JoinChallenge(context.Background(), bob, created.ID, 700)
	assert.Equal(t, domain.ErrDuplicatedUser, err)

	// below the challenge minimum the stake is raised to it
	groups := fakeMembership{"g1": {"u1", "u2", "u3"}}
	uc2 := NewChallengeUseCase(repo, groups)
	participant, err = uc2.JoinChallenge(context.Background(), outsider, created.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 500, participant.StakeAmountCents)
}

func TestJoinChallenge_Guards(t *testing.T) {
	repo, _, uc := fixtures()
	created, err := uc.CreateChallenge(context.Background(), alice, newChallenge())
	require.NoError(t, err)

	_, err = uc.JoinChallenge(context.Background(), bob, "missing", 500)
	assert.Equal(t, domain.ErrNoSuchChallenge, err)

	_, err = uc.JoinChallenge(context.Background(), outsider, created.ID, 500)
	assert.Equal(t, domain.ErrNotGroupMember, err)

	repo.challenges[created.ID].Status = domain.ChallengeStatusSettled
	_, err = uc.JoinChallenge(context.Background(), bob, created.ID, 500)
	assert.Equal(t, domain.ErrChallengeClosed, err)
}

func TestRecordEntry(t *testing.T) {
	_, _, uc := fixtures()
	created, err := uc.CreateChallenge(context.Background(), alice, newChallenge())
	require.NoError(t, err)

	entry, err := uc.RecordEntry(context.Background(), alice, &domain.ChallengeEntryModel{
		ChallengeID: created.ID,
		Date:        time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
		Amount:      95,
		Source:      domain.EntrySourceManual,
	})
	require.NoError(t, err)
	// the day is truncated and keyed per (challenge, user, date)
	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), entry.Date)

	// a second save of the same day replaces the amount
	replaced, err := uc.RecordEntry(context.Background(), alice, &domain.ChallengeEntryModel{
		ChallengeID: created.ID,
		Date:        time.Date(2026, 8, 25, 22, 0, 0, 0, time.UTC),
		Amount:      130,
		Source:      domain.EntrySourceManual,
	})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, replaced.ID)

	entries, err := uc.ListMyEntries(context.Background(), alice, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 130, entries[0].Amount)
}

func TestRecordEntry_Guards(t *testing.T) {
	repo, _, uc := fixtures()
	created, err := uc.CreateChallenge(context.Background(), alice, newChallenge())
	require.NoError(t, err)

	_, err = uc.RecordEntry(context.Background(), bob, &domain.ChallengeEntryModel{
		ChallengeID: created.ID,
		Date:        time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		Amount:      10,
		Source:      domain.EntrySourceManual,
	})
	assert.Equal(t, domain.ErrNotParticipant, err)

	// outside the window
	_, err = uc.RecordEntry(context.Background(), alice, &domain.ChallengeEntryModel{
		ChallengeID: created.ID,
		Date:        time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Amount:      10,
		Source:      domain.EntrySourceManual,
	})
	assert.Equal(t, domain.ErrChallengeClosed, err)

	_, err = uc.RecordEntry(context.Background(), alice, &domain.ChallengeEntryModel{
		ChallengeID: created.ID,
		Date:        time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		Amount:      -1,
		Source:      domain.EntrySourceManual,
	})
	assert.Equal(t, domain.ErrInvalidMinutes, err)

	repo.challenges[created.ID].Status = domain.ChallengeStatusCancelled
	_, err = uc.RecordEntry(context.Background(), alice, &domain.ChallengeEntryModel{
		ChallengeID: created.ID,
		Date:        time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		Amount:      10,
		Source:      domain.EntrySourceManual,
	})
	assert.Equal(t, domain.ErrChallengeClosed, err)
}

func TestListChallenges(t *testing.T) {
	_, _, uc := fixtures()
	created, err := uc.CreateChallenge(context.Background(), alice, newChallenge())
	require.NoError(t, err)

	mine, err := uc.ListMyChallenges(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	mine, err = uc.ListMyChallenges(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, mine)

	inGroup, err := uc.ListGroupChallenges(context.Background(), bob, "g1")
	require.NoError(t, err)
	assert.Len(t, inGroup, 1)

	_, err = uc.ListGroupChallenges(context.Background(), outsider, "g1")
	assert.Equal(t, domain.ErrNotGroupMember, err)

	_, err = uc.ListMyEntries(context.Background(), bob, created.ID)
	assert.Equal(t, domain.ErrNotParticipant, err)
}
