package challenge

import (
	"context"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/progress"
	"go.elastic.co/apm"
)

// ChallengeUseCaseImpl ...
type ChallengeUseCaseImpl struct {
	ChallengeRepository domain.ChallengeRepository
	GroupRepository     domain.GroupRepository
}

var _ domain.ChallengeUseCase = &ChallengeUseCaseImpl{}

// NewChallengeUseCase ...
func NewChallengeUseCase(
	ChallengeRepository domain.ChallengeRepository,
	GroupRepository domain.GroupRepository,
) *ChallengeUseCaseImpl {
	return &ChallengeUseCaseImpl{
		ChallengeRepository: ChallengeRepository,
		GroupRepository:     GroupRepository,
	}
}

// CreateChallenge creates a challenge inside a group the creator belongs to.
// The creator joins as the first participant at the challenge stake.
func (cu *ChallengeUseCaseImpl) CreateChallenge(ctx context.Context, creator *domain.UserModel, challenge *domain.ChallengeModel) (*domain.ChallengeModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.CreateChallenge", "service")
	defer apmSpan.End()

	member, err := cu.GroupRepository.IsMember(ctx, challenge.GroupID, creator.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotGroupMember
	}

	if !challenge.EndDate.After(challenge.StartDate) {
		return nil, domain.ErrInvalidChallengeWindow
	}
	// the winners split only means something in mixed mode
	if challenge.DistributionMode != domain.DistributionMixed {
		challenge.MixedWinnersPercent = nil
	}
	if p := challenge.MixedWinnersPercent; p != nil && (*p < 0 || *p > 100) {
		return nil, domain.ErrInvalidMixedPercent
	}
	if challenge.DistributionMode != domain.DistributionDonate &&
		challenge.DistributionMode != domain.DistributionMixed {
		challenge.CharityID = nil
	}

	challenge.Status = domain.ChallengeStatusActive
	challenge.CreatedAt = time.Now()
	if err := cu.ChallengeRepository.SaveChallenge(ctx, challenge); err != nil {
		return nil, err
	}

	if _, err := cu.join(ctx, creator, challenge, challenge.StakeAmountCents); err != nil {
		return nil, err
	}
	return challenge, nil
}

// JoinChallenge stakes the user into an active challenge
func (cu *ChallengeUseCaseImpl) JoinChallenge(ctx context.Context, user *domain.UserModel, challengeID string, stakeAmountCents int) (*domain.ChallengeParticipant, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.JoinChallenge", "service")
	defer apmSpan.End()

	challenge, err := cu.ChallengeRepository.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, domain.ErrNoSuchChallenge
	}
	if challenge.Status != domain.ChallengeStatusActive {
		return nil, domain.ErrChallengeClosed
	}

	member, err := cu.GroupRepository.IsMember(ctx, challenge.GroupID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotGroupMember
	}

	already, err := cu.ChallengeRepository.IsParticipant(ctx, challengeID, user.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, domain.ErrDuplicatedUser
	}
	return cu.join(ctx, user, challenge, stakeAmountCents)
}

// GetChallenge ...
func (cu *ChallengeUseCaseImpl) GetChallenge(ctx context.Context, user *domain.UserModel, challengeID string) (*domain.ChallengeModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.GetChallenge", "service")
	defer apmSpan.End()

	challenge, err := cu.ChallengeRepository.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, domain.ErrNoSuchChallenge
	}

	member, err := cu.GroupRepository.IsMember(ctx, challenge.GroupID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotGroupMember
	}
	return challenge, nil
}

// ListGroupChallenges lists the group's challenges for one of its members
func (cu *ChallengeUseCaseImpl) ListGroupChallenges(ctx context.Context, user *domain.UserModel, groupID string) ([]*domain.ChallengeModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.ListGroupChallenges", "service")
	defer apmSpan.End()

	member, err := cu.GroupRepository.IsMember(ctx, groupID, user.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotGroupMember
	}
	return cu.ChallengeRepository.ListChallengesByGroup(ctx, groupID)
}

// ListMyChallenges ...
func (cu *ChallengeUseCaseImpl) ListMyChallenges(ctx context.Context, user *domain.UserModel) ([]*domain.ChallengeModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.ListMyChallenges", "service")
	defer apmSpan.End()

	return cu.ChallengeRepository.ListChallengesByParticipant(ctx, user.ID)
}

// RecordEntry saves a participant's progress amount for one day inside the
// challenge window. Saving the same day again replaces the earlier amount.
func (cu *ChallengeUseCaseImpl) RecordEntry(ctx context.Context, user *domain.UserModel, entry *domain.ChallengeEntryModel) (*domain.ChallengeEntryModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.RecordEntry", "service")
	defer apmSpan.End()

	challenge, err := cu.ChallengeRepository.GetChallenge(ctx, entry.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, domain.ErrNoSuchChallenge
	}
	if challenge.Status != domain.ChallengeStatusActive {
		return nil, domain.ErrChallengeClosed
	}

	participant, err := cu.ChallengeRepository.IsParticipant(ctx, entry.ChallengeID, user.ID)
	if err != nil {
		return nil, err
	}
	if !participant {
		return nil, domain.ErrNotParticipant
	}

	day := progress.StartOfDay(entry.Date)
	if day.Before(progress.StartOfDay(challenge.StartDate)) || day.After(progress.StartOfDay(challenge.EndDate)) {
		return nil, domain.ErrChallengeClosed
	}
	if entry.Amount < 0 {
		return nil, domain.ErrInvalidMinutes
	}

	entry.UserID = user.ID
	entry.Date = day
	entry.ID = entry.ChallengeID + "_" + domain.UsageEntryID(user.ID, day)
	entry.CreatedAt = time.Now()
	if err := cu.ChallengeRepository.UpsertEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListMyEntries lists the caller's own entries of a challenge
func (cu *ChallengeUseCaseImpl) ListMyEntries(ctx context.Context, user *domain.UserModel, challengeID string) ([]*domain.ChallengeEntryModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "ChallengeUseCaseImpl.ListMyEntries", "service")
	defer apmSpan.End()

	participant, err := cu.ChallengeRepository.IsParticipant(ctx, challengeID, user.ID)
	if err != nil {
		return nil, err
	}
	if !participant {
		return nil, domain.ErrNotParticipant
	}
	return cu.ChallengeRepository.ListEntries(ctx, challengeID, user.ID)
}

func (cu *ChallengeUseCaseImpl) join(ctx context.Context, user *domain.UserModel, challenge *domain.ChallengeModel, stakeAmountCents int) (*domain.ChallengeParticipant, error) {
	if stakeAmountCents < challenge.StakeAmountCents {
		stakeAmountCents = challenge.StakeAmountCents
	}
	participant := &domain.ChallengeParticipant{
		ChallengeID:      challenge.ID,
		UserID:           user.ID,
		StakeAmountCents: stakeAmountCents,
		JoinedAt:         time.Now(),
	}
	if err := cu.ChallengeRepository.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}
