package domain

import (
	"context"
	"time"

	"github.com/goalstake/goalstake-server/internal/progress"
)

// distribution modes for forfeited stakes
const (
	DistributionRedistribute = "redistribute"
	DistributionDonate       = "donate"
	DistributionMixed        = "mixed"
)

// verification modes for daily goal completion
const (
	VerificationHonor      = "honor"
	VerificationPeerVote   = "peer_vote"
	VerificationProofPhoto = "proof_photo"
)

// challenge lifecycle states
const (
	ChallengeStatusDraft     = "draft"
	ChallengeStatusActive    = "active"
	ChallengeStatusSettling  = "settling"
	ChallengeStatusSettled   = "settled"
	ChallengeStatusCancelled = "cancelled"
)

// goal types a challenge can be built around
const (
	GoalScreenTime = "screen_time"
	GoalWorkouts   = "workouts"
	GoalSteps      = "steps"
	GoalStudy      = "study"
	GoalSleep      = "sleep"
	GoalWater      = "water"
	GoalCustom     = "custom"
)

// GoalDirection maps a goal type to the side of the target that counts as
// success. Screen time is a budget to stay under, everything else is a floor
// to reach.
func GoalDirection(goalType string) progress.Direction {
	if goalType == GoalScreenTime {
		return progress.Minimize
	}
	return progress.Maximize
}

type ChallengeModel struct {
	ID                  string    `json:"id"`
	GroupID             string    `json:"group_id" validate:"required"`
	Title               string    `json:"title" validate:"required"`
	GoalType            string    `json:"goal_type" validate:"required,oneof=screen_time workouts steps study sleep water custom"`
	MetricUnit          string    `json:"metric_unit" validate:"required"`
	TargetValue         int       `json:"target_value" validate:"required,min=1"`
	StakeAmountCents    int       `json:"stake_amount_cents" validate:"min=0"`
	DistributionMode    string    `json:"distribution_mode" validate:"required,oneof=redistribute donate mixed"`
	VerificationMode    string    `json:"verification_mode" validate:"required,oneof=honor peer_vote proof_photo"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	Status              string    `json:"status"`
	CharityID           *string   `json:"charity_id"`
	MixedWinnersPercent *int      `json:"mixed_winners_percent" validate:"omitempty,min=0,max=100"`
	CreatedAt           time.Time `json:"created_at"`

	Participants []*ChallengeParticipant `json:"participants,omitempty"`
}

type ChallengeParticipant struct {
	ID               string    `json:"id"`
	ChallengeID      string    `json:"challenge_id"`
	UserID           string    `json:"user_id"`
	StakeAmountCents int       `json:"stake_amount_cents"`
	JoinedAt         time.Time `json:"joined_at"`
}

// challenge entry sources
const (
	EntrySourceManual      = "manual"
	EntrySourceIntegration = "integration"
	EntrySourcePhoto       = "photo"
)

// ChallengeEntryModel one participant's progress amount for one day of a
// challenge. Unique per (challenge, user, date); saves replace.
type ChallengeEntryModel struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	Amount      int       `json:"amount" validate:"min=0"`
	Source      string    `json:"source" validate:"required,oneof=manual integration photo"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChallengeRepository interface {
	SaveChallenge(ctx context.Context, challenge *ChallengeModel) error
	GetChallenge(ctx context.Context, challengeID string) (*ChallengeModel, error)
	ListChallengesByGroup(ctx context.Context, groupID string) ([]*ChallengeModel, error)
	ListChallengesByParticipant(ctx context.Context, userID string) ([]*ChallengeModel, error)
	AddParticipant(ctx context.Context, participant *ChallengeParticipant) error
	IsParticipant(ctx context.Context, challengeID, userID string) (bool, error)
	UpsertEntry(ctx context.Context, entry *ChallengeEntryModel) error
	ListEntries(ctx context.Context, challengeID, userID string) ([]*ChallengeEntryModel, error)
}

type ChallengeUseCase interface {
	CreateChallenge(ctx context.Context, creator *UserModel, challenge *ChallengeModel) (*ChallengeModel, error)
	JoinChallenge(ctx context.Context, user *UserModel, challengeID string, stakeAmountCents int) (*ChallengeParticipant, error)
	GetChallenge(ctx context.Context, user *UserModel, challengeID string) (*ChallengeModel, error)
	ListGroupChallenges(ctx context.Context, user *UserModel, groupID string) ([]*ChallengeModel, error)
	ListMyChallenges(ctx context.Context, user *UserModel) ([]*ChallengeModel, error)
	RecordEntry(ctx context.Context, user *UserModel, entry *ChallengeEntryModel) (*ChallengeEntryModel, error)
	ListMyEntries(ctx context.Context, user *UserModel, challengeID string) ([]*ChallengeEntryModel, error)
}
