package domain

import "errors"

// ErrNoSuchUser failed to validate the credential
var ErrNoSuchUser = errors.New("No such user or password is incorrect")

// ErrDuplicatedUser unique key constraint violation
var ErrDuplicatedUser = errors.New("Username or email is already registered")

// ErrUserTooManyRetry login attempts exceeded the limit
var ErrUserTooManyRetry = errors.New("Too many login attempts, try again later")

// ErrNoSuchGroup group lookup miss
var ErrNoSuchGroup = errors.New("No such group")

// ErrNoSuchChallenge challenge lookup miss
var ErrNoSuchChallenge = errors.New("No such challenge")

// ErrNotGroupMember operation requires group membership
var ErrNotGroupMember = errors.New("User is not a member of the group")

// ErrNotParticipant operation requires challenge participation
var ErrNotParticipant = errors.New("User is not a participant of the challenge")

// ErrChallengeClosed entries are only accepted inside the challenge window
var ErrChallengeClosed = errors.New("Challenge is not accepting entries")

// ErrInvalidChallengeWindow start and end dates do not form a window
var ErrInvalidChallengeWindow = errors.New("Challenge end date must be after the start date")

// ErrInvalidMixedPercent the winners split must be a percentage
var ErrInvalidMixedPercent = errors.New("Winners percent must be between 0 and 100")

// ErrInvalidGoal daily goals must be positive
var ErrInvalidGoal = errors.New("Daily goal must be greater than zero")

// ErrInvalidMinutes usage minutes must not be negative
var ErrInvalidMinutes = errors.New("Minutes must be zero or more")
