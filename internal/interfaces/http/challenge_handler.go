package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/infrastructure/auth"
	"github.com/goalstake/goalstake-server/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
)

// ChallengeHandler staked challenge operations
type ChallengeHandler struct {
	challengeUseCase domain.ChallengeUseCase
	jwtUtil          *auth.JWTUtil
	validator        validate.Validator
}

func NewChallengeHandler(
	ChallengeUseCase domain.ChallengeUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *ChallengeHandler {
	handler := &ChallengeHandler{ChallengeUseCase, JWTUtil, Validator}
	return handler
}

// HandleCreateChallenge ...
func (ch *ChallengeHandler) HandleCreateChallenge(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	post := new(domain.ChallengeModel)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ch.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	challenge, err := ch.challengeUseCase.CreateChallenge(c.Request().Context(), &domain.UserModel{ID: claims.UID}, post)
	if err != nil {
		if errors.Is(err, domain.ErrNotGroupMember) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		if errors.Is(err, domain.ErrInvalidChallengeWindow) || errors.Is(err, domain.ErrInvalidMixedPercent) {
			return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusCreated, challenge)
}

type joinChallengeRequest struct {
	StakeAmountCents int `json:"stake_amount_cents"`
}

// HandleJoinChallenge ...
func (ch *ChallengeHandler) HandleJoinChallenge(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	post := new(joinChallengeRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}

	participant, err := ch.challengeUseCase.JoinChallenge(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"), post.StakeAmountCents)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSuchChallenge):
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		case errors.Is(err, domain.ErrNotGroupMember):
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		case errors.Is(err, domain.ErrChallengeClosed):
			return c.JSON(http.StatusConflict, NewRESTStandardError(http.StatusConflict, err.Error()))
		case errors.Is(err, domain.ErrDuplicatedUser):
			return c.JSON(http.StatusConflict, NewRESTStandardError(http.StatusConflict, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusCreated, participant)
}

// HandleGetChallenge ...
func (ch *ChallengeHandler) HandleGetChallenge(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	challenge, err := ch.challengeUseCase.GetChallenge(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchChallenge) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		if errors.Is(err, domain.ErrNotGroupMember) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, challenge)
}

// HandleListGroupChallenges ...
func (ch *ChallengeHandler) HandleListGroupChallenges(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	challenges, err := ch.challengeUseCase.ListGroupChallenges(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotGroupMember) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, challenges)
}

// HandleListMyChallenges ...
func (ch *ChallengeHandler) HandleListMyChallenges(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	challenges, err := ch.challengeUseCase.ListMyChallenges(c.Request().Context(), &domain.UserModel{ID: claims.UID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, challenges)
}

type challengeEntryRequest struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

// HandleRecordEntry save the caller's progress amount for one challenge day
func (ch *ChallengeHandler) HandleRecordEntry(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	post := new(challengeEntryRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	day, err := parseDay(post.Date, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", []*validate.FieldError{{
			Domain: "date",
			Reason: err.Error(),
		}}))
	}
	if post.Source == "" {
		post.Source = domain.EntrySourceManual
	}

	entry := &domain.ChallengeEntryModel{
		ChallengeID: c.Param("id"),
		Date:        day,
		Amount:      post.Amount,
		Source:      post.Source,
	}
	if err := ch.validator.Struct(entry); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	saved, err := ch.challengeUseCase.RecordEntry(c.Request().Context(), &domain.UserModel{ID: claims.UID}, entry)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSuchChallenge):
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		case errors.Is(err, domain.ErrNotParticipant):
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		case errors.Is(err, domain.ErrChallengeClosed):
			return c.JSON(http.StatusConflict, NewRESTStandardError(http.StatusConflict, err.Error()))
		case errors.Is(err, domain.ErrInvalidMinutes):
			return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

// HandleListMyEntries ...
func (ch *ChallengeHandler) HandleListMyEntries(c echo.Context) (err error) {
	claims := ch.jwtUtil.GetContextToken(c)

	entries, err := ch.challengeUseCase.ListMyEntries(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotParticipant) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
