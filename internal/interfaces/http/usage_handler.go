package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/extraction"
	"github.com/goalstake/goalstake-server/internal/infrastructure/auth"
	"github.com/goalstake/goalstake-server/internal/infrastructure/validate"
	"github.com/goalstake/goalstake-server/internal/progress"
	"github.com/goalstake/goalstake-server/internal/recognize"
	"github.com/labstack/echo/v4"
)

// UsageHandler screen time recording and progress queries
type UsageHandler struct {
	usageUseCase   domain.UsageUseCase
	userRepository domain.UserRepository
	jwtUtil        *auth.JWTUtil
	validator      validate.Validator
}

func NewUsageHandler(
	UsageUseCase domain.UsageUseCase,
	UserRepository domain.UserRepository,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *UsageHandler {
	handler := &UsageHandler{UsageUseCase, UserRepository, JWTUtil, Validator}
	return handler
}

type screenshotRequest struct {
	ImageURL       string `json:"image_url"`
	RecognizedText string `json:"recognized_text"`
	Date           string `json:"date"`
}

type manualRequest struct {
	Minutes int    `json:"minutes"`
	Date    string `json:"date"`
}

// HandleRecordScreenshot save today's usage from a screen time screenshot.
// The client sends text it recognized on device, or an image URL for the
// recognition service when one is configured.
func (ush *UsageHandler) HandleRecordScreenshot(c echo.Context) (err error) {
	user, err := ush.contextUser(c)
	if err != nil {
		return err
	}

	post := new(screenshotRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := ush.validator.AllEmpty([]string{"image_url", "recognized_text"}, post.ImageURL, post.RecognizedText); err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", []*validate.FieldError{err}))
	}
	day, err := parseDay(post.Date, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", []*validate.FieldError{{
			Domain: "date",
			Reason: err.Error(),
		}}))
	}

	entry, err := ush.usageUseCase.RecordScreenshot(c.Request().Context(), user, post.ImageURL, post.RecognizedText, day)
	if err != nil {
		if errors.Is(err, extraction.ErrNoUsableData) || errors.Is(err, recognize.ErrNotConfigured) {
			return c.JSON(http.StatusUnprocessableEntity, NewRESTStandardError(http.StatusUnprocessableEntity, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// HandleRecordManual save a hand entered minute count
func (ush *UsageHandler) HandleRecordManual(c echo.Context) (err error) {
	user, err := ush.contextUser(c)
	if err != nil {
		return err
	}

	post := new(manualRequest)
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

	entry, err := ush.usageUseCase.RecordManual(c.Request().Context(), user, post.Minutes, day)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMinutes) {
			return c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// HandleGetProgress today's completion and the current streak
func (ush *UsageHandler) HandleGetProgress(c echo.Context) (err error) {
	user, err := ush.contextUser(c)
	if err != nil {
		return err
	}
	at, err := queryTime(c, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{{
			Domain: "ts",
			Reason: err.Error(),
		}}))
	}

	report, err := ush.usageUseCase.GetProgress(c.Request().Context(), user, at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// HandleGetWeek the Monday-based week summary
func (ush *UsageHandler) HandleGetWeek(c echo.Context) (err error) {
	user, err := ush.contextUser(c)
	if err != nil {
		return err
	}
	at, err := queryTime(c, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", []*validate.FieldError{{
			Domain: "ts",
			Reason: err.Error(),
		}}))
	}

	summary, err := ush.usageUseCase.GetWeeklySummary(c.Request().Context(), user, at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// contextUser load the full user record for the authenticated caller; the
// token only carries identity, not the daily goal
func (ush *UsageHandler) contextUser(c echo.Context) (*domain.UserModel, error) {
	claims := ush.jwtUtil.GetContextToken(c)
	user, err := ush.userRepository.FindByCredential(c.Request().Context(), &domain.UserModel{Username: claims.Name})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSuchUser
	}
	return user, nil
}

// parseDay accept a calendar day or a full timestamp, empty means fallback
func parseDay(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return progress.StartOfDay(fallback), nil
	}
	if day, err := time.Parse(progress.DayKeyLayout, value); err == nil {
		return day, nil
	}
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in %s or RFC3339 layout", progress.DayKeyLayout)
	}
	return progress.StartOfDay(at), nil
}

func queryTime(c echo.Context, fallback time.Time) (time.Time, error) {
	ts := c.QueryParam("ts")
	if ts == "" {
		return fallback, nil
	}
	at, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("ts must be in RFC3339 layout, %s", err.Error())
	}
	return at, nil
}
