package http

import (
	"errors"
	"net/http"

	"github.com/goalstake/goalstake-server/internal/domain"
	"github.com/goalstake/goalstake-server/internal/infrastructure/auth"
	"github.com/goalstake/goalstake-server/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
)

// GroupHandler accountability group operations
type GroupHandler struct {
	groupUseCase domain.GroupUseCase
	jwtUtil      *auth.JWTUtil
	validator    validate.Validator
}

func NewGroupHandler(
	GroupUseCase domain.GroupUseCase,
	JWTUtil *auth.JWTUtil,
	Validator validate.Validator,
) *GroupHandler {
	handler := &GroupHandler{GroupUseCase, JWTUtil, Validator}
	return handler
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required"`
}

// HandleCreateGroup ...
func (gh *GroupHandler) HandleCreateGroup(c echo.Context) (err error) {
	claims := gh.jwtUtil.GetContextToken(c)

	post := new(createGroupRequest)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := gh.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	group, err := gh.groupUseCase.CreateGroup(c.Request().Context(), &domain.UserModel{ID: claims.UID}, post.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, group)
}

// HandleJoinGroup ...
func (gh *GroupHandler) HandleJoinGroup(c echo.Context) (err error) {
	claims := gh.jwtUtil.GetContextToken(c)

	err = gh.groupUseCase.JoinGroup(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchGroup) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		return err
	}
	return c.NoContent(http.StatusOK)
}

// HandleGetGroup ...
func (gh *GroupHandler) HandleGetGroup(c echo.Context) (err error) {
	claims := gh.jwtUtil.GetContextToken(c)

	group, err := gh.groupUseCase.GetGroup(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchGroup) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		if errors.Is(err, domain.ErrNotGroupMember) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		return err
	}
	return c.JSON(http.StatusOK, group)
}

// HandleListMyGroups ...
func (gh *GroupHandler) HandleListMyGroups(c echo.Context) (err error) {
	claims := gh.jwtUtil.GetContextToken(c)

	groups, err := gh.groupUseCase.ListMyGroups(c.Request().Context(), &domain.UserModel{ID: claims.UID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

// HandleUpdateSettings replace the group's stake settings, admin only
func (gh *GroupHandler) HandleUpdateSettings(c echo.Context) (err error) {
	claims := gh.jwtUtil.GetContextToken(c)

	post := new(domain.StakeSettings)
	if err = c.Bind(&post); err != nil {
		internal := err.(*echo.HTTPError).Internal
		return c.JSON(http.StatusUnprocessableEntity,
			NewRESTStandardError(http.StatusUnprocessableEntity, internal.Error()))
	}
	if err := gh.validator.Struct(post); err != nil {
		return c.JSON(http.StatusBadRequest,
			NewRESTValidationError(http.StatusBadRequest, "Failed to validate fields", err))
	}

	err = gh.groupUseCase.UpdateSettings(c.Request().Context(), &domain.UserModel{ID: claims.UID}, c.Param("id"), post)
	if err != nil {
		if errors.Is(err, domain.ErrNoSuchGroup) {
			return c.JSON(http.StatusNotFound, NewRESTStandardError(http.StatusNotFound, err.Error()))
		}
		if errors.Is(err, domain.ErrNotGroupMember) {
			return c.JSON(http.StatusForbidden, NewRESTStandardError(http.StatusForbidden, err.Error()))
		}
		return err
	}
	return c.NoContent(http.StatusOK)
}
