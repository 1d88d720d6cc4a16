package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"accessgate/internal/middleware"
	"accessgate/internal/service"
)

// UserHandler handles user lookups and the self-service identity
// endpoints.
type UserHandler struct {
	userService service.UserService
	permissions service.PermissionService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, permissions service.PermissionService) *UserHandler {
	return &UserHandler{userService: userService, permissions: permissions}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Me godoc
// @Summary Get the authenticated user's identity, roles and permissions
// @Tags users
// @Produce json
// @Success 200 {object} service.UserInfo
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	info, err := h.userService.GetUserInfo(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, info)
}

// MyPermissions godoc
// @Summary List the authenticated user's effective permissions
// @Tags users
// @Produce json
// @Success 200 {array} model.Permission
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/permissions [get]
func (h *UserHandler) MyPermissions(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	permissions, err := h.permissions.GetUserPermissions(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, permissions)
}

// MyPermissionNames godoc
// @Summary List the authenticated user's permission system-names
// @Tags users
// @Produce json
// @Success 200 {array} string
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/permissions/names [get]
func (h *UserHandler) MyPermissionNames(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	names, err := h.permissions.GetUserPermissionNames(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, names)
}

// CheckPermission godoc
// @Summary Check whether the authenticated user holds a permission
// @Tags users
// @Produce json
// @Param name path string true "Permission system-name"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /me/permissions/check/{name} [get]
func (h *UserHandler) CheckPermission(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	held, err := h.permissions.HasPermission(c.Request().Context(), userID, c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"has_permission": held})
}
