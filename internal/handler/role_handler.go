package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"accessgate/internal/model"
	"accessgate/internal/service"
)

// RoleHandler handles role administration endpoints.
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RoleRequest carries role create/update payloads.
type RoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	SystemName  string `json:"system_name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// ListRoles godoc
// @Summary List roles
// @Tags roles
// @Produce json
// @Success 200 {array} model.Role
// @Security BearerAuth
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c echo.Context) error {
	roles, err := h.roleService.GetAllRoles(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, roles)
}

// GetRole godoc
// @Summary Get a role by id
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {object} model.Role
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	role, err := h.roleService.GetRole(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, role)
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Param request body RoleRequest true "Role data"
// @Success 201 {object} model.Role
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c echo.Context) error {
	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.CreateRole(c.Request().Context(), &model.Role{
		Name:        req.Name,
		SystemName:  req.SystemName,
		Description: req.Description,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, role)
}

// UpdateRole godoc
// @Summary Update a role
// @Tags roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body RoleRequest true "Role data"
// @Success 200 {object} model.Role
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := h.roleService.UpdateRole(c.Request().Context(), id, req.Name, req.SystemName, req.Description)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Delete a role
// @Tags roles
// @Param id path int true "Role ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.roleService.DeleteRole(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetRolePermissions godoc
// @Summary List the permissions of a role
// @Tags roles
// @Produce json
// @Param id path int true "Role ID"
// @Success 200 {array} model.Permission
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{id}/permissions [get]
func (h *RoleHandler) GetRolePermissions(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.roleService.GetRole(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	permissions, err := h.roleService.GetRolePermissions(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, permissions)
}

// AddPermissionToRole godoc
// @Summary Link a permission to a role
// @Tags roles
// @Param roleId path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{roleId}/permissions/{permissionId} [post]
func (h *RoleHandler) AddPermissionToRole(c echo.Context) error {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	permissionID, err := pathID(c, "permissionId")
	if err != nil {
		return err
	}
	if err := h.roleService.AddPermissionToRole(c.Request().Context(), roleID, permissionID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemovePermissionFromRole godoc
// @Summary Unlink a permission from a role
// @Tags roles
// @Param roleId path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{roleId}/permissions/{permissionId} [delete]
func (h *RoleHandler) RemovePermissionFromRole(c echo.Context) error {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	permissionID, err := pathID(c, "permissionId")
	if err != nil {
		return err
	}
	if err := h.roleService.RemovePermissionFromRole(c.Request().Context(), roleID, permissionID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUsersInRole godoc
// @Summary List the users holding a role
// @Tags roles
// @Produce json
// @Param roleId path int true "Role ID"
// @Success 200 {array} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{roleId}/users [get]
func (h *RoleHandler) GetUsersInRole(c echo.Context) error {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	users, err := h.roleService.GetUsersInRole(c.Request().Context(), roleID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// AddUserToRole godoc
// @Summary Link a user to a role
// @Tags roles
// @Param roleId path int true "Role ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{roleId}/users/{userId} [post]
func (h *RoleHandler) AddUserToRole(c echo.Context) error {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.roleService.AddUserToRole(c.Request().Context(), userID, roleID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveUserFromRole godoc
// @Summary Unlink a user from a role
// @Tags roles
// @Param roleId path int true "Role ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /roles/{roleId}/users/{userId} [delete]
func (h *RoleHandler) RemoveUserFromRole(c echo.Context) error {
	roleID, err := pathID(c, "roleId")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.roleService.RemoveUserFromRole(c.Request().Context(), userID, roleID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
