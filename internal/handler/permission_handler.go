package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"accessgate/internal/model"
	"accessgate/internal/service"
)

// PermissionHandler handles permission catalog administration.
type PermissionHandler struct {
	permissionAdmin service.PermissionAdminService
}

// NewPermissionHandler creates a new permission handler.
func NewPermissionHandler(permissionAdmin service.PermissionAdminService) *PermissionHandler {
	return &PermissionHandler{permissionAdmin: permissionAdmin}
}

// PermissionRequest carries permission create/update payloads.
type PermissionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	SystemName  string `json:"system_name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
	Category    string `json:"category" validate:"max=100"`
	Action      string `json:"action" validate:"max=50"`
	Resource    string `json:"resource" validate:"max=100"`
}

// ListPermissions godoc
// @Summary List permissions
// @Tags permissions
// @Produce json
// @Success 200 {array} model.Permission
// @Security BearerAuth
// @Router /permissions [get]
func (h *PermissionHandler) ListPermissions(c echo.Context) error {
	permissions, err := h.permissionAdmin.GetAllPermissions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, permissions)
}

// GetPermission godoc
// @Summary Get a permission by id
// @Tags permissions
// @Produce json
// @Param id path int true "Permission ID"
// @Success 200 {object} model.Permission
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /permissions/{id} [get]
func (h *PermissionHandler) GetPermission(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	permission, err := h.permissionAdmin.GetPermission(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, permission)
}

// ListPermissionsByCategory godoc
// @Summary List permissions in a category
// @Tags permissions
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} model.Permission
// @Security BearerAuth
// @Router /permissions/category/{category} [get]
func (h *PermissionHandler) ListPermissionsByCategory(c echo.Context) error {
	permissions, err := h.permissionAdmin.GetPermissionsByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, permissions)
}

// CreatePermission godoc
// @Summary Create a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param request body PermissionRequest true "Permission data"
// @Success 201 {object} model.Permission
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /permissions [post]
func (h *PermissionHandler) CreatePermission(c echo.Context) error {
	var req PermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	permission, err := h.permissionAdmin.CreatePermission(c.Request().Context(), &model.Permission{
		Name:        req.Name,
		SystemName:  req.SystemName,
		Description: req.Description,
		Category:    req.Category,
		Action:      req.Action,
		Resource:    req.Resource,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, permission)
}

// UpdatePermission godoc
// @Summary Update a permission
// @Tags permissions
// @Accept json
// @Produce json
// @Param id path int true "Permission ID"
// @Param request body PermissionRequest true "Permission data"
// @Success 200 {object} model.Permission
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /permissions/{id} [put]
func (h *PermissionHandler) UpdatePermission(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req PermissionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	permission := &model.Permission{
		ID:          id,
		Name:        req.Name,
		SystemName:  req.SystemName,
		Description: req.Description,
		Category:    req.Category,
		Action:      req.Action,
		Resource:    req.Resource,
	}
	if err := h.permissionAdmin.UpdatePermission(c.Request().Context(), permission); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, permission)
}

// DeletePermission godoc
// @Summary Delete a permission
// @Tags permissions
// @Param id path int true "Permission ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /permissions/{id} [delete]
func (h *PermissionHandler) DeletePermission(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.permissionAdmin.DeletePermission(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
