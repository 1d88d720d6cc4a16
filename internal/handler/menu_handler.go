package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"accessgate/internal/middleware"
	"accessgate/internal/model"
	"accessgate/internal/service"
)

// MenuHandler handles menu administration and the per-user menu.
type MenuHandler struct {
	menuService service.MenuService
	permissions service.PermissionService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuService service.MenuService, permissions service.PermissionService) *MenuHandler {
	return &MenuHandler{menuService: menuService, permissions: permissions}
}

// MenuItemRequest carries menu item create/update payloads.
type MenuItemRequest struct {
	Name               string `json:"name" validate:"required,max=100"`
	DisplayName        string `json:"display_name" validate:"required,max=100"`
	URL                string `json:"url" validate:"max=255"`
	Icon               string `json:"icon" validate:"max=100"`
	ParentID           uint   `json:"parent_id"`
	DisplayOrder       int    `json:"display_order"`
	IsVisible          bool   `json:"is_visible"`
	RequiredPermission string `json:"required_permission" validate:"max=100"`
}

// ListMenuItems godoc
// @Summary List all menu items
// @Tags menus
// @Produce json
// @Success 200 {array} model.MenuItem
// @Security BearerAuth
// @Router /menuitems [get]
func (h *MenuHandler) ListMenuItems(c echo.Context) error {
	items, err := h.menuService.GetAllMenuItems(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetMenuItem godoc
// @Summary Get a menu item by id
// @Tags menus
// @Produce json
// @Param id path int true "Menu item ID"
// @Success 200 {object} model.MenuItem
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /menuitems/{id} [get]
func (h *MenuHandler) GetMenuItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.menuService.GetMenuItem(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListTopLevelMenuItems godoc
// @Summary List visible top-level menu items
// @Tags menus
// @Produce json
// @Success 200 {array} model.MenuItem
// @Security BearerAuth
// @Router /menuitems/toplevel [get]
func (h *MenuHandler) ListTopLevelMenuItems(c echo.Context) error {
	items, err := h.menuService.GetTopLevelMenuItems(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListMenuItemsByParent godoc
// @Summary List visible menu items under a parent
// @Tags menus
// @Produce json
// @Param parentId path int true "Parent menu item ID"
// @Success 200 {array} model.MenuItem
// @Security BearerAuth
// @Router /menuitems/parent/{parentId} [get]
func (h *MenuHandler) ListMenuItemsByParent(c echo.Context) error {
	parentID, err := pathID(c, "parentId")
	if err != nil {
		return err
	}
	items, err := h.menuService.GetMenuItemsByParent(c.Request().Context(), parentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// CreateMenuItem godoc
// @Summary Create a menu item
// @Tags menus
// @Accept json
// @Produce json
// @Param request body MenuItemRequest true "Menu item data"
// @Success 201 {object} model.MenuItem
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /menuitems [post]
func (h *MenuHandler) CreateMenuItem(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.menuService.CreateMenuItem(c.Request().Context(), &model.MenuItem{
		Name:               req.Name,
		DisplayName:        req.DisplayName,
		URL:                req.URL,
		Icon:               req.Icon,
		ParentID:           req.ParentID,
		DisplayOrder:       req.DisplayOrder,
		IsVisible:          req.IsVisible,
		RequiredPermission: req.RequiredPermission,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem godoc
// @Summary Update a menu item
// @Tags menus
// @Accept json
// @Produce json
// @Param id path int true "Menu item ID"
// @Param request body MenuItemRequest true "Menu item data"
// @Success 200 {object} model.MenuItem
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /menuitems/{id} [put]
func (h *MenuHandler) UpdateMenuItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item := &model.MenuItem{
		ID:                 id,
		Name:               req.Name,
		DisplayName:        req.DisplayName,
		URL:                req.URL,
		Icon:               req.Icon,
		ParentID:           req.ParentID,
		DisplayOrder:       req.DisplayOrder,
		IsVisible:          req.IsVisible,
		RequiredPermission: req.RequiredPermission,
	}
	if err := h.menuService.UpdateMenuItem(c.Request().Context(), item); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem godoc
// @Summary Delete a menu item
// @Tags menus
// @Param id path int true "Menu item ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /menuitems/{id} [delete]
func (h *MenuHandler) DeleteMenuItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.menuService.DeleteMenuItem(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserMenu godoc
// @Summary Get the menu visible to the authenticated user
// @Tags menus
// @Produce json
// @Success 200 {array} model.MenuItem
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /usermenu [get]
func (h *MenuHandler) GetUserMenu(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	items, err := h.permissions.GetAuthorizedMenuItems(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}
