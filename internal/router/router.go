package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"accessgate/internal/auth"
	"accessgate/internal/handler"
	"accessgate/internal/middleware"
	"accessgate/internal/service"
)

// Register wires routes and middleware. Every protected route declares
// its required permission system-name; the permission middleware
// evaluates them all through the same policy handler.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	permissions service.PermissionService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	permissionHandler *handler.PermissionHandler,
	menuHandler *handler.MenuHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.GET("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/resend-verification", authHandler.ResendVerification)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh-token", authHandler.Refresh)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// Authenticated routes (valid access token, no specific permission)
	secured := api.Group("", middleware.Authentication(jwtService))

	secured.POST("/auth/change-password", authHandler.ChangePassword)
	secured.POST("/auth/revoke-token", authHandler.RevokeToken)

	secured.GET("/me", userHandler.Me)
	secured.GET("/me/permissions", userHandler.MyPermissions)
	secured.GET("/me/permissions/names", userHandler.MyPermissionNames)
	secured.GET("/me/permissions/check/:name", userHandler.CheckPermission)
	secured.GET("/usermenu", menuHandler.GetUserMenu)

	// Permission-gated administration
	require := func(permission string) echo.MiddlewareFunc {
		return middleware.RequirePermission(permissions, permission)
	}

	secured.GET("/users", userHandler.ListUsers, require(handler.PermUsersView))
	secured.GET("/users/:id", userHandler.GetUser, require(handler.PermUsersView))

	secured.GET("/roles", roleHandler.ListRoles, require(handler.PermRolesView))
	secured.GET("/roles/:id", roleHandler.GetRole, require(handler.PermRolesView))
	secured.GET("/roles/:id/permissions", roleHandler.GetRolePermissions, require(handler.PermRolesView))
	secured.POST("/roles", roleHandler.CreateRole, require(handler.PermRolesCreate))
	secured.PUT("/roles/:id", roleHandler.UpdateRole, require(handler.PermRolesEdit))
	secured.DELETE("/roles/:id", roleHandler.DeleteRole, require(handler.PermRolesDelete))
	secured.POST("/roles/:roleId/permissions/:permissionId", roleHandler.AddPermissionToRole, require(handler.PermPermissionsAssign))
	secured.DELETE("/roles/:roleId/permissions/:permissionId", roleHandler.RemovePermissionFromRole, require(handler.PermPermissionsAssign))
	secured.GET("/roles/:roleId/users", roleHandler.GetUsersInRole, require(handler.PermRolesView))
	secured.POST("/roles/:roleId/users/:userId", roleHandler.AddUserToRole, require(handler.PermRolesEdit))
	secured.DELETE("/roles/:roleId/users/:userId", roleHandler.RemoveUserFromRole, require(handler.PermRolesEdit))

	secured.GET("/permissions", permissionHandler.ListPermissions, require(handler.PermPermissionsView))
	secured.GET("/permissions/:id", permissionHandler.GetPermission, require(handler.PermPermissionsView))
	secured.GET("/permissions/category/:category", permissionHandler.ListPermissionsByCategory, require(handler.PermPermissionsView))
	secured.POST("/permissions", permissionHandler.CreatePermission, require(handler.PermPermissionsAssign))
	secured.PUT("/permissions/:id", permissionHandler.UpdatePermission, require(handler.PermPermissionsAssign))
	secured.DELETE("/permissions/:id", permissionHandler.DeletePermission, require(handler.PermPermissionsAssign))

	secured.GET("/menuitems", menuHandler.ListMenuItems, require(handler.PermMenusManage))
	secured.GET("/menuitems/toplevel", menuHandler.ListTopLevelMenuItems, require(handler.PermMenusManage))
	secured.GET("/menuitems/parent/:parentId", menuHandler.ListMenuItemsByParent, require(handler.PermMenusManage))
	secured.GET("/menuitems/:id", menuHandler.GetMenuItem, require(handler.PermMenusManage))
	secured.POST("/menuitems", menuHandler.CreateMenuItem, require(handler.PermMenusManage))
	secured.PUT("/menuitems/:id", menuHandler.UpdateMenuItem, require(handler.PermMenusManage))
	secured.DELETE("/menuitems/:id", menuHandler.DeleteMenuItem, require(handler.PermMenusManage))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
