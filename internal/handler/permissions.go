package handler

// Permission system-names gating the administrative endpoints. Each
// protected route declares one of these; the authorization middleware
// evaluates them against the caller's resolved permission set.
const (
	PermUsersView         = "users.view"
	PermRolesView         = "roles.view"
	PermRolesCreate       = "roles.create"
	PermRolesEdit         = "roles.edit"
	PermRolesDelete       = "roles.delete"
	PermPermissionsView   = "permissions.view"
	PermPermissionsAssign = "permissions.assign"
	PermMenusManage       = "menus.manage"
)
