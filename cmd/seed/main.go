package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"accessgate/internal/config"
	"accessgate/internal/db"
	"accessgate/internal/model"
	"accessgate/internal/repository"
)

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin@123"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.Permission{},
		&model.UserRole{},
		&model.RolePermission{},
		&model.MenuItem{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	permissionRepo := repository.NewPermissionRepository(gormDB)
	menuRepo := repository.NewMenuItemRepository(gormDB)

	adminRole, err := seedRole(ctx, roleRepo, model.Role{
		Name:         "Administrator",
		SystemName:   "Administrator",
		Description:  "System administrator with full access to all features",
		IsSystemRole: true,
	})
	if err != nil {
		log.Fatalf("Failed to seed Administrator role: %v", err)
	}

	studentRole, err := seedRole(ctx, roleRepo, model.Role{
		Name:         "Student",
		SystemName:   "Student",
		Description:  "Student role with limited permissions",
		IsSystemRole: true,
	})
	if err != nil {
		log.Fatalf("Failed to seed Student role: %v", err)
	}

	permissions, err := seedPermissions(ctx, permissionRepo)
	if err != nil {
		log.Fatalf("Failed to seed permissions: %v", err)
	}
	log.Printf("Seeded %d permissions", len(permissions))

	// Administrator gets every permission, Student only views results.
	for _, p := range permissions {
		if err := roleRepo.AddPermission(ctx, adminRole.ID, p.ID); err != nil {
			log.Fatalf("Failed to grant %s to Administrator: %v", p.SystemName, err)
		}
		if p.SystemName == "results.view" {
			if err := roleRepo.AddPermission(ctx, studentRole.ID, p.ID); err != nil {
				log.Fatalf("Failed to grant %s to Student: %v", p.SystemName, err)
			}
		}
	}

	admin, err := seedAdminUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := roleRepo.AddUser(ctx, admin.ID, adminRole.ID); err != nil {
		log.Fatalf("Failed to assign Administrator role: %v", err)
	}

	if err := seedMenuItems(ctx, menuRepo); err != nil {
		log.Fatalf("Failed to seed menu items: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Admin login: %s / %s", adminUsername, adminPassword)
}

// seedRole creates the role if missing and returns the stored record.
func seedRole(ctx context.Context, repo repository.RoleRepository, role model.Role) (*model.Role, error) {
	existing, err := repo.FindBySystemName(ctx, role.SystemName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := repo.Create(ctx, &role); err != nil {
		return nil, err
	}
	log.Printf("Created role %s", role.SystemName)
	return &role, nil
}

func seedPermissions(ctx context.Context, repo repository.PermissionRepository) ([]model.Permission, error) {
	defaults := []model.Permission{
		{Name: "View Users", SystemName: "users.view", Description: "Permission to view users", Category: "Users", Action: "Read", Resource: "User"},
		{Name: "Create Users", SystemName: "users.create", Description: "Permission to create users", Category: "Users", Action: "Create", Resource: "User"},
		{Name: "Edit Users", SystemName: "users.edit", Description: "Permission to edit users", Category: "Users", Action: "Update", Resource: "User"},
		{Name: "Delete Users", SystemName: "users.delete", Description: "Permission to delete users", Category: "Users", Action: "Delete", Resource: "User"},
		{Name: "View Roles", SystemName: "roles.view", Description: "Permission to view roles", Category: "Roles", Action: "Read", Resource: "Role"},
		{Name: "Create Roles", SystemName: "roles.create", Description: "Permission to create roles", Category: "Roles", Action: "Create", Resource: "Role"},
		{Name: "Edit Roles", SystemName: "roles.edit", Description: "Permission to edit roles", Category: "Roles", Action: "Update", Resource: "Role"},
		{Name: "Delete Roles", SystemName: "roles.delete", Description: "Permission to delete roles", Category: "Roles", Action: "Delete", Resource: "Role"},
		{Name: "View Permissions", SystemName: "permissions.view", Description: "Permission to view permissions", Category: "Permissions", Action: "Read", Resource: "Permission"},
		{Name: "Assign Permissions", SystemName: "permissions.assign", Description: "Permission to assign permissions to roles", Category: "Permissions", Action: "Update", Resource: "Permission"},
		{Name: "View Results", SystemName: "results.view", Description: "Permission to view results", Category: "Results", Action: "Read", Resource: "Result"},
		{Name: "Create Results", SystemName: "results.create", Description: "Permission to create results", Category: "Results", Action: "Create", Resource: "Result"},
		{Name: "Edit Results", SystemName: "results.edit", Description: "Permission to edit results", Category: "Results", Action: "Update", Resource: "Result"},
		{Name: "Delete Results", SystemName: "results.delete", Description: "Permission to delete results", Category: "Results", Action: "Delete", Resource: "Result"},
		{Name: "Manage Menus", SystemName: "menus.manage", Description: "Permission to manage menu items", Category: "System", Action: "Update", Resource: "Menu"},
	}

	seeded := make([]model.Permission, 0, len(defaults))
	for _, p := range defaults {
		existing, err := repo.FindBySystemName(ctx, p.SystemName)
		if err == nil {
			seeded = append(seeded, *existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := repo.Create(ctx, &p); err != nil {
			return nil, err
		}
		seeded = append(seeded, p)
	}
	return seeded, nil
}

func seedAdminUser(ctx context.Context, repo repository.UserRepository) (*model.User, error) {
	existing, err := repo.FindByUsername(ctx, adminUsername)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Admin starts active and confirmed, no pending tokens.
	user := model.User{
		Username:       adminUsername,
		Email:          adminEmail,
		PasswordHash:   string(hash),
		IsActive:       true,
		EmailConfirmed: true,
	}
	if err := repo.Create(ctx, &user); err != nil {
		return nil, err
	}
	log.Printf("Created admin user %s", adminUsername)
	return &user, nil
}

// seedMenuItems builds a starter navigation tree. Items are matched by
// name so reruns do not duplicate them; children resolve ParentID from
// whatever ID their parent actually got.
func seedMenuItems(ctx context.Context, repo repository.MenuItemRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]*model.MenuItem, len(existing))
	for i := range existing {
		byName[existing[i].Name] = &existing[i]
	}

	type seedItem struct {
		item   model.MenuItem
		parent string
	}
	defaults := []seedItem{
		{item: model.MenuItem{Name: "Dashboard", DisplayName: "Dashboard", URL: "/dashboard", Icon: "home", DisplayOrder: 1, IsVisible: true}},
		{item: model.MenuItem{Name: "UserManagement", DisplayName: "User Management", URL: "#", Icon: "users", DisplayOrder: 2, IsVisible: true, RequiredPermission: "users.view"}},
		{item: model.MenuItem{Name: "Users", DisplayName: "Users", URL: "/users", Icon: "user", DisplayOrder: 1, IsVisible: true, RequiredPermission: "users.view"}, parent: "UserManagement"},
		{item: model.MenuItem{Name: "Roles", DisplayName: "Roles", URL: "/roles", Icon: "shield", DisplayOrder: 2, IsVisible: true, RequiredPermission: "roles.view"}, parent: "UserManagement"},
		{item: model.MenuItem{Name: "Permissions", DisplayName: "Permissions", URL: "/permissions", Icon: "key", DisplayOrder: 3, IsVisible: true, RequiredPermission: "permissions.view"}, parent: "UserManagement"},
		{item: model.MenuItem{Name: "MenuManagement", DisplayName: "Menu Management", URL: "/menus", Icon: "list", DisplayOrder: 3, IsVisible: true, RequiredPermission: "menus.manage"}},
		{item: model.MenuItem{Name: "Results", DisplayName: "Results", URL: "/results", Icon: "file-text", DisplayOrder: 4, IsVisible: true, RequiredPermission: "results.view"}},
	}

	created := 0
	for _, s := range defaults {
		if _, ok := byName[s.item.Name]; ok {
			continue
		}
		if s.parent != "" {
			parent, ok := byName[s.parent]
			if !ok {
				continue
			}
			s.item.ParentID = parent.ID
		}
		if err := repo.Create(ctx, &s.item); err != nil {
			return err
		}
		byName[s.item.Name] = &s.item
		created++
	}
	if created > 0 {
		log.Printf("Created %d menu items", created)
	}
	return nil
}
