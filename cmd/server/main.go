package main

import (
	"log"
	"net/http"
	"os"

	_ "accessgate/docs" // swagger docs

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"accessgate/internal/auth"
	"accessgate/internal/cache"
	"accessgate/internal/config"
	"accessgate/internal/db"
	"accessgate/internal/handler"
	"accessgate/internal/mail"
	"accessgate/internal/model"
	"accessgate/internal/repository"
	"accessgate/internal/router"
	"accessgate/internal/service"
)

// @title Access Gate API
// @version 1.0
// @description Role-based access control backend with JWT authentication, permission policies, and dynamic menus.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.MenuItem{},
			&model.RolePermission{},
			&model.UserRole{},
			&model.Permission{},
			&model.Role{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.Permission{},
		&model.UserRole{},
		&model.RolePermission{},
		&model.MenuItem{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	permissionRepo := repository.NewPermissionRepository(gormDB)
	menuRepo := repository.NewMenuItemRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.BaseURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, jwtService, mailer)
	permissionService := service.NewPermissionService(userRepo, menuRepo, cacheClient)
	roleService := service.NewRoleService(roleRepo, userRepo, permissionRepo, cacheClient)
	permissionAdminService := service.NewPermissionAdminService(permissionRepo)
	menuService := service.NewMenuService(menuRepo)
	userService := service.NewUserService(userRepo, permissionService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, permissionService)
	roleHandler := handler.NewRoleHandler(roleService)
	permissionHandler := handler.NewPermissionHandler(permissionAdminService)
	menuHandler := handler.NewMenuHandler(menuService, permissionService)

	// Register routes
	router.Register(
		e,
		jwtService,
		permissionService,
		authHandler,
		userHandler,
		roleHandler,
		permissionHandler,
		menuHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: http://%s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
