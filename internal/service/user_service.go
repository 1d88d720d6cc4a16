package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"accessgate/internal/errors"
	"accessgate/internal/model"
	"accessgate/internal/repository"
)

// UserInfo is the assembled identity view returned by /me.
type UserInfo struct {
	ID             uint     `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	IsActive       bool     `json:"is_active"`
	EmailConfirmed bool     `json:"email_confirmed"`
	Roles          []string `json:"roles"`
	Permissions    []string `json:"permissions"`
}

// UserService exposes user lookups for the admin and self-service
// endpoints.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserInfo(ctx context.Context, id uint) (*UserInfo, error)
}

type userService struct {
	userRepo    repository.UserRepository
	permissions PermissionService
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository, permissions PermissionService) UserService {
	return &userService{userRepo: userRepo, permissions: permissions}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// GetUserInfo joins the user row with its role system-names and
// effective permission names.
func (s *userService) GetUserInfo(ctx context.Context, id uint) (*UserInfo, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	roles, err := s.userRepo.GetRoles(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup roles: %w", err)
	}
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.SystemName)
	}

	permissionNames, err := s.permissions.GetUserPermissionNames(ctx, id)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		IsActive:       user.IsActive,
		EmailConfirmed: user.EmailConfirmed,
		Roles:          roleNames,
		Permissions:    permissionNames,
	}, nil
}
