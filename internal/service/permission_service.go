package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"accessgate/internal/cache"
	"accessgate/internal/model"
	"accessgate/internal/repository"
)

const (
	// resolutionCacheTTL bounds how stale a resolved permission or menu
	// set may be after a role mutation. Per-user entries are not evicted
	// eagerly; they age out.
	resolutionCacheTTL = 10 * time.Minute

	userPermissionsKeyPrefix = "user_permissions:"
	userMenuKeyPrefix        = "user_menus:"
)

// PermissionService resolves the effective permissions and the visible
// menu tree for a user. Authorize is the entry point the authorization
// middleware uses: it treats an empty requirement as open access.
type PermissionService interface {
	GetUserPermissions(ctx context.Context, userID uint) ([]model.Permission, error)
	GetUserPermissionNames(ctx context.Context, userID uint) ([]string, error)
	HasPermission(ctx context.Context, userID uint, systemName string) (bool, error)
	Authorize(ctx context.Context, userID uint, systemName string) (bool, error)
	GetAuthorizedMenuItems(ctx context.Context, userID uint) ([]model.MenuItem, error)
}

type permissionService struct {
	userRepo repository.UserRepository
	menuRepo repository.MenuItemRepository
	cache    cache.Cache
}

// NewPermissionService builds a PermissionService backed by the user and
// menu repositories and a shared cache.
func NewPermissionService(userRepo repository.UserRepository, menuRepo repository.MenuItemRepository, c cache.Cache) PermissionService {
	return &permissionService{userRepo: userRepo, menuRepo: menuRepo, cache: c}
}

// GetUserPermissions returns the deduplicated union of permissions
// reachable through the user's roles, cached per user.
func (s *permissionService) GetUserPermissions(ctx context.Context, userID uint) ([]model.Permission, error) {
	key := fmt.Sprintf("%s%d", userPermissionsKeyPrefix, userID)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Permission
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	permissions, err := s.userRepo.GetPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user permissions: %w", err)
	}

	if payload, err := json.Marshal(permissions); err == nil {
		_ = s.cache.Set(ctx, key, payload, resolutionCacheTTL)
	}
	return permissions, nil
}

// GetUserPermissionNames returns the distinct system-names of the
// user's effective permissions.
func (s *permissionService) GetUserPermissionNames(ctx context.Context, userID uint) ([]string, error) {
	permissions, err := s.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(permissions))
	names := make([]string, 0, len(permissions))
	for _, p := range permissions {
		if _, ok := seen[p.SystemName]; ok {
			continue
		}
		seen[p.SystemName] = struct{}{}
		names = append(names, p.SystemName)
	}
	return names, nil
}

// HasPermission reports whether systemName is among the user's
// effective permissions. Comparison is a case-sensitive exact match.
func (s *permissionService) HasPermission(ctx context.Context, userID uint, systemName string) (bool, error) {
	names, err := s.GetUserPermissionNames(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == systemName {
			return true, nil
		}
	}
	return false, nil
}

// Authorize grants unconditionally when no permission is required and
// otherwise delegates to HasPermission.
func (s *permissionService) Authorize(ctx context.Context, userID uint, systemName string) (bool, error) {
	if systemName == "" {
		return true, nil
	}
	return s.HasPermission(ctx, userID, systemName)
}

// GetAuthorizedMenuItems unions the visible menu items of each role the
// user holds, deduplicates them (first occurrence wins) and orders the
// result by (parent, display order). An unknown user yields an empty
// list, not an error.
func (s *permissionService) GetAuthorizedMenuItems(ctx context.Context, userID uint) ([]model.MenuItem, error) {
	key := fmt.Sprintf("%s%d", userMenuKeyPrefix, userID)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.MenuItem
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []model.MenuItem{}, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	roles, err := s.userRepo.GetRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user roles: %w", err)
	}

	seen := make(map[uint]struct{})
	items := make([]model.MenuItem, 0)
	for _, role := range roles {
		roleItems, err := s.menuRepo.VisibleForRole(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve menu for role %d: %w", role.ID, err)
		}
		for _, item := range roleItems {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ParentID != items[j].ParentID {
			return items[i].ParentID < items[j].ParentID
		}
		return items[i].DisplayOrder < items[j].DisplayOrder
	})

	if payload, err := json.Marshal(items); err == nil {
		_ = s.cache.Set(ctx, key, payload, resolutionCacheTTL)
	}
	return items, nil
}
