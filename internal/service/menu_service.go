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

// MenuService manages the menu item catalog.
type MenuService interface {
	GetAllMenuItems(ctx context.Context) ([]model.MenuItem, error)
	GetMenuItem(ctx context.Context, id uint) (*model.MenuItem, error)
	GetTopLevelMenuItems(ctx context.Context) ([]model.MenuItem, error)
	GetMenuItemsByParent(ctx context.Context, parentID uint) ([]model.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *model.MenuItem) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *model.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uint) error
}

type menuService struct {
	menuRepo repository.MenuItemRepository
}

// NewMenuService builds a MenuService.
func NewMenuService(menuRepo repository.MenuItemRepository) MenuService {
	return &menuService{menuRepo: menuRepo}
}

func (s *menuService) GetAllMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	return s.menuRepo.List(ctx)
}

func (s *menuService) GetMenuItem(ctx context.Context, id uint) (*model.MenuItem, error) {
	item, err := s.menuRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetTopLevelMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	return s.menuRepo.ListTopLevel(ctx)
}

func (s *menuService) GetMenuItemsByParent(ctx context.Context, parentID uint) ([]model.MenuItem, error) {
	return s.menuRepo.ListByParent(ctx, parentID)
}

func (s *menuService) CreateMenuItem(ctx context.Context, item *model.MenuItem) (*model.MenuItem, error) {
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, item *model.MenuItem) error {
	if _, err := s.GetMenuItem(ctx, item.ID); err != nil {
		return err
	}
	if err := s.menuRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

// DeleteMenuItem removes a leaf menu item. Items that still have
// children are rejected; parent references are soft, so the guard lives
// here rather than in the schema.
func (s *menuService) DeleteMenuItem(ctx context.Context, id uint) error {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.menuRepo.ListByParent(ctx, id)
	if err != nil {
		return fmt.Errorf("list children: %w", err)
	}
	if len(children) > 0 {
		return errors.ErrMenuItemHasChildren
	}

	if err := s.menuRepo.Delete(ctx, item); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}
