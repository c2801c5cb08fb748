package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/liuwen-dev/vocana/internal/domains/user"
)

type GormUserRepo struct {
	db *gorm.DB
}

func NewGormUserRepo(db *gorm.DB) *GormUserRepo {
	return &GormUserRepo{db: db}
}

// Create implements user.UserRepository.
func (g *GormUserRepo) Create(ctx context.Context, u *user.User) error {
	entity := NewUserEntityFromDomain(u)
	if err := g.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	*u = *entity.ToDomain()
	return nil
}

// GetByID implements user.UserRepository.
func (g *GormUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	var entity UserEntity
	if err := g.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return entity.ToDomain(), nil
}

// Update implements user.UserRepository.
func (g *GormUserRepo) Update(ctx context.Context, id string, updates user.UpdateUserRequest) (*user.User, error) {
	var entity UserEntity
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user for update: %w", err)
	}

	updateMap := make(map[string]interface{})
	if updates.Username != nil {
		updateMap["username"] = *updates.Username
	}
	if updates.Email != nil {
		updateMap["email"] = *updates.Email
	}
	if updates.Description != nil {
		updateMap["description"] = *updates.Description
	}
	if updates.ResponseFrequency != nil {
		updateMap["response_frequency"] = *updates.ResponseFrequency
	}
	if updates.Preferences != nil {
		updateMap["preferences"] = []byte(*updates.Preferences)
	}

	if len(updateMap) > 0 {
		if err := g.db.WithContext(ctx).Model(&entity).Updates(updateMap).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, fmt.Errorf("failed to get updated user: %w", err)
	}
	return entity.ToDomain(), nil
}

// Delete implements user.UserRepository (soft delete via is_active).
func (g *GormUserRepo) Delete(ctx context.Context, id string) error {
	result := g.db.WithContext(ctx).Model(&UserEntity{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// List implements user.UserRepository.
func (g *GormUserRepo) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	var entities []UserEntity
	var total int64

	if err := g.db.WithContext(ctx).Model(&UserEntity{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	err := g.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]user.User, 0, len(entities))
	for i := range entities {
		out = append(out, *entities[i].ToDomain())
	}
	return out, total, nil
}

// TouchActivity implements user.UserRepository.
func (g *GormUserRepo) TouchActivity(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Model(&UserEntity{}).
		Where("id = ?", id).
		Update("last_active", time.Now()).Error
}
