package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tedas/villa_api/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (s *GormStore) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *GormStore) FindRefreshTokenBySecret(ctx context.Context, secret string) (models.RefreshToken, error) {
	var token models.RefreshToken
	err := s.DB.WithContext(ctx).Where("token = ?", secret).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RefreshToken{}, ErrNotFound
		}
		return models.RefreshToken{}, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (s *GormStore) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := s.DB.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *GormStore) SetRefreshTokenValidity(ctx context.Context, id uint, valid bool) error {
	err := s.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("is_valid", valid).Error
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *GormStore) ConsumeRefreshToken(ctx context.Context, id uint) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ? AND is_valid = ?", id, true).
		Update("is_valid", false)
	if res.Error != nil {
		return false, fmt.Errorf("db error: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) InvalidateChain(ctx context.Context, userID uint, jti string) error {
	err := s.DB.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND jti = ?", userID, jti).
		Update("is_valid", false).Error
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *GormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}
