package repository

import (
	"context"

	"gorm.io/gorm"

	"rental-backend/internal/models"
)

type FavoriteRepository interface {
	Exists(ctx context.Context, userID, propertyID uint) (bool, error)
	Add(ctx context.Context, userID, propertyID uint) error
	Remove(ctx context.Context, userID, propertyID uint) error
	FindProperties(ctx context.Context, userID uint) ([]models.Property, error)
	Count(ctx context.Context, userID uint) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, propertyID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_favorites").
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error
	return count > 0, err
}

func (r *favoriteRepository) Add(ctx context.Context, userID, propertyID uint) error {
	user := models.User{ID: userID}
	return r.db.WithContext(ctx).
		Model(&user).
		Association("Favorites").
		Append(&models.Property{ID: propertyID})
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, propertyID uint) error {
	user := models.User{ID: userID}
	return r.db.WithContext(ctx).
		Model(&user).
		Association("Favorites").
		Delete(&models.Property{ID: propertyID})
}

func (r *favoriteRepository) FindProperties(ctx context.Context, userID uint) ([]models.Property, error) {
	user := models.User{ID: userID}
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Model(&user).
		Preload("Owner").
		Association("Favorites").
		Find(&properties)
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *favoriteRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_favorites").
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
