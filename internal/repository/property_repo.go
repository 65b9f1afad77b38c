package repository

import (
	"context"

	"gorm.io/gorm"

	"rental-backend/internal/models"
)

// PropertyFilter narrows the public property listing.
type PropertyFilter struct {
	Type         models.PropertyType
	Status       models.PropertyStatus
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MinBathrooms *int
}

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error)
	Find(ctx context.Context, filter PropertyFilter) ([]models.Property, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	UpdateStatus(ctx context.Context, id uint, status models.PropertyStatus) error
	Delete(ctx context.Context, id uint) error
	CountByOwner(ctx context.Context, ownerID uint, status *models.PropertyStatus) (int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	if err := r.db.WithContext(ctx).Preload("Owner").First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByIDForUpdate acquires a row-level lock on the property within the given
// transaction, serializing concurrent booking attempts for the same property.
func (r *propertyRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
	var property models.Property
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Find(ctx context.Context, filter PropertyFilter) ([]models.Property, error) {
	q := r.db.WithContext(ctx).Preload("Owner")

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinBedrooms != nil {
		q = q.Where("feature_bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.MinBathrooms != nil {
		q = q.Where("feature_bathrooms >= ?", *filter.MinBathrooms)
	}

	var properties []models.Property
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) FindByOwner(ctx context.Context, ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id uint, status models.PropertyStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) CountByOwner(ctx context.Context, ownerID uint, status *models.PropertyStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Property{}).Where("owner_id = ?", ownerID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
