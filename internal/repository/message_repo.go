package repository

import (
	"context"

	"gorm.io/gorm"

	"rental-backend/internal/models"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByProperty(ctx context.Context, propertyID uint) ([]models.Message, error)
	MarkReadExceptSender(ctx context.Context, propertyID, readerID uint) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByProperty(ctx context.Context, propertyID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkReadExceptSender marks every message on the property as read unless the
// reader sent it themselves.
func (r *messageRepository) MarkReadExceptSender(ctx context.Context, propertyID, readerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("property_id = ? AND sender_id <> ? AND is_read = ?", propertyID, readerID, false).
		Update("is_read", true).Error
}
