package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

var ErrEmptyMessage = errors.New("message is required")

type MessageService interface {
	ListMessages(ctx context.Context, ident auth.Identity, propertyID uint) ([]models.Message, error)
	PostMessage(ctx context.Context, ident auth.Identity, propertyID uint, body string) (*models.Message, error)
	MarkMessagesRead(ctx context.Context, ident auth.Identity, propertyID uint) error
}

type messageService struct {
	messageRepo  repository.MessageRepository
	propertyRepo repository.PropertyRepository
}

func NewMessageService(messageRepo repository.MessageRepository, propertyRepo repository.PropertyRepository) MessageService {
	return &messageService{messageRepo: messageRepo, propertyRepo: propertyRepo}
}

func (s *messageService) ListMessages(ctx context.Context, ident auth.Identity, propertyID uint) ([]models.Message, error) {
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByProperty(ctx, propertyID)
}

func (s *messageService) PostMessage(ctx context.Context, ident auth.Identity, propertyID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	message := &models.Message{
		PropertyID:  propertyID,
		SenderID:    ident.UserID,
		Body:        body,
		IsRead:      false,
		IsDelivered: true,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *messageService) MarkMessagesRead(ctx context.Context, ident auth.Identity, propertyID uint) error {
	if err := s.ensureProperty(ctx, propertyID); err != nil {
		return err
	}
	return s.messageRepo.MarkReadExceptSender(ctx, propertyID, ident.UserID)
}

func (s *messageService) ensureProperty(ctx context.Context, propertyID uint) error {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}
	return nil
}
