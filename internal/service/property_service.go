package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

var (
	ErrNotLandlordRole  = errors.New("only landlords can add properties")
	ErrNotPropertyOwner = errors.New("not allowed to modify this property")
	ErrInvalidProperty  = errors.New("invalid property fields")
)

type PropertyInput struct {
	Title       string
	Description string
	Type        models.PropertyType
	Price       float64
	Location    models.Location
	Features    models.Features
	Status      models.PropertyStatus
}

type PropertyService interface {
	ListProperties(ctx context.Context, filter repository.PropertyFilter) ([]models.Property, error)
	GetProperty(ctx context.Context, id uint) (*models.Property, error)
	ListOwnProperties(ctx context.Context, ident auth.Identity) ([]models.Property, error)
	CreateProperty(ctx context.Context, ident auth.Identity, input PropertyInput) (*models.Property, error)
	UpdateProperty(ctx context.Context, ident auth.Identity, id uint, input PropertyInput) (*models.Property, error)
	DeleteProperty(ctx context.Context, ident auth.Identity, id uint) error
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
}

func NewPropertyService(propertyRepo repository.PropertyRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo}
}

func (s *propertyService) ListProperties(ctx context.Context, filter repository.PropertyFilter) ([]models.Property, error) {
	return s.propertyRepo.Find(ctx, filter)
}

func (s *propertyService) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

func (s *propertyService) ListOwnProperties(ctx context.Context, ident auth.Identity) ([]models.Property, error) {
	return s.propertyRepo.FindByOwner(ctx, ident.UserID)
}

func (s *propertyService) CreateProperty(ctx context.Context, ident auth.Identity, input PropertyInput) (*models.Property, error) {
	if !ident.CanListProperties() {
		return nil, ErrNotLandlordRole
	}
	if err := validatePropertyInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.PropertyAvailable
	}
	if !models.ValidPropertyStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidProperty, status)
	}

	property := &models.Property{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Type:        input.Type,
		Price:       input.Price,
		Location:    input.Location,
		Features:    input.Features,
		OwnerID:     ident.UserID,
		Status:      status,
	}
	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	return s.propertyRepo.FindByID(ctx, property.ID)
}

func (s *propertyService) UpdateProperty(ctx context.Context, ident auth.Identity, id uint, input PropertyInput) (*models.Property, error) {
	property, err := s.GetProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != ident.UserID && !ident.IsAdmin() {
		return nil, ErrNotPropertyOwner
	}
	if err := validatePropertyInput(input); err != nil {
		return nil, err
	}

	property.Title = strings.TrimSpace(input.Title)
	property.Description = input.Description
	property.Type = input.Type
	property.Price = input.Price
	property.Location = input.Location
	property.Features = input.Features
	if input.Status != "" {
		if !models.ValidPropertyStatus(input.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidProperty, input.Status)
		}
		property.Status = input.Status
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}
	return property, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, ident auth.Identity, id uint) error {
	property, err := s.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if property.OwnerID != ident.UserID && !ident.IsAdmin() {
		return ErrNotPropertyOwner
	}
	return s.propertyRepo.Delete(ctx, id)
}

func validatePropertyInput(input PropertyInput) error {
	title := strings.TrimSpace(input.Title)
	switch {
	case title == "" || len(title) > 100:
		return fmt.Errorf("%w: title is required and capped at 100 characters", ErrInvalidProperty)
	case input.Description == "" || len(input.Description) > 1000:
		return fmt.Errorf("%w: description is required and capped at 1000 characters", ErrInvalidProperty)
	case !models.ValidPropertyType(input.Type):
		return fmt.Errorf("%w: unknown type %q", ErrInvalidProperty, input.Type)
	case input.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProperty)
	case input.Features.Bedrooms < 0 || input.Features.Bathrooms < 0 || input.Features.Area < 0:
		return fmt.Errorf("%w: features cannot be negative", ErrInvalidProperty)
	case input.Location.Address == "" || input.Location.City == "" || input.Location.State == "" || input.Location.ZipCode == "":
		return fmt.Errorf("%w: full location is required", ErrInvalidProperty)
	}
	return nil
}
