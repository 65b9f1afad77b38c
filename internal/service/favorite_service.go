package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

type FavoriteService interface {
	ToggleFavorite(ctx context.Context, ident auth.Identity, propertyID uint) (bool, error)
	ListFavorites(ctx context.Context, ident auth.Identity) ([]models.Property, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	propertyRepo repository.PropertyRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, propertyRepo repository.PropertyRepository) FavoriteService {
	return &favoriteService{favoriteRepo: favoriteRepo, propertyRepo: propertyRepo}
}

// ToggleFavorite flips the saved state and reports whether the property is
// now a favorite.
func (s *favoriteService) ToggleFavorite(ctx context.Context, ident auth.Identity, propertyID uint) (bool, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrPropertyNotFound
		}
		return false, err
	}

	saved, err := s.favoriteRepo.Exists(ctx, ident.UserID, propertyID)
	if err != nil {
		return false, err
	}
	if saved {
		return false, s.favoriteRepo.Remove(ctx, ident.UserID, propertyID)
	}
	return true, s.favoriteRepo.Add(ctx, ident.UserID, propertyID)
}

func (s *favoriteService) ListFavorites(ctx context.Context, ident auth.Identity) ([]models.Property, error) {
	return s.favoriteRepo.FindProperties(ctx, ident.UserID)
}
