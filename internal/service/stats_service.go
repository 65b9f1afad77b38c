package service

import (
	"context"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

// Stats backs the dashboard. Landlords see their portfolio and revenue,
// tenants see their saved properties and booking counts.
type Stats struct {
	TotalProperties     int64   `json:"total_properties"`
	AvailableProperties int64   `json:"available_properties"`
	RentedProperties    int64   `json:"rented_properties"`
	PendingBookings     int64   `json:"pending_bookings"`
	TotalBookings       int64   `json:"total_bookings"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
	SavedProperties     int64   `json:"saved_properties"`
}

type StatsService interface {
	GetStats(ctx context.Context, ident auth.Identity) (*Stats, error)
}

type statsService struct {
	propertyRepo repository.PropertyRepository
	bookingRepo  repository.BookingRepository
	favoriteRepo repository.FavoriteRepository
}

func NewStatsService(propertyRepo repository.PropertyRepository, bookingRepo repository.BookingRepository, favoriteRepo repository.FavoriteRepository) StatsService {
	return &statsService{
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		favoriteRepo: favoriteRepo,
	}
}

func (s *statsService) GetStats(ctx context.Context, ident auth.Identity) (*Stats, error) {
	if ident.Role == models.RoleLandlord {
		return s.landlordStats(ctx, ident.UserID)
	}
	return s.tenantStats(ctx, ident.UserID)
}

func (s *statsService) landlordStats(ctx context.Context, userID uint) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.TotalProperties, err = s.propertyRepo.CountByOwner(ctx, userID, nil); err != nil {
		return nil, err
	}
	available := models.PropertyAvailable
	if stats.AvailableProperties, err = s.propertyRepo.CountByOwner(ctx, userID, &available); err != nil {
		return nil, err
	}
	rented := models.PropertyRented
	if stats.RentedProperties, err = s.propertyRepo.CountByOwner(ctx, userID, &rented); err != nil {
		return nil, err
	}

	pending := models.StatusPending
	if stats.PendingBookings, err = s.bookingRepo.CountByUser(ctx, userID, repository.RoleLandlord, &pending); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookingRepo.CountByUser(ctx, userID, repository.RoleLandlord, nil); err != nil {
		return nil, err
	}
	if stats.MonthlyRevenue, err = s.bookingRepo.SumApprovedAmount(ctx, userID); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *statsService) tenantStats(ctx context.Context, userID uint) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.SavedProperties, err = s.favoriteRepo.Count(ctx, userID); err != nil {
		return nil, err
	}
	pending := models.StatusPending
	if stats.PendingBookings, err = s.bookingRepo.CountByUser(ctx, userID, repository.RoleTenant, &pending); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookingRepo.CountByUser(ctx, userID, repository.RoleTenant, nil); err != nil {
		return nil, err
	}

	return stats, nil
}
