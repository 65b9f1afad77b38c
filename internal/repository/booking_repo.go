package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rental-backend/internal/models"
)

type BookingRole string

const (
	RoleTenant   BookingRole = "tenant"
	RoleLandlord BookingRole = "landlord"
	RoleAny      BookingRole = ""
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByUser(ctx context.Context, userID uint, role BookingRole) ([]models.Booking, error)
	FindOverlapping(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, updatedAt time.Time) (int64, error)
	CountByUser(ctx context.Context, userID uint, role BookingRole, status *models.BookingStatus) (int64, error)
	SumApprovedAmount(ctx context.Context, landlordID uint) (float64, error)
	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// InTransaction runs fn inside a single database transaction so that
// check-then-act sequences commit or fail as one unit.
func (r *bookingRepository) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Tenant").
		Preload("Landlord").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID uint, role BookingRole) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Tenant").
		Preload("Landlord")

	switch role {
	case RoleTenant:
		q = q.Where("tenant_id = ?", userID)
	case RoleLandlord:
		q = q.Where("landlord_id = ?", userID)
	default:
		q = q.Where("tenant_id = ? OR landlord_id = ?", userID, userID)
	}

	var bookings []models.Booking
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindOverlapping returns bookings for the property whose [start_date, end_date]
// interval touches the given range under inclusive-boundary comparison.
func (r *bookingRepository) FindOverlapping(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := tx.WithContext(ctx).
		Where("property_id = ? AND status IN ?", propertyID, statuses).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus moves a booking to a new status only while it still holds the
// expected one. Racing transitions see zero rows affected and lose.
func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, updatedAt time.Time) (int64, error) {
	res := tx.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": updatedAt})
	return res.RowsAffected, res.Error
}

func (r *bookingRepository) CountByUser(ctx context.Context, userID uint, role BookingRole, status *models.BookingStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	switch role {
	case RoleTenant:
		q = q.Where("tenant_id = ?", userID)
	case RoleLandlord:
		q = q.Where("landlord_id = ?", userID)
	default:
		q = q.Where("tenant_id = ? OR landlord_id = ?", userID, userID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// SumApprovedAmount totals the approved bookings for a landlord's dashboard.
func (r *bookingRepository) SumApprovedAmount(ctx context.Context, landlordID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("landlord_id = ? AND status = ?", landlordID, models.StatusApproved).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, err
}
