package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
	"rental-backend/pkg/rabbitmq"
)

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrPropertyUnavailable = errors.New("property is not available for booking")
	ErrOwnProperty         = errors.New("you cannot book your own property")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrMessageTooLong      = errors.New("message cannot be more than 500 characters")
	ErrDatesConflict       = errors.New("property is already booked for these dates")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotTenant           = errors.New("only the tenant can cancel a booking")
	ErrNotLandlord         = errors.New("only the landlord can approve or reject a booking")
	ErrInvalidTransition   = errors.New("action is not valid from the current booking status")
	ErrBookingHidden       = errors.New("not allowed to view this booking")
)

type CreateBookingInput struct {
	PropertyID uint
	StartDate  time.Time
	EndDate    time.Time
	Message    string
}

type BookingService interface {
	CreateBooking(ctx context.Context, ident auth.Identity, input CreateBookingInput) (*models.Booking, error)
	TransitionBooking(ctx context.Context, ident auth.Identity, bookingID uint, action models.BookingAction) (*models.Booking, error)
	GetBooking(ctx context.Context, ident auth.Identity, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, ident auth.Identity, role repository.BookingRole) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	publisher    *rabbitmq.Publisher
}

func NewBookingService(bookingRepo repository.BookingRepository, propertyRepo repository.PropertyRepository, publisher *rabbitmq.Publisher) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		publisher:    publisher,
	}
}

// TotalAmount prices a stay at the monthly rate. Duration is billed in whole
// months; a stay inside a single calendar month still bills one full month.
func TotalAmount(price float64, start, end time.Time) float64 {
	monthsDiff := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if monthsDiff < 1 {
		monthsDiff = 1
	}
	return price * float64(monthsDiff)
}

func (s *bookingService) CreateBooking(ctx context.Context, ident auth.Identity, input CreateBookingInput) (*models.Booking, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if utf8.RuneCountInString(input.Message) > models.MaxBookingMessageLen {
		return nil, ErrMessageTooLong
	}

	var created *models.Booking

	err := s.bookingRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		// Lock the property row — serializes concurrent booking attempts so
		// the overlap check and the insert act as one unit.
		property, err := s.propertyRepo.FindByIDForUpdate(ctx, tx, input.PropertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		if property.Status != models.PropertyAvailable {
			return ErrPropertyUnavailable
		}
		if property.OwnerID == ident.UserID {
			return ErrOwnProperty
		}

		overlapping, err := s.bookingRepo.FindOverlapping(
			ctx, tx, property.ID, input.StartDate, input.EndDate, models.ActiveStatuses())
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return ErrDatesConflict
		}

		booking := &models.Booking{
			PropertyID:  property.ID,
			TenantID:    ident.UserID,
			LandlordID:  property.OwnerID,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Status:      models.StatusPending,
			TotalAmount: TotalAmount(property.Price, input.StartDate, input.EndDate),
			Message:     input.Message,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}

		created = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with property/tenant/landlord expanded for display.
	full, err := s.bookingRepo.FindByID(ctx, created.ID)
	if err != nil {
		return created, nil
	}
	return full, nil
}

func (s *bookingService) TransitionBooking(ctx context.Context, ident auth.Identity, bookingID uint, action models.BookingAction) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.InTransaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if action == models.ActionCancel {
			if booking.TenantID != ident.UserID {
				return ErrNotTenant
			}
		} else {
			if booking.LandlordID != ident.UserID {
				return ErrNotLandlord
			}
		}

		if !transitionAllowed(booking.Status, action) {
			return ErrInvalidTransition
		}

		now := time.Now()
		next := action.Target()
		rows, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, booking.Status, next, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// A concurrent transition moved the booking first.
			return ErrInvalidTransition
		}

		booking.Status = next
		booking.UpdatedAt = now
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(result)
	return result, nil
}

// transitionAllowed encodes the booking state machine. approve and reject are
// only valid from pending; cancel is valid from pending or approved.
func transitionAllowed(from models.BookingStatus, action models.BookingAction) bool {
	switch action {
	case models.ActionApprove, models.ActionReject:
		return from == models.StatusPending
	case models.ActionCancel:
		return from == models.StatusPending || from == models.StatusApproved
	default:
		return false
	}
}

func (s *bookingService) publishTransition(booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	event := models.BookingEvent{
		BookingID:   booking.ID,
		PropertyID:  booking.PropertyID,
		TenantID:    booking.TenantID,
		LandlordID:  booking.LandlordID,
		Status:      booking.Status,
		TotalAmount: booking.TotalAmount,
	}
	routingKey := fmt.Sprintf("booking.%s", booking.Status)
	if err := s.publisher.Publish(routingKey, event); err != nil {
		log.Printf("[BookingService] failed to publish %s for booking %d: %v", routingKey, booking.ID, err)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, ident auth.Identity, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.TenantID != ident.UserID && booking.LandlordID != ident.UserID {
		return nil, ErrBookingHidden
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, ident auth.Identity, role repository.BookingRole) ([]models.Booking, error) {
	return s.bookingRepo.FindByUser(ctx, ident.UserID, role)
}
