package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rental-backend/internal/auth"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn          func(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	findByIDFn        func(ctx context.Context, id uint) (*models.Booking, error)
	findByUserFn      func(ctx context.Context, userID uint, role repository.BookingRole) ([]models.Booking, error)
	findOverlappingFn func(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error)
	updateStatusFn    func(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, updatedAt time.Time) (int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, tx, booking)
	}
	booking.ID = 1
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) FindByUser(ctx context.Context, userID uint, role repository.BookingRole) ([]models.Booking, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID, role)
	}
	return nil, nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	if m.findOverlappingFn != nil {
		return m.findOverlappingFn(ctx, tx, propertyID, start, end, statuses)
	}
	return nil, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, updatedAt time.Time) (int64, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, bookingID, from, to, updatedAt)
	}
	return 1, nil
}

func (m *mockBookingRepo) CountByUser(ctx context.Context, userID uint, role repository.BookingRole, status *models.BookingStatus) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) SumApprovedAmount(ctx context.Context, landlordID uint) (float64, error) {
	return 0, nil
}

func (m *mockBookingRepo) InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// --- Mock PropertyRepository ---

type mockPropertyRepo struct {
	findByIDFn          func(ctx context.Context, id uint) (*models.Property, error)
	findByIDForUpdateFn func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error)
}

func (m *mockPropertyRepo) Create(ctx context.Context, property *models.Property) error { return nil }

func (m *mockPropertyRepo) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPropertyRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
	if m.findByIDForUpdateFn != nil {
		return m.findByIDForUpdateFn(ctx, tx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPropertyRepo) Find(ctx context.Context, filter repository.PropertyFilter) ([]models.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepo) FindByOwner(ctx context.Context, ownerID uint) ([]models.Property, error) {
	return nil, nil
}

func (m *mockPropertyRepo) Update(ctx context.Context, property *models.Property) error { return nil }

func (m *mockPropertyRepo) UpdateStatus(ctx context.Context, id uint, status models.PropertyStatus) error {
	return nil
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockPropertyRepo) CountByOwner(ctx context.Context, ownerID uint, status *models.PropertyStatus) (int64, error) {
	return 0, nil
}

// --- Helpers ---

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func availableProperty(id, ownerID uint, price float64) *models.Property {
	return &models.Property{
		ID:      id,
		Title:   "Sunny two-bedroom",
		Price:   price,
		OwnerID: ownerID,
		Status:  models.PropertyAvailable,
	}
}

var (
	tenant   = auth.Identity{UserID: 10, Email: "tenant@example.com", Role: models.RoleUser}
	landlord = auth.Identity{UserID: 20, Email: "landlord@example.com", Role: models.RoleLandlord}
)

func newBookingService(bookings repository.BookingRepository, properties repository.PropertyRepository) BookingService {
	return NewBookingService(bookings, properties, nil) // nil publisher = skip RabbitMQ
}

// --- Pricing ---

func TestTotalAmount_SameMonthBillsOneMonth(t *testing.T) {
	total := TotalAmount(1000, date(2024, 1, 15), date(2024, 1, 20))
	assert.Equal(t, 1000.0, total)
}

func TestTotalAmount_ThreeMonths(t *testing.T) {
	total := TotalAmount(1200, date(2024, 1, 1), date(2024, 4, 1))
	assert.Equal(t, 3600.0, total)
}

func TestTotalAmount_PartialSecondMonthStillBillsByMonthBoundary(t *testing.T) {
	// Jan 15 to Feb 10 crosses one month boundary
	total := TotalAmount(1000, date(2024, 1, 15), date(2024, 2, 10))
	assert.Equal(t, 1000.0, total)
}

func TestTotalAmount_YearBoundary(t *testing.T) {
	total := TotalAmount(500, date(2023, 11, 1), date(2024, 2, 1))
	assert.Equal(t, 1500.0, total)
}

// --- CreateBooking ---

func TestCreateBooking_Success(t *testing.T) {
	var created *models.Booking
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
			b.ID = 42
			created = b
			return nil
		},
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return created, nil
		},
	}
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			return availableProperty(1, landlord.UserID, 1500), nil
		},
	}

	svc := newBookingService(bookings, properties)
	booking, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 5, 1),
		Message:    "Looking forward to moving in",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, tenant.UserID, booking.TenantID)
	assert.Equal(t, landlord.UserID, booking.LandlordID, "landlord id is snapshotted from the property owner")
	assert.Equal(t, 3000.0, booking.TotalAmount)
}

func TestCreateBooking_EndNotAfterStart(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockPropertyRepo{})

	_, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 3, 1),
	})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBooking_MessageTooLong(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockPropertyRepo{})

	long := make([]byte, models.MaxBookingMessageLen+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
		Message:    string(long),
	})

	assert.ErrorIs(t, err, ErrMessageTooLong)
}

// The cap counts characters, not bytes: 500 multibyte runes fit.
func TestCreateBooking_MessageLengthCountsRunes(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			return availableProperty(1, landlord.UserID, 1500), nil
		},
	}
	svc := newBookingService(bookings, properties)

	input := CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
		Message:    strings.Repeat("é", models.MaxBookingMessageLen),
	}
	_, err := svc.CreateBooking(context.Background(), tenant, input)
	assert.NoError(t, err)

	input.Message += "é"
	_, err = svc.CreateBooking(context.Background(), tenant, input)
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestCreateBooking_PropertyNotFound(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockPropertyRepo{})

	_, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 99,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
	})

	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestCreateBooking_PropertyNotAvailable(t *testing.T) {
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			p := availableProperty(1, landlord.UserID, 1500)
			p.Status = models.PropertyRented
			return p, nil
		},
	}

	svc := newBookingService(&mockBookingRepo{}, properties)
	_, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
	})

	assert.ErrorIs(t, err, ErrPropertyUnavailable)
}

func TestCreateBooking_OwnerCannotBookOwnProperty(t *testing.T) {
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			return availableProperty(1, landlord.UserID, 1500), nil
		},
	}

	svc := newBookingService(&mockBookingRepo{}, properties)
	_, err := svc.CreateBooking(context.Background(), landlord, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
	})

	assert.ErrorIs(t, err, ErrOwnProperty)
}

func TestCreateBooking_OverlappingDatesConflict(t *testing.T) {
	bookings := &mockBookingRepo{
		findOverlappingFn: func(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
			return []models.Booking{{ID: 7, Status: models.StatusPending}}, nil
		},
	}
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			return availableProperty(1, landlord.UserID, 1500), nil
		},
	}

	svc := newBookingService(bookings, properties)
	_, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 1, 15),
		EndDate:    date(2024, 2, 15),
	})

	assert.ErrorIs(t, err, ErrDatesConflict)
}

func TestCreateBooking_OnlyActiveStatusesBlock(t *testing.T) {
	var gotStatuses []models.BookingStatus
	bookings := &mockBookingRepo{
		findOverlappingFn: func(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
			gotStatuses = statuses
			return nil, nil
		},
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id}, nil
		},
	}
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			return availableProperty(1, landlord.UserID, 1500), nil
		},
	}

	svc := newBookingService(bookings, properties)
	_, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []models.BookingStatus{models.StatusPending, models.StatusApproved}, gotStatuses)
}

// --- TransitionBooking ---

func pendingBooking(id uint) *models.Booking {
	return &models.Booking{
		ID:         id,
		PropertyID: 1,
		TenantID:   tenant.UserID,
		LandlordID: landlord.UserID,
		StartDate:  date(2024, 3, 1),
		EndDate:    date(2024, 4, 1),
		Status:     models.StatusPending,
	}
}

func TestTransitionBooking_LandlordApproves(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	booking, err := svc.TransitionBooking(context.Background(), landlord, 1, models.ActionApprove)

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, booking.Status)
	assert.False(t, booking.UpdatedAt.IsZero())
}

func TestTransitionBooking_LandlordRejects(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	booking, err := svc.TransitionBooking(context.Background(), landlord, 1, models.ActionReject)

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, booking.Status)
}

func TestTransitionBooking_TenantCancelsPending(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	booking, err := svc.TransitionBooking(context.Background(), tenant, 1, models.ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, booking.Status)
}

func TestTransitionBooking_TenantCancelsApproved(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			b := pendingBooking(id)
			b.Status = models.StatusApproved
			return b, nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	booking, err := svc.TransitionBooking(context.Background(), tenant, 1, models.ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, booking.Status)
}

func TestTransitionBooking_CancelRejectedFails(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			b := pendingBooking(id)
			b.Status = models.StatusRejected
			return b, nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	_, err := svc.TransitionBooking(context.Background(), tenant, 1, models.ActionCancel)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionBooking_RejectTwiceFails(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			b := pendingBooking(id)
			b.Status = models.StatusRejected
			return b, nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	_, err := svc.TransitionBooking(context.Background(), landlord, 1, models.ActionReject)

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionBooking_TenantCannotApprove(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	_, err := svc.TransitionBooking(context.Background(), tenant, 1, models.ActionApprove)

	assert.ErrorIs(t, err, ErrNotLandlord)
}

func TestTransitionBooking_LandlordCannotCancel(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})
	_, err := svc.TransitionBooking(context.Background(), landlord, 1, models.ActionCancel)

	assert.ErrorIs(t, err, ErrNotTenant)
}

func TestTransitionBooking_NotFound(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}, &mockPropertyRepo{})
	_, err := svc.TransitionBooking(context.Background(), landlord, 99, models.ActionApprove)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// Two transitions race: both read pending, but the status update is a
// compare-and-set, so the second write sees zero rows and is refused.
func TestTransitionBooking_SecondRacingTransitionLoses(t *testing.T) {
	status := models.StatusPending
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			// Both callers observe the stale pending state.
			return pendingBooking(id), nil
		},
		updateStatusFn: func(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, updatedAt time.Time) (int64, error) {
			if status != from {
				return 0, nil
			}
			status = to
			return 1, nil
		},
	}

	svc := newBookingService(bookings, &mockPropertyRepo{})

	approved, err := svc.TransitionBooking(context.Background(), landlord, 1, models.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	_, err = svc.TransitionBooking(context.Background(), landlord, 1, models.ActionReject)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusApproved, status, "the first transition must stick")
}

// --- Rejection frees the dates ---

// inMemoryBookings keeps real state so the reject-then-rebook scenario runs
// against the same overlap semantics the SQL query uses.
type inMemoryBookings struct {
	mockBookingRepo
	items []*models.Booking
}

func newInMemoryBookings() *inMemoryBookings {
	s := &inMemoryBookings{}
	s.createFn = func(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
		b.ID = uint(len(s.items) + 1)
		s.items = append(s.items, b)
		return nil
	}
	s.findByIDFn = func(ctx context.Context, id uint) (*models.Booking, error) {
		for _, b := range s.items {
			if b.ID == id {
				return b, nil
			}
		}
		return nil, gorm.ErrRecordNotFound
	}
	s.findOverlappingFn = func(ctx context.Context, tx *gorm.DB, propertyID uint, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
		var out []models.Booking
		for _, b := range s.items {
			if b.PropertyID != propertyID {
				continue
			}
			active := false
			for _, st := range statuses {
				if b.Status == st {
					active = true
				}
			}
			// inclusive boundaries, mirroring the SQL
			if active && !b.StartDate.After(end) && !b.EndDate.Before(start) {
				out = append(out, *b)
			}
		}
		return out, nil
	}
	s.updateStatusFn = func(ctx context.Context, tx *gorm.DB, bookingID uint, from, to models.BookingStatus, updatedAt time.Time) (int64, error) {
		for _, b := range s.items {
			if b.ID == bookingID && b.Status == from {
				b.Status = to
				b.UpdatedAt = updatedAt
				return 1, nil
			}
		}
		return 0, nil
	}
	return s
}

func TestCreateBooking_RejectionFreesTheDates(t *testing.T) {
	store := newInMemoryBookings()
	properties := &mockPropertyRepo{
		findByIDForUpdateFn: func(ctx context.Context, tx *gorm.DB, id uint) (*models.Property, error) {
			return availableProperty(1, landlord.UserID, 1000), nil
		},
	}
	svc := newBookingService(store, properties)

	tenantB := auth.Identity{UserID: 11, Email: "other@example.com", Role: models.RoleUser}

	// Tenant A holds Jan 1-31
	first, err := svc.CreateBooking(context.Background(), tenant, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 1, 1),
		EndDate:    date(2024, 1, 31),
	})
	require.NoError(t, err)

	// Tenant B overlaps Jan 15 - Feb 15
	_, err = svc.CreateBooking(context.Background(), tenantB, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 1, 15),
		EndDate:    date(2024, 2, 15),
	})
	assert.ErrorIs(t, err, ErrDatesConflict)

	// Landlord rejects A's booking
	_, err = svc.TransitionBooking(context.Background(), landlord, first.ID, models.ActionReject)
	require.NoError(t, err)

	// B's identical request now goes through
	second, err := svc.CreateBooking(context.Background(), tenantB, CreateBookingInput{
		PropertyID: 1,
		StartDate:  date(2024, 1, 15),
		EndDate:    date(2024, 2, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, second.Status)
}

// --- GetBooking / ListBookings ---

func TestGetBooking_VisibleToTenantAndLandlordOnly(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return pendingBooking(id), nil
		},
	}
	svc := newBookingService(bookings, &mockPropertyRepo{})

	_, err := svc.GetBooking(context.Background(), tenant, 1)
	assert.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), landlord, 1)
	assert.NoError(t, err)

	stranger := auth.Identity{UserID: 77, Role: models.RoleUser}
	_, err = svc.GetBooking(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, ErrBookingHidden)
}

func TestListBookings_PassesRoleFilter(t *testing.T) {
	var gotRole repository.BookingRole
	bookings := &mockBookingRepo{
		findByUserFn: func(ctx context.Context, userID uint, role repository.BookingRole) ([]models.Booking, error) {
			gotRole = role
			return []models.Booking{*pendingBooking(1)}, nil
		},
	}
	svc := newBookingService(bookings, &mockPropertyRepo{})

	result, err := svc.ListBookings(context.Background(), tenant, repository.RoleTenant)

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, repository.RoleTenant, gotRole)
}
