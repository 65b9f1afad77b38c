package dto

import (
	"fmt"
	"time"

	"rental-backend/internal/models"
)

// DateLayout is the wire format for calendar dates. Bookings carry date
// precision, not timestamps.
const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     models.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PropertyRequest struct {
	Title       string                `json:"title" validate:"required,max=100"`
	Description string                `json:"description" validate:"required,max=1000"`
	Type        models.PropertyType   `json:"type" validate:"required"`
	Price       float64               `json:"price" validate:"gte=0"`
	Location    models.Location       `json:"location"`
	Features    models.Features       `json:"features"`
	Status      models.PropertyStatus `json:"status"`
}

type CreateBookingRequest struct {
	PropertyID uint   `json:"property_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Message    string `json:"message"`
}

// Dates parses the request's calendar dates, normalized to UTC midnight.
func (r CreateBookingRequest) Dates() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateLayout, r.StartDate, time.UTC)
	if err != nil {
		return start, end, fmt.Errorf("invalid start_date %q", r.StartDate)
	}
	end, err = time.ParseInLocation(DateLayout, r.EndDate, time.UTC)
	if err != nil {
		return start, end, fmt.Errorf("invalid end_date %q", r.EndDate)
	}
	return start, end, nil
}

type TransitionBookingRequest struct {
	Action string `json:"action" validate:"required"`
}

type PostMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type FavoriteRequest struct {
	PropertyID uint `json:"property_id" validate:"required"`
}
