package models

import (
	"errors"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

type BookingAction string

const (
	ActionApprove BookingAction = "approve"
	ActionReject  BookingAction = "reject"
	ActionCancel  BookingAction = "cancel"
)

var ErrUnknownAction = errors.New("unknown booking action")

// ParseBookingAction validates an action token at the transport boundary so
// the state machine only ever sees the closed set of actions.
func ParseBookingAction(s string) (BookingAction, error) {
	switch BookingAction(s) {
	case ActionApprove, ActionReject, ActionCancel:
		return BookingAction(s), nil
	default:
		return "", ErrUnknownAction
	}
}

// Target returns the status an action transitions into.
func (a BookingAction) Target() BookingStatus {
	switch a {
	case ActionApprove:
		return StatusApproved
	case ActionReject:
		return StatusRejected
	default:
		return StatusCancelled
	}
}

const MaxBookingMessageLen = 500

type Booking struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	PropertyID  uint          `gorm:"not null;index" json:"property_id"`
	TenantID    uint          `gorm:"not null;index" json:"tenant_id"`
	LandlordID  uint          `gorm:"not null;index" json:"landlord_id"`
	StartDate   time.Time     `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time     `gorm:"type:date;not null" json:"end_date"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount float64       `gorm:"not null" json:"total_amount"`
	Message     string        `gorm:"size:500" json:"message,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant   *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Landlord *User     `gorm:"foreignKey:LandlordID" json:"landlord,omitempty"`
}

// ActiveStatuses are the statuses that hold a property's dates. Bookings in
// any other status never block an overlapping request.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusApproved}
}
