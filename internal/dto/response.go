package dto

import (
	"time"

	"rental-backend/internal/models"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type UserSummary struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role,omitempty"`
}

type AuthResponse struct {
	User      UserSummary `json:"user"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
}

type PropertySummary struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	Price    float64         `json:"price"`
	Location models.Location `json:"location"`
}

type PropertyResponse struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        models.PropertyType   `json:"type"`
	Price       float64               `json:"price"`
	Location    models.Location       `json:"location"`
	Features    models.Features       `json:"features"`
	Status      models.PropertyStatus `json:"status"`
	Owner       *UserSummary          `json:"owner,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type BookingResponse struct {
	ID          uint                 `json:"id"`
	Property    *PropertySummary     `json:"property,omitempty"`
	PropertyID  uint                 `json:"property_id"`
	Tenant      *UserSummary         `json:"tenant,omitempty"`
	Landlord    *UserSummary         `json:"landlord,omitempty"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Status      models.BookingStatus `json:"status"`
	TotalAmount float64              `json:"total_amount"`
	Message     string               `json:"message,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type MessageResponse struct {
	ID          uint         `json:"id"`
	Sender      *UserSummary `json:"sender,omitempty"`
	Message     string       `json:"message"`
	IsRead      bool         `json:"is_read"`
	IsDelivered bool         `json:"is_delivered"`
	CreatedAt   time.Time    `json:"created_at"`
}

type FavoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

func ToUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ToAuthResponse(user *models.User, token string, expiresIn int) AuthResponse {
	return AuthResponse{
		User:      *ToUserSummary(user),
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	}
}

func ToPropertySummary(p *models.Property) *PropertySummary {
	if p == nil {
		return nil
	}
	return &PropertySummary{ID: p.ID, Title: p.Title, Price: p.Price, Location: p.Location}
}

func ToPropertyResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		Price:       p.Price,
		Location:    p.Location,
		Features:    p.Features,
		Status:      p.Status,
		Owner:       ToUserSummary(p.Owner),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		Property:    ToPropertySummary(b.Property),
		PropertyID:  b.PropertyID,
		Tenant:      ToUserSummary(b.Tenant),
		Landlord:    ToUserSummary(b.Landlord),
		StartDate:   b.StartDate.Format(DateLayout),
		EndDate:     b.EndDate.Format(DateLayout),
		Status:      b.Status,
		TotalAmount: b.TotalAmount,
		Message:     b.Message,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func ToMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		Sender:      ToUserSummary(m.Sender),
		Message:     m.Body,
		IsRead:      m.IsRead,
		IsDelivered: m.IsDelivered,
		CreatedAt:   m.CreatedAt,
	}
}
