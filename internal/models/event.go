package models

// BookingEvent is the payload published to the bookings exchange whenever a
// booking changes status. Routing key is booking.<status>.
type BookingEvent struct {
	BookingID   uint          `json:"booking_id"`
	PropertyID  uint          `json:"property_id"`
	TenantID    uint          `json:"tenant_id"`
	LandlordID  uint          `json:"landlord_id"`
	Status      BookingStatus `json:"status"`
	TotalAmount float64       `json:"total_amount"`
}
