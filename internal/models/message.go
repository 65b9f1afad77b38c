package models

import "time"

// Message is one entry in a property's append-only conversation thread.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PropertyID  uint      `gorm:"not null;index" json:"property_id"`
	SenderID    uint      `gorm:"not null;index" json:"sender_id"`
	Body        string    `gorm:"size:2000;not null" json:"body"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
	IsDelivered bool      `gorm:"not null;default:true" json:"is_delivered"`
	CreatedAt   time.Time `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
