package models

import "time"

type Role string

const (
	RoleUser     Role = "user"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Favorites []Property `gorm:"many2many:user_favorites" json:"-"`
}
