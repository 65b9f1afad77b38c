package models

import "time"

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyRented    PropertyStatus = "rented"
	PropertyPending   PropertyStatus = "pending"
)

type PropertyType string

const (
	TypeApartment PropertyType = "apartment"
	TypeHouse     PropertyType = "house"
	TypeCondo     PropertyType = "condo"
	TypeStudio    PropertyType = "studio"
)

func ValidPropertyType(t PropertyType) bool {
	switch t {
	case TypeApartment, TypeHouse, TypeCondo, TypeStudio:
		return true
	}
	return false
}

func ValidPropertyStatus(s PropertyStatus) bool {
	switch s {
	case PropertyAvailable, PropertyRented, PropertyPending:
		return true
	}
	return false
}

type Location struct {
	Address string `gorm:"size:255;not null" json:"address"`
	City    string `gorm:"size:100;not null" json:"city"`
	State   string `gorm:"size:100;not null" json:"state"`
	ZipCode string `gorm:"size:20;not null" json:"zip_code"`
}

type Features struct {
	Bedrooms  int     `gorm:"not null" json:"bedrooms"`
	Bathrooms int     `gorm:"not null" json:"bathrooms"`
	Area      float64 `gorm:"not null" json:"area"`
	Parking   bool    `gorm:"not null;default:false" json:"parking"`
	Furnished bool    `gorm:"not null;default:false" json:"furnished"`
}

type Property struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"size:1000;not null" json:"description"`
	Type        PropertyType   `gorm:"type:varchar(20);not null" json:"type"`
	Price       float64        `gorm:"not null" json:"price"`
	Location    Location       `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Features    Features       `gorm:"embedded;embeddedPrefix:feature_" json:"features"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Status      PropertyStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
