package auth

import "rental-backend/internal/models"

// Identity is the authenticated caller. Handlers resolve it once from the
// request and pass it explicitly into every service call.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

func (id Identity) CanListProperties() bool {
	return id.Role == models.RoleLandlord || id.Role == models.RoleAdmin
}
