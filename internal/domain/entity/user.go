package entity

import "time"

// Valid roles for User. Closed set: role checks compare against these
// constants, never against free-form strings from storage.
const (
	RoleManager    = "manager"    // gérant: oversees movements and forecasts
	RoleStock      = "stock"      // stock manager: lots, movements, fulfillment
	RoleWholesaler = "wholesaler" // grossiste: places delivery orders
	RoleDriver     = "driver"     // livreur: executes deliveries
)

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleManager, RoleStock, RoleWholesaler, RoleDriver:
		return true
	}
	return false
}

// User represents a system user (stock manager, wholesaler, manager or driver).
type User struct {
	ID           string
	Username     string // unique, stored lowercase
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Address      string
	Role         string
	Active       bool
	PasswordHash string // bcrypt hash, never plaintext past persistence
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
