package entity

import "time"

// Location representa una ubicación física de inventario (bodega, estante, zona).
type Location struct {
	ID        string
	TenantID  string
	Name      string
	Code      string
	CreatedAt time.Time
}
