package entity

import "time"

// Customer cliente referenciado (opcionalmente) por una orden.
type Customer struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}
