package entity

import "time"

// Supplier representa un proveedor del catálogo.
type Supplier struct {
	ID            string
	Name          string // único
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	PaymentTerms  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
