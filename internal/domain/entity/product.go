package entity

import "time"

// Product representa un producto o SKU del catálogo.
// MinStockLevel es el umbral de alerta de stock bajo; nil desactiva la alerta.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Category      string
	Unit          string
	Price         float64
	Description   string
	SupplierID    string
	MinStockLevel *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
