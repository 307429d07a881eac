package entity

import "time"

// Inventory representa el stock actual de un producto en una bodega.
// Clave única (ProductID, WarehouseID); StockLevel nunca es negativo.
type Inventory struct {
	ID          string
	ProductID   string
	WarehouseID string
	StockLevel  int
	UpdatedAt   time.Time
}
