package entity

import "time"

// Tipos de ajuste de stock.
const (
	AdjustmentADD    = "ADD"    // entrada
	AdjustmentREMOVE = "REMOVE" // salida
)

// StockHistory es un registro inmutable del libro mayor: un ajuste de stock aplicado.
// AdjustmentQuantity siempre es la magnitud positiva de la operación; el signo lo da
// AdjustmentType. Se inserta en la misma transacción que la escritura de Inventory y
// nunca se actualiza ni se elimina desde el núcleo.
type StockHistory struct {
	ID                 string
	ProductID          string
	WarehouseID        string
	AdjustmentType     string // ADD, REMOVE
	AdjustmentQuantity int
	PerformedBy        string // email del empleado que registró el ajuste
	Timestamp          time.Time
}
