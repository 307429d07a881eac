package entity

import "time"

// Estados de una alerta de stock bajo. El estado es explícito (no un booleano):
// la unicidad "a lo sumo una alerta activa por (producto, bodega)" se indexa por Status.
const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

// LowStockAlert registra un ciclo de alerta de stock bajo para un (producto, bodega).
// Mientras está activa se refresca en el mismo registro; al resolverse queda como
// historial y una nueva caída bajo el umbral abre un registro nuevo.
type LowStockAlert struct {
	ID            string
	ProductID     string
	WarehouseID   string
	CurrentStock  int
	MinStockLevel *int // nil = producto sin umbral configurado
	Status        string
	Message       string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// Active indica si la alerta sigue abierta.
func (a *LowStockAlert) Active() bool {
	return a.Status == AlertStatusActive
}

// Resolve cierra el ciclo de alerta. Idempotente: no toca ResolvedAt si ya está resuelta.
func (a *LowStockAlert) Resolve(now time.Time) {
	if a.Status == AlertStatusResolved {
		return
	}
	a.Status = AlertStatusResolved
	a.ResolvedAt = &now
}
