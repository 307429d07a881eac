package dto

import (
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// AlertResponse representación HTTP de una alerta de stock bajo.
type AlertResponse struct {
	ID            string     `json:"id"`
	ProductID     string     `json:"product_id"`
	WarehouseID   string     `json:"warehouse_id"`
	CurrentStock  int        `json:"current_stock"`
	MinStockLevel *int       `json:"min_stock_level,omitempty"`
	Status        string     `json:"status"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// ToAlertResponse mapea la entidad a su representación HTTP.
func ToAlertResponse(a *entity.LowStockAlert) AlertResponse {
	return AlertResponse{
		ID:            a.ID,
		ProductID:     a.ProductID,
		WarehouseID:   a.WarehouseID,
		CurrentStock:  a.CurrentStock,
		MinStockLevel: a.MinStockLevel,
		Status:        a.Status,
		Message:       a.Message,
		CreatedAt:     a.CreatedAt,
		ResolvedAt:    a.ResolvedAt,
	}
}

// ToAlertResponses mapea una lista de alertas.
func ToAlertResponses(alerts []*entity.LowStockAlert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, ToAlertResponse(a))
	}
	return out
}
