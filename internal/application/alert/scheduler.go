package alert

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/keymutex"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// Scheduler re-escanea periódicamente todo el inventario y re-evalúa la alerta de
// cada clave. Es el mecanismo de auto-corrección del sistema: repara el estado de
// alertas tras mutaciones que no pasaron por el disparo síncrono (importaciones
// masivas, correcciones directas de datos, caídas entre commit y evaluación).
type Scheduler struct {
	engine        *Engine
	inventoryRepo repository.InventoryRepository
	keys          *keymutex.KeyMutex
	log           *logger.Logger

	interval time.Duration // entre escaneos completos
	warmup   time.Duration // antes del primer escaneo
}

// NewScheduler construye el scheduler. keys debe ser la misma instancia de KeyMutex
// que usa el mutador de stock: la evaluación de una clave toma la misma exclusión
// que una mutación en curso sobre esa clave.
func NewScheduler(
	engine *Engine,
	inventoryRepo repository.InventoryRepository,
	keys *keymutex.KeyMutex,
	log *logger.Logger,
	interval, warmup time.Duration,
) *Scheduler {
	return &Scheduler{
		engine:        engine,
		inventoryRepo: inventoryRepo,
		keys:          keys,
		log:           log,
		interval:      interval,
		warmup:        warmup,
	}
}

// Run ejecuta el ciclo de escaneo hasta que ctx se cancele. Bloqueante; lanzar en
// su propia goroutine. Primer escaneo tras warmup, luego cada interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().
		Dur("interval", s.interval).
		Dur("warmup", s.warmup).
		Msg("scheduler de alertas iniciado")

	select {
	case <-ctx.Done():
		s.log.Info().Msg("scheduler de alertas detenido")
		return
	case <-time.After(s.warmup):
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler de alertas detenido")
			return
		case <-ticker.C:
		}
	}
}

// Tick realiza un escaneo completo: evalúa cada fila de inventario bajo su exclusión
// por clave. El fallo de una clave se registra y se omite, nunca aborta el tick;
// un inventario vacío es un tick válido.
func (s *Scheduler) Tick(ctx context.Context) {
	rows, err := s.inventoryRepo.ListAll()
	if err != nil {
		s.log.Error().Err(err).Msg("escaneo de alertas: no se pudo listar el inventario")
		return
	}

	evaluated, failed := 0, 0
	for _, inv := range rows {
		if ctx.Err() != nil {
			s.log.Warn().Msg("escaneo de alertas interrumpido")
			return
		}
		key := Key(inv.ProductID, inv.WarehouseID)
		s.keys.Lock(key)
		err := s.engine.EvaluateInventory(ctx, inv)
		s.keys.Unlock(key)
		if err != nil {
			failed++
			s.log.Warn().Err(err).
				Str("product_id", inv.ProductID).
				Str("warehouse_id", inv.WarehouseID).
				Msg("evaluación de alerta fallida; clave omitida")
			continue
		}
		evaluated++
	}

	s.log.Debug().
		Int("evaluated", evaluated).
		Int("failed", failed).
		Msg("escaneo de alertas completado")
}
