package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ventesca/internal/inventario"
	"ventesca/internal/model"
	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResultadoLinea reports what the ledger applied to one order line.
type ResultadoLinea struct {
	inventario.Resultado
	LineaID       uuid.UUID
	ProductoID    uuid.UUID
	StockAnterior int
	StockNuevo    int
}

// LedgerService is the only writer of product stock and analytics counters
// for order lines.
type LedgerService interface {
	// AplicarLineas applies accion to every line. With a nil tx it opens its
	// own transaction; otherwise it joins the caller's. Any failure aborts all
	// lines.
	AplicarLineas(ctx context.Context, tx *gorm.DB, lineas []model.ProductoPedido, accion inventario.Accion) ([]ResultadoLinea, error)
}

type ledgerService struct {
	productos   repository.ProductoRepository
	analiticas  repository.AnaliticaRepository
	pedidos     repository.PedidoRepository
	movimientos repository.MovimientoStockRepository
}

func NewLedgerService(
	productos repository.ProductoRepository,
	analiticas repository.AnaliticaRepository,
	pedidos repository.PedidoRepository,
	movimientos repository.MovimientoStockRepository,
) LedgerService {
	return &ledgerService{
		productos:   productos,
		analiticas:  analiticas,
		pedidos:     pedidos,
		movimientos: movimientos,
	}
}

func (s *ledgerService) AplicarLineas(ctx context.Context, tx *gorm.DB, lineas []model.ProductoPedido, accion inventario.Accion) ([]ResultadoLinea, error) {
	if !accion.Valida() {
		return nil, fmt.Errorf("%w: %v", ErrLineaInvalida, inventario.ErrAccionInvalida)
	}
	if tx != nil {
		return s.aplicar(tx, lineas, accion)
	}
	var resultados []ResultadoLinea
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		var err error
		resultados, err = s.aplicar(tx, lineas, accion)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resultados, nil
}

func (s *ledgerService) aplicar(tx *gorm.DB, lineas []model.ProductoPedido, accion inventario.Accion) ([]ResultadoLinea, error) {
	// Products are locked in id order so two orders sharing products cannot
	// deadlock each other.
	ordenadas := make([]model.ProductoPedido, len(lineas))
	copy(ordenadas, lineas)
	sort.SliceStable(ordenadas, func(i, j int) bool {
		return ordenadas[i].ProductoID.String() < ordenadas[j].ProductoID.String()
	})

	resultados := make([]ResultadoLinea, 0, len(lineas))
	for _, l := range ordenadas {
		r, err := s.aplicarLinea(tx, l, accion)
		if err != nil {
			return nil, err
		}
		resultados = append(resultados, r)
	}
	return resultados, nil
}

func (s *ledgerService) aplicarLinea(tx *gorm.DB, l model.ProductoPedido, accion inventario.Accion) (ResultadoLinea, error) {
	// Row lock: concurrent orders touching the same product serialize here.
	p, err := s.productos.FindByIDForUpdateTx(tx, l.ProductoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResultadoLinea{}, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, l.ProductoID)
		}
		return ResultadoLinea{}, err
	}

	res, err := inventario.Aplicar(
		inventario.Linea{
			Cantidad:       l.Cantidad,
			Tipo:           inventario.TipoLinea(l.Tipo),
			PrecioTotal:    l.PrecioTotal,
			DescuentoTotal: l.DescuentoTotal,
		},
		accion,
		inventario.Snapshot{Stock: p.Stock, PrecioCosto: p.PrecioCosto, PrecioVenta: p.PrecioVenta},
	)
	if err != nil {
		return ResultadoLinea{}, fmt.Errorf("%w: línea %s: %v", ErrLineaInvalida, l.ID, err)
	}

	if res.Stock != 0 {
		ok, err := s.productos.UpdateStockTx(tx, p.ID, res.Stock)
		if repository.IsCheckViolation(err) || (err == nil && !ok) {
			return ResultadoLinea{}, ErrConflictoStock
		}
		if err != nil {
			return ResultadoLinea{}, err
		}
	}

	if res.Ajustado {
		log.Warn().
			Str("producto_id", p.ID.String()).
			Str("linea_id", l.ID.String()).
			Str("accion", string(accion)).
			Int("stock_actual", p.Stock).
			Int("delta_solicitado", res.StockSolicitado).
			Int("delta_aplicado", res.Stock).
			Msg("stock limitado a cero")
	}

	if err := s.analiticas.IncrementarTx(tx, p.ID, res.Deltas); err != nil {
		return ResultadoLinea{}, err
	}
	if err := s.pedidos.UpdateGananciaLineaTx(tx, l.ID, res.GananciaLinea); err != nil {
		return ResultadoLinea{}, err
	}

	pedidoRef := l.PedidoID
	mov := &model.MovimientoStock{
		ID:                 uuid.New(),
		ProductoID:         p.ID,
		Tipo:               string(accion),
		Cantidad:           res.Stock,
		CantidadSolicitada: res.StockSolicitado,
		StockAnterior:      p.Stock,
		StockNuevo:         p.Stock + res.Stock,
		Motivo:             fmt.Sprintf("Pedido %s: %s %s x%d", l.PedidoID, accion, l.Tipo, l.Cantidad),
		ReferenciaID:       &pedidoRef,
	}
	if err := s.movimientos.CreateTx(tx, mov); err != nil {
		return ResultadoLinea{}, err
	}

	return ResultadoLinea{
		Resultado:     res,
		LineaID:       l.ID,
		ProductoID:    p.ID,
		StockAnterior: p.Stock,
		StockNuevo:    p.Stock + res.Stock,
	}, nil
}
