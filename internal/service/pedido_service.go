package service

import (
	"context"
	"fmt"
	"time"

	"ventesca/internal/dto"
	"ventesca/internal/inventario"
	"ventesca/internal/model"
	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Crear(ctx context.Context, negocioID, vendedorID uuid.UUID) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	AgregarLinea(ctx context.Context, negocioID, pedidoID uuid.UUID, req dto.AgregarLineaRequest) (*dto.PedidoResponse, error)
	QuitarLinea(ctx context.Context, negocioID, pedidoID, lineaID uuid.UUID) (*dto.PedidoResponse, error)
	Finalizar(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error)
	Descartar(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error)
	Restaurar(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error)
	Eliminar(ctx context.Context, negocioID, id uuid.UUID) (*dto.EliminarPedidoResponse, error)
}

type pedidoService struct {
	repo      repository.PedidoRepository
	productos repository.ProductoRepository
	ledger    LedgerService
}

func NewPedidoService(repo repository.PedidoRepository, productos repository.ProductoRepository, ledger LedgerService) PedidoService {
	return &pedidoService{repo: repo, productos: productos, ledger: ledger}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *pedidoService) Crear(ctx context.Context, negocioID, vendedorID uuid.UUID) (*dto.PedidoResponse, error) {
	p := &model.Pedido{
		ID:             uuid.New(),
		NegocioID:      negocioID,
		VendedorID:     vendedorID,
		Estado:         model.EstadoPendiente,
		Total:          decimal.Zero,
		DescuentoTotal: decimal.Zero,
		GananciaTotal:  decimal.Zero,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return nil, notFound(err, ErrPedidoNoEncontrado)
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Líneas ────────────────────────────────────────────────────────────────────
// Lines are only editable while the order is pending, so they never carry a
// ledger effect at this point.

func (s *pedidoService) AgregarLinea(ctx context.Context, negocioID, pedidoID uuid.UUID, req dto.AgregarLineaRequest) (*dto.PedidoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("%w: producto_id inválido", ErrLineaInvalida)
	}
	tipo := inventario.TipoLinea(req.Tipo)
	if !tipo.Valido() {
		return nil, fmt.Errorf("%w: %v", ErrLineaInvalida, inventario.ErrTipoLineaInvalido)
	}
	if req.Cantidad <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrLineaInvalida, inventario.ErrCantidadInvalida)
	}

	prod, err := s.productos.FindByID(ctx, negocioID, productoID)
	if err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	// Returns are accepted for products that are no longer sold.
	if !prod.Activo && tipo != inventario.TipoDevolucion {
		return nil, ErrProductoInactivo
	}

	precioTotal := prod.PrecioVenta.Mul(decimal.NewFromInt(int64(req.Cantidad)))
	descuento := req.Descuento
	if descuento.IsNegative() || descuento.GreaterThan(precioTotal) {
		return nil, fmt.Errorf("%w: el descuento debe estar entre 0 y el total de la línea", ErrLineaInvalida)
	}
	ganancia, err := inventario.CalcularGanancia(precioTotal, descuento, prod.PrecioCosto, req.Cantidad, tipo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLineaInvalida, err)
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, negocioID, pedidoID)
		if err != nil {
			return notFound(err, ErrPedidoNoEncontrado)
		}
		if p.Estado != model.EstadoPendiente {
			return ErrTransicionInvalida
		}
		linea := model.ProductoPedido{
			ID:             uuid.New(),
			PedidoID:       p.ID,
			ProductoID:     prod.ID,
			Cantidad:       req.Cantidad,
			Tipo:           string(tipo),
			PrecioTotal:    precioTotal,
			DescuentoTotal: descuento,
			Ganancia:       ganancia,
		}
		if err := s.repo.CreateLineaTx(tx, &linea); err != nil {
			return err
		}
		p.Lineas = append(p.Lineas, linea)
		recalcularTotales(p)
		return s.repo.UpdateTotalesTx(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, negocioID, pedidoID)
}

func (s *pedidoService) QuitarLinea(ctx context.Context, negocioID, pedidoID, lineaID uuid.UUID) (*dto.PedidoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, negocioID, pedidoID)
		if err != nil {
			return notFound(err, ErrPedidoNoEncontrado)
		}
		if p.Estado != model.EstadoPendiente {
			return ErrTransicionInvalida
		}
		if err := s.repo.DeleteLineaTx(tx, p.ID, lineaID); err != nil {
			return notFound(err, ErrLineaNoEncontrada)
		}
		restantes := p.Lineas[:0]
		for _, l := range p.Lineas {
			if l.ID != lineaID {
				restantes = append(restantes, l)
			}
		}
		p.Lineas = restantes
		recalcularTotales(p)
		return s.repo.UpdateTotalesTx(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, negocioID, pedidoID)
}

// ── Transiciones ──────────────────────────────────────────────────────────────
// Every transition is a single transaction: status change, then the ledger over
// all lines. Any failure rolls back both.

func (s *pedidoService) Finalizar(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error) {
	return s.transicionar(ctx, negocioID, id, model.EstadoPendiente, model.EstadoFinalizado, inventario.AccionCrear)
}

func (s *pedidoService) Descartar(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error) {
	return s.transicionar(ctx, negocioID, id, model.EstadoFinalizado, model.EstadoDescartado, inventario.AccionDescartar)
}

func (s *pedidoService) Restaurar(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error) {
	return s.transicionar(ctx, negocioID, id, model.EstadoDescartado, model.EstadoFinalizado, inventario.AccionRestaurar)
}

func (s *pedidoService) transicionar(ctx context.Context, negocioID, id uuid.UUID, desde, hacia string, accion inventario.Accion) (*dto.PedidoResponse, error) {
	var resultados []ResultadoLinea
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, negocioID, id)
		if err != nil {
			return notFound(err, ErrPedidoNoEncontrado)
		}

		var finalizadoAt *time.Time
		if hacia == model.EstadoFinalizado && p.FinalizadoAt == nil {
			now := time.Now()
			finalizadoAt = &now
		}
		ok, err := s.repo.CambiarEstadoTx(tx, p.ID, desde, hacia, finalizadoAt)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTransicionInvalida
		}

		resultados, err = s.ledger.AplicarLineas(ctx, tx, p.Lineas, accion)
		if err != nil {
			return err
		}

		// Line profit was recomputed against the current cost.
		ganancias := make(map[uuid.UUID]decimal.Decimal, len(resultados))
		for _, r := range resultados {
			ganancias[r.LineaID] = r.GananciaLinea
		}
		for i := range p.Lineas {
			if g, ok := ganancias[p.Lineas[i].ID]; ok {
				p.Lineas[i].Ganancia = g
			}
		}
		recalcularTotales(p)
		return s.repo.UpdateTotalesTx(tx, p)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("pedido_id", id.String()).
		Str("estado", hacia).
		Int("lineas", len(resultados)).
		Msg("pedido actualizado")

	resp, err := s.ObtenerPorID(ctx, negocioID, id)
	if err != nil {
		return nil, err
	}
	resp.Ajustes = ajustesDeStock(resultados)
	return resp, nil
}

// Eliminar removes the order. A finished order is reversed through the ledger
// first; pending and discarded orders have no stock effect to undo. Lines
// whose reversal hit the zero floor are reported in Ajustes.
func (s *pedidoService) Eliminar(ctx context.Context, negocioID, id uuid.UUID) (*dto.EliminarPedidoResponse, error) {
	var resultados []ResultadoLinea
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, negocioID, id)
		if err != nil {
			return notFound(err, ErrPedidoNoEncontrado)
		}
		if p.Estado == model.EstadoFinalizado {
			if resultados, err = s.ledger.AplicarLineas(ctx, tx, p.Lineas, inventario.AccionEliminar); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, p.ID)
	})
	if err != nil {
		return nil, err
	}

	ajustes := ajustesDeStock(resultados)
	if ajustes == nil {
		ajustes = []dto.AjusteStockResponse{}
	}
	if len(ajustes) > 0 {
		log.Warn().
			Str("pedido_id", id.String()).
			Int("ajustes", len(ajustes)).
			Msg("pedido eliminado con reversión inexacta de stock")
	}
	return &dto.EliminarPedidoResponse{ID: id.String(), Ajustes: ajustes}, nil
}

// recalcularTotales refreshes the order totals from its lines. Returns count
// against the total.
func recalcularTotales(p *model.Pedido) {
	total, descuento, ganancia := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range p.Lineas {
		neto := l.PrecioTotal.Sub(l.DescuentoTotal)
		if inventario.TipoLinea(l.Tipo) == inventario.TipoDevolucion {
			neto = neto.Neg()
		}
		total = total.Add(neto)
		descuento = descuento.Add(l.DescuentoTotal)
		ganancia = ganancia.Add(l.Ganancia)
	}
	p.Total = total
	p.DescuentoTotal = descuento
	p.GananciaTotal = ganancia
}

func ajustesDeStock(resultados []ResultadoLinea) []dto.AjusteStockResponse {
	var out []dto.AjusteStockResponse
	for _, r := range resultados {
		if r.Ajustado {
			out = append(out, dto.AjusteStockResponse{
				ProductoID:      r.ProductoID.String(),
				DeltaSolicitado: r.StockSolicitado,
				DeltaAplicado:   r.Stock,
			})
		}
	}
	return out
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	lineas := make([]dto.LineaPedidoResponse, 0, len(p.Lineas))
	for _, l := range p.Lineas {
		nombre := ""
		if l.Producto != nil {
			nombre = l.Producto.Nombre
		}
		lineas = append(lineas, dto.LineaPedidoResponse{
			ID:             l.ID.String(),
			ProductoID:     l.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       l.Cantidad,
			Tipo:           l.Tipo,
			PrecioTotal:    l.PrecioTotal,
			DescuentoTotal: l.DescuentoTotal,
			Ganancia:       l.Ganancia,
		})
	}
	var finalizadoAt *string
	if p.FinalizadoAt != nil {
		f := p.FinalizadoAt.Format(time.RFC3339)
		finalizadoAt = &f
	}
	return &dto.PedidoResponse{
		ID:             p.ID.String(),
		VendedorID:     p.VendedorID.String(),
		Estado:         p.Estado,
		Total:          p.Total,
		DescuentoTotal: p.DescuentoTotal,
		GananciaTotal:  p.GananciaTotal,
		Lineas:         lineas,
		FinalizadoAt:   finalizadoAt,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
