package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"ventesca/internal/dto"
	"ventesca/internal/inventario"
	"ventesca/internal/model"
	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, negocioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, negocioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, negocioID, id uuid.UUID) error
	ListarMovimientos(ctx context.Context, negocioID, id uuid.UUID, filter dto.MovimientosFilter) (*dto.MovimientoListResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	analiticas  repository.AnaliticaRepository
	movimientos repository.MovimientoStockRepository
	categorias  repository.CategoriaRepository
	proveedores repository.ProveedorRepository
	defaults    EntidadesDefaultService
}

func NewProductoService(
	repo repository.ProductoRepository,
	analiticas repository.AnaliticaRepository,
	movimientos repository.MovimientoStockRepository,
	categorias repository.CategoriaRepository,
	proveedores repository.ProveedorRepository,
	defaults EntidadesDefaultService,
) ProductoService {
	return &productoService{
		repo:        repo,
		analiticas:  analiticas,
		movimientos: movimientos,
		categorias:  categorias,
		proveedores: proveedores,
		defaults:    defaults,
	}
}

func (s *productoService) Crear(ctx context.Context, negocioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	codigo := strings.TrimSpace(req.Codigo)
	if codigo == "" || strings.HasPrefix(codigo, model.PrefijoEliminado) {
		return nil, ErrCodigoProducto
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", ErrDatosProducto)
	}
	if err := validarMonto("precio_costo", req.PrecioCosto); err != nil {
		return nil, err
	}
	if err := validarMonto("precio_venta", req.PrecioVenta); err != nil {
		return nil, err
	}

	categoriaID, err := s.resolverCategoria(ctx, negocioID, req.CategoriaID)
	if err != nil {
		return nil, err
	}
	proveedorID, err := s.resolverProveedor(ctx, negocioID, req.ProveedorID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		ID:          uuid.New(),
		NegocioID:   negocioID,
		Codigo:      codigo,
		Nombre:      strings.TrimSpace(req.Nombre),
		PrecioCosto: req.PrecioCosto,
		PrecioVenta: req.PrecioVenta,
		Stock:       req.Stock,
		Activo:      inventario.EsActivo(req.PrecioCosto, req.PrecioVenta, req.Stock),
		CategoriaID: categoriaID,
		ProveedorID: proveedorID,
	}
	analitica := &model.ProductoAnalitica{ID: uuid.New(), ProductoID: p.ID}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		return s.analiticas.CreateTx(tx, analitica)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCodigoDuplicado
		}
		return nil, err
	}
	p.Analitica = analitica
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// Actualizar edits descriptive fields and prices. Stock only moves through
// orders, so Activo is recomputed against the stored stock.
func (s *productoService) Actualizar(ctx context.Context, negocioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}

	if req.Nombre != nil {
		p.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.PrecioCosto != nil {
		if err := validarMonto("precio_costo", *req.PrecioCosto); err != nil {
			return nil, err
		}
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		if err := validarMonto("precio_venta", *req.PrecioVenta); err != nil {
			return nil, err
		}
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.CategoriaID != nil {
		if p.CategoriaID, err = s.resolverCategoria(ctx, negocioID, req.CategoriaID); err != nil {
			return nil, err
		}
	}
	if req.ProveedorID != nil {
		if p.ProveedorID, err = s.resolverProveedor(ctx, negocioID, req.ProveedorID); err != nil {
			return nil, err
		}
	}
	p.Activo = inventario.EsActivo(p.PrecioCosto, p.PrecioVenta, p.Stock)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

// Eliminar soft-deletes the product and renames its code so it can be reused.
func (s *productoService) Eliminar(ctx context.Context, negocioID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return notFound(err, ErrProductoNoEncontrado)
	}
	codigo := fmt.Sprintf("%s%d-%s", model.PrefijoEliminado, time.Now().UnixMilli(), p.Codigo)
	return notFound(s.repo.SoftDelete(ctx, negocioID, id, codigo), ErrProductoNoEncontrado)
}

// ListarMovimientos returns the stock history of one product, newest first.
func (s *productoService) ListarMovimientos(ctx context.Context, negocioID, id uuid.UUID, filter dto.MovimientosFilter) (*dto.MovimientoListResponse, error) {
	if _, err := s.repo.FindByID(ctx, negocioID, id); err != nil {
		return nil, notFound(err, ErrProductoNoEncontrado)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movs, total, err := s.movimientos.List(ctx, repository.MovimientoStockFilter{
		ProductoID: &id,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		r := dto.MovimientoStockResponse{
			ID:                 m.ID.String(),
			Tipo:               m.Tipo,
			Cantidad:           m.Cantidad,
			CantidadSolicitada: m.CantidadSolicitada,
			StockAnterior:      m.StockAnterior,
			StockNuevo:         m.StockNuevo,
			Motivo:             m.Motivo,
			CreatedAt:          m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			r.PedidoID = &ref
		}
		data = append(data, r)
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// resolverCategoria returns the requested category when it belongs to the
// business, or the fallback category otherwise.
func (s *productoService) resolverCategoria(ctx context.Context, negocioID uuid.UUID, raw *string) (uuid.UUID, error) {
	if raw != nil && *raw != "" {
		if id, err := uuid.Parse(*raw); err == nil {
			c, err := s.categorias.ObtenerPorID(ctx, negocioID, id)
			if err == nil {
				return c.ID, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, err
			}
		}
	}
	return s.defaults.CategoriaDefault(ctx, negocioID)
}

func (s *productoService) resolverProveedor(ctx context.Context, negocioID uuid.UUID, raw *string) (uuid.UUID, error) {
	if raw != nil && *raw != "" {
		if id, err := uuid.Parse(*raw); err == nil {
			p, err := s.proveedores.FindByID(ctx, negocioID, id)
			if err == nil {
				return p.ID, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, err
			}
		}
	}
	return s.defaults.ProveedorDefault(ctx, negocioID)
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		Stock:       p.Stock,
		Activo:      p.Activo,
		CategoriaID: p.CategoriaID.String(),
		ProveedorID: p.ProveedorID.String(),
	}
	if p.Analitica != nil {
		resp.Analitica = &dto.AnaliticaResponse{
			TotalVentas:       p.Analitica.TotalVentas,
			TotalGanancia:     p.Analitica.TotalGanancia,
			TotalDevoluciones: p.Analitica.TotalDevoluciones,
		}
	}
	return resp
}

// validarMonto rejects prices the money columns would round or overflow, so
// Activo is always derived from the stored value.
func validarMonto(campo string, d decimal.Decimal) error {
	if !inventario.MontoValido(d) {
		return fmt.Errorf("%w: %s debe estar entre 0 y %s con hasta %d decimales",
			ErrDatosProducto, campo, inventario.MontoMaximo, inventario.DecimalesMonto)
	}
	return nil
}
