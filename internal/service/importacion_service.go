package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"ventesca/internal/dto"
	"ventesca/internal/inventario"
	"ventesca/internal/model"
	"ventesca/internal/planilla"
	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ImportacionService bulk-creates products from the import spreadsheet.
type ImportacionService interface {
	ImportarProductos(ctx context.Context, negocioID uuid.UUID, r io.Reader) (*dto.ImportacionResponse, error)
	GenerarPlantilla(ctx context.Context, negocioID uuid.UUID) (*bytes.Buffer, error)
}

type importacionService struct {
	productos   repository.ProductoRepository
	analiticas  repository.AnaliticaRepository
	categorias  repository.CategoriaRepository
	proveedores repository.ProveedorRepository
	defaults    EntidadesDefaultService
	maxFilas    int
	lote        int
}

func NewImportacionService(
	productos repository.ProductoRepository,
	analiticas repository.AnaliticaRepository,
	categorias repository.CategoriaRepository,
	proveedores repository.ProveedorRepository,
	defaults EntidadesDefaultService,
	maxFilas, lote int,
) ImportacionService {
	return &importacionService{
		productos:   productos,
		analiticas:  analiticas,
		categorias:  categorias,
		proveedores: proveedores,
		defaults:    defaults,
		maxFilas:    maxFilas,
		lote:        lote,
	}
}

// ── ImportarProductos ─────────────────────────────────────────────────────────
//   1. Parse the workbook
//   2. Preload fallback ids, categories, suppliers and live codes (one query each)
//   3. Classify every row in memory
//   4. One transaction: products in batches, then their analytics rows

func (s *importacionService) ImportarProductos(ctx context.Context, negocioID uuid.UUID, r io.Reader) (*dto.ImportacionResponse, error) {
	filas, err := planilla.LeerFilas(r, s.maxFilas)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlanillaInvalida, err)
	}

	cc, err := s.contexto(ctx, negocioID)
	if err != nil {
		return nil, err
	}

	conc := inventario.Conciliar(filas, cc)

	productos := make([]model.Producto, 0, len(conc.ACrear))
	analiticas := make([]model.ProductoAnalitica, 0, len(conc.ACrear))
	for _, n := range conc.ACrear {
		id := uuid.New()
		productos = append(productos, model.Producto{
			ID:          id,
			NegocioID:   negocioID,
			Codigo:      n.Codigo,
			Nombre:      n.Nombre,
			PrecioCosto: n.Costo,
			PrecioVenta: n.PrecioVenta,
			Stock:       n.Stock,
			Activo:      n.Activo,
			CategoriaID: n.CategoriaID,
			ProveedorID: n.ProveedorID,
		})
		analiticas = append(analiticas, model.ProductoAnalitica{ID: uuid.New(), ProductoID: id})
	}

	if len(productos) > 0 {
		err = runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
			if err := s.productos.CreateInBatchesTx(tx, productos, s.lote); err != nil {
				return err
			}
			return s.analiticas.CreateInBatchesTx(tx, analiticas, s.lote)
		})
		if err != nil {
			// A concurrent import took one of the codes after classification.
			if repository.IsUniqueViolation(err) {
				return nil, ErrCodigoDuplicado
			}
			return nil, fmt.Errorf("importar productos: %w", err)
		}
	}

	log.Info().
		Str("negocio_id", negocioID.String()).
		Int("filas", len(filas)).
		Int("creados", len(productos)).
		Int("errores", len(conc.Errores)).
		Int("advertencias", len(conc.Advertencias)).
		Msg("importación de productos")

	return &dto.ImportacionResponse{
		Creados:      len(productos),
		Errores:      filasToResponse(conc.Errores),
		Advertencias: filasToResponse(conc.Advertencias),
		Exitos:       filasToResponse(conc.Exitos),
	}, nil
}

func (s *importacionService) contexto(ctx context.Context, negocioID uuid.UUID) (inventario.ContextoConciliacion, error) {
	var cc inventario.ContextoConciliacion
	var err error

	if cc.CategoriaDefault, err = s.defaults.CategoriaDefault(ctx, negocioID); err != nil {
		return cc, err
	}
	if cc.ProveedorDefault, err = s.defaults.ProveedorDefault(ctx, negocioID); err != nil {
		return cc, err
	}

	categorias, err := s.categorias.Listar(ctx, negocioID)
	if err != nil {
		return cc, err
	}
	cc.Categorias = make(map[int]uuid.UUID, len(categorias))
	for _, c := range categorias {
		cc.Categorias[c.Codigo] = c.ID
	}

	proveedores, err := s.proveedores.List(ctx, negocioID)
	if err != nil {
		return cc, err
	}
	cc.Proveedores = make(map[int]uuid.UUID, len(proveedores))
	for _, p := range proveedores {
		cc.Proveedores[p.Codigo] = p.ID
	}

	if cc.CodigosExistentes, err = s.productos.CodigosVigentes(ctx, negocioID); err != nil {
		return cc, err
	}
	return cc, nil
}

// GenerarPlantilla returns an empty import workbook listing the business's
// categories and suppliers, fallback entities included.
func (s *importacionService) GenerarPlantilla(ctx context.Context, negocioID uuid.UUID) (*bytes.Buffer, error) {
	if _, err := s.defaults.CategoriaDefault(ctx, negocioID); err != nil {
		return nil, err
	}
	if _, err := s.defaults.ProveedorDefault(ctx, negocioID); err != nil {
		return nil, err
	}

	categorias, err := s.categorias.Listar(ctx, negocioID)
	if err != nil {
		return nil, err
	}
	proveedores, err := s.proveedores.List(ctx, negocioID)
	if err != nil {
		return nil, err
	}

	ayudaCat := make([]planilla.EntradaAyuda, 0, len(categorias))
	for _, c := range categorias {
		ayudaCat = append(ayudaCat, planilla.EntradaAyuda{Codigo: c.Codigo, Nombre: c.Nombre})
	}
	ayudaProv := make([]planilla.EntradaAyuda, 0, len(proveedores))
	for _, p := range proveedores {
		ayudaProv = append(ayudaProv, planilla.EntradaAyuda{Codigo: p.Codigo, Nombre: p.Nombre})
	}
	return planilla.GenerarPlantilla(ayudaCat, ayudaProv)
}

func filasToResponse(filas []inventario.ResultadoFila) []dto.FilaImportacionResponse {
	out := make([]dto.FilaImportacionResponse, 0, len(filas))
	for _, f := range filas {
		out = append(out, dto.FilaImportacionResponse{
			Fila:    f.Fila,
			Codigo:  f.Codigo,
			Nombre:  f.Nombre,
			Mensaje: f.Mensaje,
			Campos:  f.Campos,
		})
	}
	return out
}
