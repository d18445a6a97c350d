package service

import (
	"context"

	"ventesca/internal/dto"
	"ventesca/internal/model"
	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, negocioID uuid.UUID, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, negocioID uuid.UUID) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, negocioID, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Eliminar(ctx context.Context, negocioID, id uuid.UUID) error
}

type categoriaService struct {
	repo      repository.CategoriaRepository
	productos repository.ProductoRepository
	defaults  EntidadesDefaultService
}

func NewCategoriaService(repo repository.CategoriaRepository, productos repository.ProductoRepository, defaults EntidadesDefaultService) CategoriaService {
	return &categoriaService{repo: repo, productos: productos, defaults: defaults}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:         c.ID,
		Codigo:     c.Codigo,
		Nombre:     c.Nombre,
		EsEsencial: c.EsEsencial,
	}
}

func (s *categoriaService) Crear(ctx context.Context, negocioID uuid.UUID, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	// Code 0 belongs to the essential category.
	if req.Codigo <= model.CodigoEsencial {
		return dto.CategoriaResponse{}, ErrCodigoReservado
	}
	c := &model.Categoria{
		ID:        uuid.New(),
		NegocioID: negocioID,
		Codigo:    req.Codigo,
		Nombre:    req.Nombre,
	}
	if err := s.repo.Crear(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return dto.CategoriaResponse{}, ErrCodigoDuplicado
		}
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, negocioID uuid.UUID) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, negocioID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, negocioID, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, negocioID, id)
	if err != nil {
		return dto.CategoriaResponse{}, notFound(err, ErrCategoriaNoEncontrada)
	}
	if c.EsEsencial {
		return dto.CategoriaResponse{}, ErrEntidadEsencial
	}

	if req.Codigo != nil {
		if *req.Codigo <= model.CodigoEsencial {
			return dto.CategoriaResponse{}, ErrCodigoReservado
		}
		c.Codigo = *req.Codigo
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return dto.CategoriaResponse{}, ErrCodigoDuplicado
		}
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

// Eliminar deletes a category and moves its products to the fallback
// category in the same transaction.
func (s *categoriaService) Eliminar(ctx context.Context, negocioID, id uuid.UUID) error {
	c, err := s.repo.ObtenerPorID(ctx, negocioID, id)
	if err != nil {
		return notFound(err, ErrCategoriaNoEncontrada)
	}
	if c.EsEsencial {
		return ErrEntidadEsencial
	}

	fallback, err := s.defaults.CategoriaDefault(ctx, negocioID)
	if err != nil {
		return err
	}

	var movidos int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		if movidos, err = s.productos.ReasignarCategoriaTx(tx, negocioID, c.ID, fallback); err != nil {
			return err
		}
		return s.repo.EliminarTx(tx, negocioID, c.ID)
	})
	if err != nil {
		return notFound(err, ErrCategoriaNoEncontrada)
	}

	log.Info().
		Str("categoria_id", c.ID.String()).
		Int64("productos_reasignados", movidos).
		Msg("categoría eliminada")
	return nil
}
