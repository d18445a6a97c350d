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

type ProveedorService interface {
	Crear(ctx context.Context, negocioID uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, negocioID uuid.UUID) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, negocioID, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, negocioID, id uuid.UUID) error
}

type proveedorService struct {
	repo         repository.ProveedorRepository
	productoRepo repository.ProductoRepository
	defaults     EntidadesDefaultService
}

func NewProveedorService(repo repository.ProveedorRepository, productoRepo repository.ProductoRepository, defaults EntidadesDefaultService) ProveedorService {
	return &proveedorService{repo: repo, productoRepo: productoRepo, defaults: defaults}
}

func (s *proveedorService) Crear(ctx context.Context, negocioID uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	if req.Codigo <= model.CodigoEsencial {
		return nil, ErrCodigoReservado
	}
	p := &model.Proveedor{
		ID:        uuid.New(),
		NegocioID: negocioID,
		Codigo:    req.Codigo,
		Nombre:    req.Nombre,
		Telefono:  req.Telefono,
		Email:     req.Email,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCodigoDuplicado
		}
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return nil, notFound(err, ErrProveedorNoEncontrado)
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, negocioID uuid.UUID) ([]dto.ProveedorResponse, error) {
	list, err := s.repo.List(ctx, negocioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProveedorResponse, 0, len(list))
	for i := range list {
		out = append(out, *proveedorToResponse(&list[i]))
	}
	return out, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, negocioID, id uuid.UUID, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return nil, notFound(err, ErrProveedorNoEncontrado)
	}
	if p.EsEsencial {
		return nil, ErrEntidadEsencial
	}
	if req.Codigo <= model.CodigoEsencial {
		return nil, ErrCodigoReservado
	}
	p.Codigo = req.Codigo
	p.Nombre = req.Nombre
	p.Telefono = req.Telefono
	p.Email = req.Email
	if err := s.repo.Update(ctx, p); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCodigoDuplicado
		}
		return nil, err
	}
	return proveedorToResponse(p), nil
}

// Eliminar deletes a supplier after moving its products to the fallback supplier.
func (s *proveedorService) Eliminar(ctx context.Context, negocioID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, negocioID, id)
	if err != nil {
		return notFound(err, ErrProveedorNoEncontrado)
	}
	if p.EsEsencial {
		return ErrEntidadEsencial
	}
	fallback, err := s.defaults.ProveedorDefault(ctx, negocioID)
	if err != nil {
		return err
	}

	var movidos int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		if movidos, err = s.productoRepo.ReasignarProveedorTx(tx, negocioID, p.ID, fallback); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, negocioID, p.ID)
	})
	if err != nil {
		return notFound(err, ErrProveedorNoEncontrado)
	}
	log.Info().
		Str("proveedor_id", p.ID.String()).
		Int64("productos_reasignados", movidos).
		Msg("proveedor eliminado")
	return nil
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:         p.ID.String(),
		Codigo:     p.Codigo,
		Nombre:     p.Nombre,
		Telefono:   p.Telefono,
		Email:      p.Email,
		EsEsencial: p.EsEsencial,
	}
}
