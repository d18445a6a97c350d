package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EntidadesDefaultService resolves the protected fallback category and
// supplier of a business, creating them on first use.
type EntidadesDefaultService interface {
	CategoriaDefault(ctx context.Context, negocioID uuid.UUID) (uuid.UUID, error)
	ProveedorDefault(ctx context.Context, negocioID uuid.UUID) (uuid.UUID, error)
}

type entidadesDefaultService struct {
	categorias  repository.CategoriaRepository
	proveedores repository.ProveedorRepository
	rdb         *redis.Client // optional
	ttl         time.Duration
}

func NewEntidadesDefaultService(
	categorias repository.CategoriaRepository,
	proveedores repository.ProveedorRepository,
	rdb *redis.Client,
	ttl time.Duration,
) EntidadesDefaultService {
	return &entidadesDefaultService{categorias: categorias, proveedores: proveedores, rdb: rdb, ttl: ttl}
}

func claveCategoriaEsencial(negocioID uuid.UUID) string {
	return fmt.Sprintf("esencial:categoria:%s", negocioID)
}

func claveProveedorEsencial(negocioID uuid.UUID) string {
	return fmt.Sprintf("esencial:proveedor:%s", negocioID)
}

func (s *entidadesDefaultService) CategoriaDefault(ctx context.Context, negocioID uuid.UUID) (uuid.UUID, error) {
	return s.resolver(ctx, claveCategoriaEsencial(negocioID), func() (uuid.UUID, error) {
		c, err := s.categorias.ObtenerOCrearEsencial(ctx, negocioID)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	})
}

func (s *entidadesDefaultService) ProveedorDefault(ctx context.Context, negocioID uuid.UUID) (uuid.UUID, error) {
	return s.resolver(ctx, claveProveedorEsencial(negocioID), func() (uuid.UUID, error) {
		p, err := s.proveedores.FindOrCreateEsencial(ctx, negocioID)
		if err != nil {
			return uuid.Nil, err
		}
		return p.ID, nil
	})
}

// resolver reads the id from Redis and falls back to the database. Essential
// rows are never deleted, so a cached id cannot go stale.
func (s *entidadesDefaultService) resolver(ctx context.Context, clave string, cargar func() (uuid.UUID, error)) (uuid.UUID, error) {
	if s.rdb != nil {
		v, err := s.rdb.Get(ctx, clave).Result()
		switch {
		case err == nil:
			if id, perr := uuid.Parse(v); perr == nil {
				return id, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Debug().Err(err).Str("clave", clave).Msg("cache de entidades esenciales no disponible")
		}
	}

	id, err := cargar()
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolver entidad esencial: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, clave, id.String(), s.ttl).Err(); err != nil {
			log.Debug().Err(err).Str("clave", clave).Msg("no se pudo cachear la entidad esencial")
		}
	}
	return id, nil
}
