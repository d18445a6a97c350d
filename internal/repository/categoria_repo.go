package repository

import (
	"context"

	"ventesca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoriaRepository defines CRUD operations for Categoria.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context, negocioID uuid.UUID) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*model.Categoria, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	EliminarTx(tx *gorm.DB, negocioID, id uuid.UUID) error

	// ObtenerOCrearEsencial returns the business's fallback category,
	// inserting it when missing. Concurrent callers observe the same row.
	ObtenerOCrearEsencial(ctx context.Context, negocioID uuid.UUID) (*model.Categoria, error)

	DB() *gorm.DB
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) DB() *gorm.DB { return r.db }

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context, negocioID uuid.UUID) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Where("negocio_id = ?", negocioID).Order("codigo asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, negocioID, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ? AND negocio_id = ?", id, negocioID).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Model(&model.Categoria{}).
		Where("id = ? AND negocio_id = ? AND es_esencial = false", c.ID, c.NegocioID).
		Updates(map[string]interface{}{"codigo": c.Codigo, "nombre": c.Nombre}).Error
}

func (r *categoriaRepository) EliminarTx(tx *gorm.DB, negocioID, id uuid.UUID) error {
	res := tx.Where("id = ? AND negocio_id = ? AND es_esencial = false", id, negocioID).Delete(&model.Categoria{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoriaRepository) ObtenerOCrearEsencial(ctx context.Context, negocioID uuid.UUID) (*model.Categoria, error) {
	db := r.db.WithContext(ctx)
	nueva := model.Categoria{
		ID:         uuid.New(),
		NegocioID:  negocioID,
		Codigo:     model.CodigoEsencial,
		Nombre:     model.NombreCategoriaEsencial,
		EsEsencial: true,
	}
	// Losing the race against another insert is not an error: the partial
	// unique index keeps a single essential row and DO NOTHING skips ours.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&nueva).Error; err != nil {
		return nil, err
	}
	var c model.Categoria
	if err := db.Where("negocio_id = ? AND es_esencial = true", negocioID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
