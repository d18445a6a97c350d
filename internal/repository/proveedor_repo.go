package repository

import (
	"context"

	"ventesca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, negocioID, id uuid.UUID) (*model.Proveedor, error)
	List(ctx context.Context, negocioID uuid.UUID) ([]model.Proveedor, error)
	Update(ctx context.Context, p *model.Proveedor) error
	DeleteTx(tx *gorm.DB, negocioID, id uuid.UUID) error
	FindOrCreateEsencial(ctx context.Context, negocioID uuid.UUID) (*model.Proveedor, error)
	DB() *gorm.DB
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) DB() *gorm.DB { return r.db }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, negocioID, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "id = ? AND negocio_id = ?", id, negocioID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) List(ctx context.Context, negocioID uuid.UUID) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	err := r.db.WithContext(ctx).Where("negocio_id = ?", negocioID).Order("codigo asc").Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).
		Where("id = ? AND negocio_id = ? AND es_esencial = false", p.ID, p.NegocioID).
		Updates(map[string]interface{}{
			"codigo":   p.Codigo,
			"nombre":   p.Nombre,
			"telefono": p.Telefono,
			"email":    p.Email,
		}).Error
}

func (r *proveedorRepo) DeleteTx(tx *gorm.DB, negocioID, id uuid.UUID) error {
	res := tx.Where("id = ? AND negocio_id = ? AND es_esencial = false", id, negocioID).Delete(&model.Proveedor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *proveedorRepo) FindOrCreateEsencial(ctx context.Context, negocioID uuid.UUID) (*model.Proveedor, error) {
	db := r.db.WithContext(ctx)
	nuevo := model.Proveedor{
		ID:         uuid.New(),
		NegocioID:  negocioID,
		Codigo:     model.CodigoEsencial,
		Nombre:     model.NombreProveedorEsencial,
		EsEsencial: true,
	}
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&nuevo).Error; err != nil {
		return nil, err
	}
	var p model.Proveedor
	if err := db.Where("negocio_id = ? AND es_esencial = true", negocioID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
