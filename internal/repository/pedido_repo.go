package repository

import (
	"context"
	"time"

	"ventesca/internal/dto"
	"ventesca/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByID(ctx context.Context, negocioID, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)

	// FindByIDForUpdateTx loads the order with its lines and locks the order row.
	FindByIDForUpdateTx(tx *gorm.DB, negocioID, id uuid.UUID) (*model.Pedido, error)
	// CambiarEstadoTx moves the order from desde to hacia. It returns false
	// when the order was not in state desde.
	CambiarEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string, finalizadoAt *time.Time) (bool, error)
	CreateLineaTx(tx *gorm.DB, l *model.ProductoPedido) error
	DeleteLineaTx(tx *gorm.DB, pedidoID, lineaID uuid.UUID) error
	UpdateGananciaLineaTx(tx *gorm.DB, lineaID uuid.UUID, ganancia decimal.Decimal) error
	UpdateTotalesTx(tx *gorm.DB, p *model.Pedido) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Omit("Lineas").Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, negocioID, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Lineas", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Lineas.Producto").
		First(&p, "id = ? AND negocio_id = ?", id, negocioID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("negocio_id = ?", filter.NegocioID)

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Lineas").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}

func (r *pedidoRepo) FindByIDForUpdateTx(tx *gorm.DB, negocioID, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND negocio_id = ?", id, negocioID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("pedido_id = ?", p.ID).Order("created_at ASC").Find(&p.Lineas).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) CambiarEstadoTx(tx *gorm.DB, id uuid.UUID, desde, hacia string, finalizadoAt *time.Time) (bool, error) {
	campos := map[string]interface{}{"estado": hacia}
	if finalizadoAt != nil {
		campos["finalizado_at"] = *finalizadoAt
	}
	res := tx.Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, desde).
		Updates(campos)
	return res.RowsAffected == 1, res.Error
}

func (r *pedidoRepo) CreateLineaTx(tx *gorm.DB, l *model.ProductoPedido) error {
	return tx.Omit("Producto").Create(l).Error
}

func (r *pedidoRepo) DeleteLineaTx(tx *gorm.DB, pedidoID, lineaID uuid.UUID) error {
	res := tx.Where("id = ? AND pedido_id = ?", lineaID, pedidoID).Delete(&model.ProductoPedido{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pedidoRepo) UpdateGananciaLineaTx(tx *gorm.DB, lineaID uuid.UUID, ganancia decimal.Decimal) error {
	return tx.Model(&model.ProductoPedido{}).Where("id = ?", lineaID).Update("ganancia", ganancia).Error
}

func (r *pedidoRepo) UpdateTotalesTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"total":           p.Total,
			"descuento_total": p.DescuentoTotal,
			"ganancia_total":  p.GananciaTotal,
		}).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("pedido_id = ?", id).Delete(&model.ProductoPedido{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&model.Pedido{}).Error
}
