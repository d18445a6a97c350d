package repository

import (
	"context"
	"time"

	"ventesca/internal/inventario"
	"ventesca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnaliticaRepository persists the per-product running totals.
type AnaliticaRepository interface {
	CreateTx(tx *gorm.DB, a *model.ProductoAnalitica) error
	CreateInBatchesTx(tx *gorm.DB, analiticas []model.ProductoAnalitica, lote int) error
	FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.ProductoAnalitica, error)
	// IncrementarTx adds the deltas to the counters, creating the row when it
	// does not exist yet.
	IncrementarTx(tx *gorm.DB, productoID uuid.UUID, d inventario.Deltas) error
}

type analiticaRepo struct{ db *gorm.DB }

func NewAnaliticaRepository(db *gorm.DB) AnaliticaRepository { return &analiticaRepo{db: db} }

func (r *analiticaRepo) CreateTx(tx *gorm.DB, a *model.ProductoAnalitica) error {
	return tx.Create(a).Error
}

func (r *analiticaRepo) CreateInBatchesTx(tx *gorm.DB, analiticas []model.ProductoAnalitica, lote int) error {
	if len(analiticas) == 0 {
		return nil
	}
	return tx.CreateInBatches(analiticas, lote).Error
}

func (r *analiticaRepo) FindByProductoID(ctx context.Context, productoID uuid.UUID) (*model.ProductoAnalitica, error) {
	var a model.ProductoAnalitica
	if err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *analiticaRepo) IncrementarTx(tx *gorm.DB, productoID uuid.UUID, d inventario.Deltas) error {
	fila := model.ProductoAnalitica{
		ID:                uuid.New(),
		ProductoID:        productoID,
		TotalVentas:       d.Ventas,
		TotalGanancia:     d.Ganancia,
		TotalDevoluciones: d.Devoluciones,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "producto_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_ventas":       gorm.Expr("producto_analiticas.total_ventas + ?", d.Ventas),
			"total_ganancia":     gorm.Expr("producto_analiticas.total_ganancia + ?", d.Ganancia),
			"total_devoluciones": gorm.Expr("producto_analiticas.total_devoluciones + ?", d.Devoluciones),
			"updated_at":         time.Now(),
		}),
	}).Create(&fila).Error
}
