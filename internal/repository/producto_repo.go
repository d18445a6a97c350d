package repository

import (
	"context"

	"ventesca/internal/dto"
	"ventesca/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Producto) error
	FindByID(ctx context.Context, negocioID, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, negocioID, id uuid.UUID, codigoEliminado string) error

	// CodigosVigentes returns the codes of every non-deleted product of the business.
	CodigosVigentes(ctx context.Context, negocioID uuid.UUID) (map[string]struct{}, error)
	CreateInBatchesTx(tx *gorm.DB, productos []model.Producto, lote int) error

	// Used inside transactions: callers must pass the tx instance

	// FindByIDForUpdateTx reads the product and locks its row until the tx ends.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// UpdateStockTx applies delta only if the resulting stock stays >= 0 and
	// re-derives activo from the new stock. It returns false when no row matched.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (bool, error)
	ReasignarCategoriaTx(tx *gorm.DB, negocioID, desde, hacia uuid.UUID) (int64, error)
	ReasignarProveedorTx(tx *gorm.DB, negocioID, desde, hacia uuid.UUID) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, negocioID, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Categoria").Preload("Proveedor").Preload("Analitica").
		Where("id = ? AND negocio_id = ? AND eliminado = false", id, negocioID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("negocio_id = ? AND eliminado = false", filter.NegocioID)

	// Activo filter: "true" = activos, "false" = inactivos, anything else = todos
	switch filter.Activo {
	case "true":
		q = q.Where("activo = true")
	case "false":
		q = q.Where("activo = false")
	}

	if filter.Codigo != "" {
		q = q.Where("codigo = ?", filter.Codigo)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.ProveedorID != "" {
		q = q.Where("proveedor_id = ?", filter.ProveedorID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Analitica").Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

// Update saves the editable columns only; stock is never written here.
func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND negocio_id = ?", p.ID, p.NegocioID).
		Updates(map[string]interface{}{
			"nombre":       p.Nombre,
			"precio_costo": p.PrecioCosto,
			"precio_venta": p.PrecioVenta,
			"categoria_id": p.CategoriaID,
			"proveedor_id": p.ProveedorID,
			"activo":       p.Activo,
		}).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, negocioID, id uuid.UUID, codigoEliminado string) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND negocio_id = ? AND eliminado = false", id, negocioID).
		Updates(map[string]interface{}{
			"codigo":    codigoEliminado,
			"eliminado": true,
			"activo":    false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) CodigosVigentes(ctx context.Context, negocioID uuid.UUID) (map[string]struct{}, error) {
	var codigos []string
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("negocio_id = ? AND eliminado = false", negocioID).
		Pluck("codigo", &codigos).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(codigos))
	for _, c := range codigos {
		set[c] = struct{}{}
	}
	return set, nil
}

func (r *productoRepo) CreateInBatchesTx(tx *gorm.DB, productos []model.Producto, lote int) error {
	if len(productos) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).CreateInBatches(productos, lote).Error
}

func (r *productoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock":  gorm.Expr("stock + ?", delta),
			"activo": gorm.Expr("NOT eliminado AND precio_costo > 0 AND precio_venta > 0 AND stock + ? > 0", delta),
		})
	return res.RowsAffected == 1, res.Error
}

func (r *productoRepo) ReasignarCategoriaTx(tx *gorm.DB, negocioID, desde, hacia uuid.UUID) (int64, error) {
	res := tx.Model(&model.Producto{}).
		Where("negocio_id = ? AND categoria_id = ?", negocioID, desde).
		Update("categoria_id", hacia)
	return res.RowsAffected, res.Error
}

func (r *productoRepo) ReasignarProveedorTx(tx *gorm.DB, negocioID, desde, hacia uuid.UUID) (int64, error) {
	res := tx.Model(&model.Producto{}).
		Where("negocio_id = ? AND proveedor_id = ?", negocioID, desde).
		Update("proveedor_id", hacia)
	return res.RowsAffected, res.Error
}
