package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrefijoEliminado marks the code of a soft-deleted product. The original code
// is kept as a suffix so it can be reused while history stays readable.
const PrefijoEliminado = "REMOVED-"

// Producto is a sellable item of one business.
// Stock and the analytics counters are only written by the ledger and the
// spreadsheet import; Activo is derived from cost, price and stock.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_productos_negocio_codigo,priority:1"`
	Codigo      string          `gorm:"not null;uniqueIndex:idx_productos_negocio_codigo,priority:2"`
	Nombre      string          `gorm:"index;not null"`
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;check:chk_productos_stock_no_negativo,stock >= 0"`
	Activo      bool            `gorm:"not null"`
	Eliminado   bool            `gorm:"not null;index"`
	CategoriaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProveedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria         `gorm:"foreignKey:CategoriaID"`
	Proveedor *Proveedor         `gorm:"foreignKey:ProveedorID"`
	Analitica *ProductoAnalitica `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }

// ProductoAnalitica holds running totals for one product. Counters are only
// ever incremented or decremented, never recomputed from history.
type ProductoAnalitica struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TotalVentas       int             `gorm:"not null"`
	TotalGanancia     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalDevoluciones int             `gorm:"not null"`
	UpdatedAt         time.Time
}

func (ProductoAnalitica) TableName() string { return "producto_analiticas" }
