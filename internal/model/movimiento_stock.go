package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock records every stock change applied by the ledger.
// CantidadSolicitada differs from Cantidad when the zero floor absorbed part
// of the change.
type MovimientoStock struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo               string    `gorm:"not null"` // crear | eliminar | descartar | restaurar
	Cantidad           int       `gorm:"not null"` // positive = entrada, negative = salida
	CantidadSolicitada int       `gorm:"not null"`
	StockAnterior      int       `gorm:"not null"`
	StockNuevo         int       `gorm:"not null"`
	Motivo             string
	ReferenciaID       *uuid.UUID `gorm:"type:uuid;index"` // pedido_id
	CreatedAt          time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
