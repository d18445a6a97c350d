package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	EstadoPendiente  = "pendiente"
	EstadoFinalizado = "finalizado"
	EstadoDescartado = "descartado"
)

// Pedido is a commercial transaction. Its status transitions drive the ledger:
// finalizar applies every line, descartar/eliminar undo them, restaurar
// re-applies them.
type Pedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Estado         string          `gorm:"type:varchar(20);not null;index"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	GananciaTotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	FinalizadoAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lineas []ProductoPedido `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

// ProductoPedido is one product line of an order.
// Tipo: "venta" | "devolucion" | "promo". Ganancia is derived from the other
// amounts and the product cost; it is recomputed by the ledger.
type ProductoPedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null;check:chk_producto_pedidos_cantidad,cantidad > 0"`
	Tipo           string          `gorm:"type:varchar(20);not null"`
	PrecioTotal    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	DescuentoTotal decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Ganancia       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (ProductoPedido) TableName() string { return "producto_pedidos" }
