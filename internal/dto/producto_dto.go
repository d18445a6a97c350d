package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,min=1,max=64"`
	Nombre      string          `json:"nombre"       validate:"required,min=1,max=120"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	Stock       int             `json:"stock"        validate:"min=0"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	ProveedorID *string         `json:"proveedor_id" validate:"omitempty,uuid"`
}

// ActualizarProductoRequest has no stock field: stock only moves through orders.
type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"       validate:"omitempty,min=1,max=120"`
	PrecioCosto *decimal.Decimal `json:"precio_costo"`
	PrecioVenta *decimal.Decimal `json:"precio_venta"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	ProveedorID *string          `json:"proveedor_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	NegocioID   uuid.UUID `form:"-"`
	Codigo      string    `form:"codigo"`
	Nombre      string    `form:"nombre"`
	CategoriaID string    `form:"categoria_id" validate:"omitempty,uuid"`
	ProveedorID string    `form:"proveedor_id" validate:"omitempty,uuid"`
	Activo      string    `form:"activo"` // true | false | empty = todos
	Page        int       `form:"page,default=1"  validate:"min=1"`
	Limit       int       `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AnaliticaResponse struct {
	TotalVentas       int             `json:"total_ventas"`
	TotalGanancia     decimal.Decimal `json:"total_ganancia"`
	TotalDevoluciones int             `json:"total_devoluciones"`
}

type ProductoResponse struct {
	ID          string             `json:"id"`
	Codigo      string             `json:"codigo"`
	Nombre      string             `json:"nombre"`
	PrecioCosto decimal.Decimal    `json:"precio_costo"`
	PrecioVenta decimal.Decimal    `json:"precio_venta"`
	Stock       int                `json:"stock"`
	Activo      bool               `json:"activo"`
	CategoriaID string             `json:"categoria_id"`
	ProveedorID string             `json:"proveedor_id"`
	Analitica   *AnaliticaResponse `json:"analitica,omitempty"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// MovimientosFilter is bound from the query of GET /v1/productos/:id/movimientos.
type MovimientosFilter struct {
	Page  int `form:"page,default=1"    validate:"min=1"`
	Limit int `form:"limit,default=50"  validate:"min=1,max=500"`
}

type MovimientoStockResponse struct {
	ID                 string  `json:"id"`
	Tipo               string  `json:"tipo"`
	Cantidad           int     `json:"cantidad"`
	CantidadSolicitada int     `json:"cantidad_solicitada"`
	StockAnterior      int     `json:"stock_anterior"`
	StockNuevo         int     `json:"stock_nuevo"`
	Motivo             string  `json:"motivo"`
	PedidoID           *string `json:"pedido_id"`
	CreatedAt          string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
