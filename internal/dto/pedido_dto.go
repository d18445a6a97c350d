package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AgregarLineaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   int             `json:"cantidad"    validate:"required,gt=0"`
	Tipo       string          `json:"tipo"        validate:"required,oneof=venta devolucion promo"`
	Descuento  decimal.Decimal `json:"descuento"   validate:"min=0"`
}

// PedidoFilter is bound from query string of GET /v1/pedidos.
type PedidoFilter struct {
	NegocioID uuid.UUID `form:"-"`
	Fecha     string    `form:"fecha"`  // YYYY-MM-DD; empty = todas
	Estado    string    `form:"estado"` // pendiente | finalizado | descartado | all
	Page      int       `form:"page,default=1"   validate:"min=1"`
	Limit     int       `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaPedidoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	Tipo           string          `json:"tipo"`
	PrecioTotal    decimal.Decimal `json:"precio_total"`
	DescuentoTotal decimal.Decimal `json:"descuento_total"`
	Ganancia       decimal.Decimal `json:"ganancia"`
}

type PedidoResponse struct {
	ID             string                `json:"id"`
	VendedorID     string                `json:"vendedor_id"`
	Estado         string                `json:"estado"`
	Total          decimal.Decimal       `json:"total"`
	DescuentoTotal decimal.Decimal       `json:"descuento_total"`
	GananciaTotal  decimal.Decimal       `json:"ganancia_total"`
	Lineas         []LineaPedidoResponse `json:"lineas"`
	// Ajustes lists the products whose stock hit the zero floor during the
	// last transition; the reversal of those lines will not be exact.
	Ajustes      []AjusteStockResponse `json:"ajustes,omitempty"`
	FinalizadoAt *string               `json:"finalizado_at"`
	CreatedAt    string                `json:"created_at"`
}

type AjusteStockResponse struct {
	ProductoID      string `json:"producto_id"`
	DeltaSolicitado int    `json:"delta_solicitado"`
	DeltaAplicado   int    `json:"delta_aplicado"`
}

// EliminarPedidoResponse lists the lines whose stock reversal was limited by
// the zero floor. Empty when the deletion undid the order exactly.
type EliminarPedidoResponse struct {
	ID      string                `json:"id"`
	Ajustes []AjusteStockResponse `json:"ajustes"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
