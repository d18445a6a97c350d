// Package inventario holds the pure rules that keep a product's stock and its
// sales/profit/return counters consistent: line profit, the stock floor, the
// per-action delta table and the reconciliation of imported spreadsheet rows.
//
// Nothing in this package performs I/O. Persistence lives in internal/service.
package inventario

import "errors"

// TipoLinea is the commercial nature of an order line.
type TipoLinea string

const (
	TipoVenta      TipoLinea = "venta"
	TipoDevolucion TipoLinea = "devolucion"
	TipoPromo      TipoLinea = "promo"
)

// Valido reports whether t is one of the known line types.
func (t TipoLinea) Valido() bool {
	switch t {
	case TipoVenta, TipoDevolucion, TipoPromo:
		return true
	}
	return false
}

// Accion is a lifecycle transition applied to an order line.
type Accion string

const (
	AccionCrear     Accion = "crear"
	AccionEliminar  Accion = "eliminar"
	AccionDescartar Accion = "descartar"
	AccionRestaurar Accion = "restaurar"
)

// Valida reports whether a is one of the four lifecycle actions.
func (a Accion) Valida() bool {
	switch a {
	case AccionCrear, AccionEliminar, AccionDescartar, AccionRestaurar:
		return true
	}
	return false
}

var (
	ErrTipoLineaInvalido = errors.New("tipo de línea inválido")
	ErrAccionInvalida    = errors.New("acción inválida")
	ErrCantidadInvalida  = errors.New("la cantidad debe ser mayor a cero")
)
