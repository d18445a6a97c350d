package inventario

import "github.com/shopspring/decimal"

// Efecto is the per-unit sign of a line's effect on each counter (-1, 0 or +1).
type Efecto struct {
	Stock        int
	Ventas       int
	Ganancia     int
	Devoluciones int
}

var (
	efectoVenta      = Efecto{Stock: -1, Ventas: +1, Ganancia: +1}
	efectoDevolucion = Efecto{Stock: +1, Ventas: -1, Ganancia: -1, Devoluciones: +1}
)

func invertir(e Efecto) Efecto {
	return Efecto{Stock: -e.Stock, Ventas: -e.Ventas, Ganancia: -e.Ganancia, Devoluciones: -e.Devoluciones}
}

// TablaDeltas maps every (Accion, TipoLinea) pair to its per-unit effect.
// Eliminar and Descartar undo whatever Crear did; Restaurar re-applies it.
var TablaDeltas = map[Accion]map[TipoLinea]Efecto{
	AccionCrear: {
		TipoVenta:      efectoVenta,
		TipoPromo:      efectoVenta,
		TipoDevolucion: efectoDevolucion,
	},
	AccionEliminar: {
		TipoVenta:      invertir(efectoVenta),
		TipoPromo:      invertir(efectoVenta),
		TipoDevolucion: invertir(efectoDevolucion),
	},
	AccionDescartar: {
		TipoVenta:      invertir(efectoVenta),
		TipoPromo:      invertir(efectoVenta),
		TipoDevolucion: invertir(efectoDevolucion),
	},
	AccionRestaurar: {
		TipoVenta:      efectoVenta,
		TipoPromo:      efectoVenta,
		TipoDevolucion: efectoDevolucion,
	},
}

// Deltas are the absolute changes a line applies to a product and its analytics.
type Deltas struct {
	Stock        int
	Ventas       int
	Ganancia     decimal.Decimal
	Devoluciones int
}

// CalcularDeltas resolves the effect of accion on a line of the given tipo and
// cantidad. Profit moves by (precioVenta - costo) * cantidad.
func CalcularDeltas(accion Accion, tipo TipoLinea, cantidad int, precioVenta, costo decimal.Decimal) (Deltas, error) {
	porTipo, ok := TablaDeltas[accion]
	if !ok {
		return Deltas{}, ErrAccionInvalida
	}
	efecto, ok := porTipo[tipo]
	if !ok {
		return Deltas{}, ErrTipoLineaInvalido
	}
	if cantidad <= 0 {
		return Deltas{}, ErrCantidadInvalida
	}

	gananciaTotal := precioVenta.Sub(costo).Mul(decimal.NewFromInt(int64(cantidad)))
	return Deltas{
		Stock:        efecto.Stock * cantidad,
		Ventas:       efecto.Ventas * cantidad,
		Ganancia:     gananciaTotal.Mul(decimal.NewFromInt(int64(efecto.Ganancia))),
		Devoluciones: efecto.Devoluciones * cantidad,
	}, nil
}

// Linea is the slice of an order line the ledger needs.
type Linea struct {
	Cantidad       int
	Tipo           TipoLinea
	PrecioTotal    decimal.Decimal
	DescuentoTotal decimal.Decimal
}

// Snapshot is the product state read inside the caller's transaction.
type Snapshot struct {
	Stock       int
	PrecioCosto decimal.Decimal
	PrecioVenta decimal.Decimal
}

// Resultado is the outcome of applying one action to one line.
type Resultado struct {
	Deltas
	// StockSolicitado is the stock delta before the zero floor was applied.
	StockSolicitado int
	// Ajustado is set when the floor absorbed part of the delta. A later
	// inverse action will not restore the previous stock exactly.
	Ajustado bool
	// GananciaLinea is the recomputed profit to persist on the line.
	GananciaLinea decimal.Decimal
}

// Aplicar computes the deltas of accion over linea against the current product
// state, floors the stock delta at zero and recomputes the line profit.
func Aplicar(linea Linea, accion Accion, producto Snapshot) (Resultado, error) {
	deltas, err := CalcularDeltas(accion, linea.Tipo, linea.Cantidad, producto.PrecioVenta, producto.PrecioCosto)
	if err != nil {
		return Resultado{}, err
	}
	ganancia, err := CalcularGanancia(linea.PrecioTotal, linea.DescuentoTotal, producto.PrecioCosto, linea.Cantidad, linea.Tipo)
	if err != nil {
		return Resultado{}, err
	}

	solicitado := deltas.Stock
	deltas.Stock = LimitarDeltaStock(producto.Stock, solicitado)

	return Resultado{
		Deltas:          deltas,
		StockSolicitado: solicitado,
		Ajustado:        deltas.Stock != solicitado,
		GananciaLinea:   ganancia,
	}, nil
}
