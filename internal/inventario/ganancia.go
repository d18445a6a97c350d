package inventario

import "github.com/shopspring/decimal"

// CalcularGanancia returns the profit of one order line.
//
//	venta, promo: precioTotal - descuentoTotal - costo*cantidad
//	devolucion:   precioTotal - descuentoTotal + costo*cantidad
//
// A return adds the cost back because it reverses the cost deduction of the
// sale it mirrors.
func CalcularGanancia(precioTotal, descuentoTotal, costo decimal.Decimal, cantidad int, tipo TipoLinea) (decimal.Decimal, error) {
	costoTotal := costo.Mul(decimal.NewFromInt(int64(cantidad)))
	neto := precioTotal.Sub(descuentoTotal)

	switch tipo {
	case TipoVenta, TipoPromo:
		return neto.Sub(costoTotal), nil
	case TipoDevolucion:
		return neto.Add(costoTotal), nil
	default:
		return decimal.Zero, ErrTipoLineaInvalido
	}
}
