package inventario

import "github.com/shopspring/decimal"

// Money columns are numeric(12,2).
const DecimalesMonto = 2

// MontoMaximo is the largest amount a numeric(12,2) column can hold.
var MontoMaximo = decimal.RequireFromString("9999999999.99")

// MontoValido reports whether d can be stored without rounding or overflow:
// non-negative, at most two decimal places and not above MontoMaximo.
func MontoValido(d decimal.Decimal) bool {
	return !d.IsNegative() &&
		d.Equal(d.Round(DecimalesMonto)) &&
		d.LessThanOrEqual(MontoMaximo)
}
