package inventario

// LimitarDeltaStock floors the resulting stock at zero: when actual+delta would
// be negative it returns -actual, otherwise delta unchanged.
//
// Stock is never allowed to go negative, even when historical data is already
// inconsistent (actual < 0 yields a delta that lands exactly on zero).
func LimitarDeltaStock(actual, delta int) int {
	if actual+delta < 0 {
		return -actual
	}
	return delta
}
