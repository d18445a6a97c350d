package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the services react to.
const (
	codigoViolacionUnica = "23505"
	codigoViolacionCheck = "23514"
)

// IsUniqueViolation reports whether err comes from a UNIQUE constraint/index.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codigoViolacionUnica
}

// IsCheckViolation reports whether err comes from a CHECK constraint, such as
// chk_productos_stock_no_negativo.
func IsCheckViolation(err error) bool {
	return pgCode(err) == codigoViolacionCheck
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
