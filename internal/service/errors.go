package service

import (
	"errors"

	"ventesca/internal/apierror"

	"gorm.io/gorm"
)

var (
	ErrProductoNoEncontrado  = apierror.Wrap(apierror.ErrNotFound, "producto no encontrado")
	ErrPedidoNoEncontrado    = apierror.Wrap(apierror.ErrNotFound, "pedido no encontrado")
	ErrLineaNoEncontrada     = apierror.Wrap(apierror.ErrNotFound, "línea de pedido no encontrada")
	ErrCategoriaNoEncontrada = apierror.Wrap(apierror.ErrNotFound, "categoría no encontrada")
	ErrProveedorNoEncontrado = apierror.Wrap(apierror.ErrNotFound, "proveedor no encontrado")

	ErrConflictoStock     = apierror.Wrap(apierror.ErrConflict, "el stock del producto cambió durante la operación, reintente")
	ErrTransicionInvalida = apierror.Wrap(apierror.ErrConflict, "el pedido no admite esta operación en su estado actual")
	ErrCodigoDuplicado    = apierror.Wrap(apierror.ErrConflict, "código ya registrado")
	ErrUsuarioDuplicado   = apierror.Wrap(apierror.ErrConflict, "el usuario ya existe")

	ErrEntidadEsencial = apierror.Wrap(apierror.ErrForbidden, "las entidades esenciales no pueden modificarse ni eliminarse")

	ErrCodigoReservado  = apierror.Wrap(apierror.ErrValidation, "el código debe ser mayor a cero")
	ErrCodigoProducto   = apierror.Wrap(apierror.ErrValidation, "código de producto inválido")
	ErrDatosProducto    = apierror.Wrap(apierror.ErrValidation, "datos de producto inválidos")
	ErrProductoInactivo = apierror.Wrap(apierror.ErrValidation, "el producto está inactivo y no puede venderse")
	ErrLineaInvalida    = apierror.Wrap(apierror.ErrValidation, "línea de pedido inválida")
	ErrPlanillaInvalida = apierror.Wrap(apierror.ErrValidation, "planilla inválida")
)

// notFound replaces gorm.ErrRecordNotFound with the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
