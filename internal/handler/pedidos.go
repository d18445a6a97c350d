package handler

import (
	"context"
	"net/http"

	"ventesca/internal/dto"
	"ventesca/internal/middleware"
	"ventesca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler { return &PedidosHandler{svc: svc} }

// Crear godoc
// @Summary      Abrir pedido
// @Description  Crea un pedido pendiente a nombre del usuario autenticado. El stock no se mueve hasta finalizarlo.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object} dto.PedidoResponse
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	resp, err := h.svc.Crear(c.Request.Context(), middleware.NegocioID(c), middleware.UserID(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	filter.NegocioID = middleware.NegocioID(c)
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), middleware.NegocioID(c), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarLinea godoc
// @Summary      Agregar línea
// @Description  Solo en pedidos pendientes. La ganancia de la línea se calcula con los precios actuales del producto.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del pedido"
// @Param        body body dto.AgregarLineaRequest true "Línea"
// @Success      200  {object} dto.PedidoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/lineas [post]
func (h *PedidosHandler) AgregarLinea(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarLinea(c.Request.Context(), middleware.NegocioID(c), id, req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) QuitarLinea(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	lineaID, ok := paramID(c, "linea_id")
	if !ok {
		return
	}
	resp, err := h.svc.QuitarLinea(c.Request.Context(), middleware.NegocioID(c), id, lineaID)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary      Finalizar pedido
// @Description  Aplica todas las líneas al stock y a las analíticas en una transacción. "ajustes" informa los productos cuyo stock quedó en cero.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      200  {object} dto.PedidoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/finalizar [post]
func (h *PedidosHandler) Finalizar(c *gin.Context) {
	h.transicion(c, h.svc.Finalizar)
}

// Descartar POST /v1/pedidos/:id/descartar reverts a finalized order.
func (h *PedidosHandler) Descartar(c *gin.Context) {
	h.transicion(c, h.svc.Descartar)
}

// Restaurar POST /v1/pedidos/:id/restaurar re-applies a discarded order.
func (h *PedidosHandler) Restaurar(c *gin.Context) {
	h.transicion(c, h.svc.Restaurar)
}

// Eliminar DELETE /v1/pedidos/:id removes the order, reversing it first when
// finished. The response lists lines whose reversal hit the zero floor.
func (h *PedidosHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), middleware.NegocioID(c), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type transicionFunc func(ctx context.Context, negocioID, id uuid.UUID) (*dto.PedidoResponse, error)

func (h *PedidosHandler) transicion(c *gin.Context, fn transicionFunc) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), middleware.NegocioID(c), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
