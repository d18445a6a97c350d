package handler

import (
	"net/http"

	"ventesca/internal/apierror"
	"ventesca/internal/dto"
	"ventesca/internal/middleware"
	"ventesca/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductosHandler struct {
	svc         service.ProductoService
	importacion service.ImportacionService
	maxBytes    int64
}

func NewProductosHandler(svc service.ProductoService, importacion service.ImportacionService, maxBytes int64) *ProductosHandler {
	return &ProductosHandler{svc: svc, importacion: importacion, maxBytes: maxBytes}
}

// Crear godoc
// @Summary      Crear producto
// @Description  Sin categoría o proveedor válidos se asignan las entidades esenciales del negocio.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.NegocioID(c), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
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

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
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

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.NegocioID(c), id, req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.NegocioID(c), id); err != nil {
		fallar(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListarMovimientos GET /v1/productos/:id/movimientos
func (h *ProductosHandler) ListarMovimientos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var filter dto.MovimientosFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), middleware.NegocioID(c), id, filter)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Importar godoc
// @Summary      Importar productos desde planilla
// @Description  Clasifica cada fila en error, advertencia o éxito y crea los productos válidos en una sola transacción.
// @Tags         productos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        archivo formData file true "Planilla .xlsx"
// @Success      200  {object} dto.ImportacionResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/productos/importar [post]
func (h *ProductosHandler) Importar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Se requiere el archivo en el campo 'archivo'"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	resp, err := h.importacion.ImportarProductos(c.Request.Context(), middleware.NegocioID(c), f)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Plantilla GET /v1/productos/plantilla
func (h *ProductosHandler) Plantilla(c *gin.Context) {
	buf, err := h.importacion.GenerarPlantilla(c.Request.Context(), middleware.NegocioID(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="plantilla_productos.xlsx"`)
	c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
}
