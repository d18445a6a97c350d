package handler

import (
	"net/http"

	"ventesca/internal/dto"
	"ventesca/internal/middleware"
	"ventesca/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear POST /v1/categorias
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
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

// Listar GET /v1/categorias
func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.NegocioID(c))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/categorias/:id
func (h *CategoriasHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCategoriaRequest
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

// Eliminar DELETE /v1/categorias/:id
// Products of the category move to the essential category.
func (h *CategoriasHandler) Eliminar(c *gin.Context) {
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
