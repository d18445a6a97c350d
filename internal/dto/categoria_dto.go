package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Codigo int    `json:"codigo" validate:"required,gt=0"`
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

type ActualizarCategoriaRequest struct {
	Codigo *int    `json:"codigo" validate:"omitempty,gt=0"`
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID         uuid.UUID `json:"id"`
	Codigo     int       `json:"codigo"`
	Nombre     string    `json:"nombre"`
	EsEsencial bool      `json:"es_esencial"`
}
