package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProveedorRequest struct {
	Codigo   int     `json:"codigo"   validate:"required,gt=0"`
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=120"`
	Telefono *string `json:"telefono"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	ID         string  `json:"id"`
	Codigo     int     `json:"codigo"`
	Nombre     string  `json:"nombre"`
	Telefono   *string `json:"telefono"`
	Email      *string `json:"email"`
	EsEsencial bool    `json:"es_esencial"`
}
