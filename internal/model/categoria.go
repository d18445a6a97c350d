package model

import (
	"time"

	"github.com/google/uuid"
)

// Codigo and name of the essential category every business falls back to.
const (
	CodigoEsencial          = 0
	NombreCategoriaEsencial = "General"
)

// Categoria classifies products within a business.
// EsEsencial marks the protected fallback instance (at most one per business,
// enforced by the partial unique index uq_categorias_esencial).
type Categoria struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categorias_negocio_codigo,priority:1"`
	Codigo     int       `gorm:"not null;uniqueIndex:idx_categorias_negocio_codigo,priority:2"`
	Nombre     string    `gorm:"not null"`
	EsEsencial bool      `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
