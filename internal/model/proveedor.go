package model

import (
	"time"

	"github.com/google/uuid"
)

const NombreProveedorEsencial = "Proveedor Propio"

// Proveedor represents a supplier of a business.
type Proveedor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proveedores_negocio_codigo,priority:1"`
	Codigo     int       `gorm:"not null;uniqueIndex:idx_proveedores_negocio_codigo,priority:2"`
	Nombre     string    `gorm:"not null"`
	Telefono   *string
	Email      *string
	EsEsencial bool `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Productos []Producto `gorm:"foreignKey:ProveedorID"`
}

func (Proveedor) TableName() string { return "proveedores" }
