package model

import (
	"time"

	"github.com/google/uuid"
)

// Negocio is the tenant every product, category, supplier and order belongs to.
type Negocio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	CreatedAt time.Time
}

func (Negocio) TableName() string { return "negocios" }

// Usuario stores system users with role-based access.
// Rol: "vendedor" | "administrador"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NegocioID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
