package infra

import (
	"fmt"

	"ventesca/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the
// schema up to date with RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table with AutoMigrate and then
// applies the idempotent patches GORM cannot express. Integration tests call
// it directly against their container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Negocio{},
		&model.Usuario{},
		&model.Categoria{},
		&model.Proveedor{},
		&model.Producto{},
		&model.ProductoAnalitica{},
		&model.Pedido{},
		&model.ProductoPedido{},
		&model.MovimientoStock{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express through struct tags (partial indexes, sorted composite indexes).
// The stock CHECK comes from the check tag on model.Producto.Stock, which
// AutoMigrate adds to existing tables too.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one essential category / supplier per business. Arbiter of
		// the ON CONFLICT DO NOTHING upsert in the repositories.
		{"uq_categorias_esencial",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_categorias_esencial ON categorias (negocio_id) WHERE es_esencial`},
		{"uq_proveedores_esencial",
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_proveedores_esencial ON proveedores (negocio_id) WHERE es_esencial`},
		{"idx_pedidos_negocio_created",
			`CREATE INDEX IF NOT EXISTS idx_pedidos_negocio_created ON pedidos (negocio_id, created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
