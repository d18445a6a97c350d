// Command seeduser creates a business with its administrator and essential
// category/supplier.
// Uso: go run ./cmd/seeduser -negocio "Mi Kiosco" -usuario admin -password secreto123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ventesca/internal/config"
	"ventesca/internal/dto"
	"ventesca/internal/infra"
	"ventesca/internal/model"
	"ventesca/internal/repository"
	"ventesca/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	negocio := flag.String("negocio", "Negocio Demo", "nombre del negocio")
	username := flag.String("usuario", "admin", "username del administrador")
	password := flag.String("password", "", "password del administrador (min 8)")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("-password es obligatorio y debe tener al menos 8 caracteres")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()
	usuarios := repository.NewUsuarioRepository(db)

	n := &model.Negocio{ID: uuid.New(), Nombre: *negocio}
	if err := usuarios.CreateNegocio(ctx, n); err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el negocio")
	}

	// Essential entities exist from day one so the import template lists them.
	defaults := service.NewEntidadesDefaultService(
		repository.NewCategoriaRepository(db), repository.NewProveedorRepository(db), nil, 0)
	if _, err := defaults.CategoriaDefault(ctx, n.ID); err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear la categoría esencial")
	}
	if _, err := defaults.ProveedorDefault(ctx, n.ID); err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el proveedor esencial")
	}

	auth := service.NewAuthService(usuarios, cfg)
	u, err := auth.CrearUsuario(ctx, n.ID, dto.CrearUsuarioRequest{
		Username: *username,
		Nombre:   *nombre,
		Password: *password,
		Rol:      "administrador",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo crear el usuario")
	}
	fmt.Printf("Negocio %s (%s) con administrador '%s'\n", n.Nombre, n.ID, u.Username)
}
