package service

import (
	"context"
	"testing"

	"ventesca/internal/apierror"
	"ventesca/internal/dto"
	"ventesca/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Categorías ───────────────────────────────────────────────────────────────

func TestCrearCategoria(t *testing.T) {
	e := newEntorno()
	svc := NewCategoriaService(e.categorias, e.productos, e.defaults)
	ctx := context.Background()

	c, err := svc.Crear(ctx, e.negocioID, dto.CrearCategoriaRequest{Codigo: 7, Nombre: "Audio"})
	require.NoError(t, err)
	assert.Equal(t, 7, c.Codigo)
	assert.False(t, c.EsEsencial)

	_, err = svc.Crear(ctx, e.negocioID, dto.CrearCategoriaRequest{Codigo: 7, Nombre: "Otra"})
	assert.ErrorIs(t, err, ErrCodigoDuplicado)

	_, err = svc.Crear(ctx, e.negocioID, dto.CrearCategoriaRequest{Codigo: 0, Nombre: "Cero"})
	assert.ErrorIs(t, err, ErrCodigoReservado)

	_, err = svc.Crear(ctx, uuid.New(), dto.CrearCategoriaRequest{Codigo: 7, Nombre: "Otro negocio"})
	assert.NoError(t, err, "codes are unique per business")
}

func TestEliminarCategoria_ReasignaProductos(t *testing.T) {
	e := newEntorno()
	svc := NewCategoriaService(e.categorias, e.productos, e.defaults)
	ctx := context.Background()

	c, err := svc.Crear(ctx, e.negocioID, dto.CrearCategoriaRequest{Codigo: 2, Nombre: "Cables"})
	require.NoError(t, err)
	p1, p2 := e.producto(1, "1", "2"), e.producto(1, "1", "2")
	e.productos.productos[p1.ID].CategoriaID = c.ID
	e.productos.productos[p2.ID].CategoriaID = c.ID

	require.NoError(t, svc.Eliminar(ctx, e.negocioID, c.ID))

	fallback, _ := e.defaults.CategoriaDefault(ctx, e.negocioID)
	assert.Equal(t, fallback, e.productos.productos[p1.ID].CategoriaID)
	assert.Equal(t, fallback, e.productos.productos[p2.ID].CategoriaID)
	_, err = e.categorias.ObtenerPorID(ctx, e.negocioID, c.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.Eliminar(ctx, e.negocioID, c.ID), ErrCategoriaNoEncontrada)
}

func TestCategoriaEsencial_Protegida(t *testing.T) {
	e := newEntorno()
	svc := NewCategoriaService(e.categorias, e.productos, e.defaults)
	ctx := context.Background()

	id, err := e.defaults.CategoriaDefault(ctx, e.negocioID)
	require.NoError(t, err)

	err = svc.Eliminar(ctx, e.negocioID, id)
	assert.ErrorIs(t, err, ErrEntidadEsencial)
	assert.ErrorIs(t, err, apierror.ErrForbidden)

	_, err = svc.Actualizar(ctx, e.negocioID, id, dto.ActualizarCategoriaRequest{Nombre: ptr("Renombrada")})
	assert.ErrorIs(t, err, ErrEntidadEsencial)

	lista, err := svc.Listar(ctx, e.negocioID)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, model.NombreCategoriaEsencial, lista[0].Nombre)
	assert.True(t, lista[0].EsEsencial)
}

func TestActualizarCategoria(t *testing.T) {
	e := newEntorno()
	svc := NewCategoriaService(e.categorias, e.productos, e.defaults)
	ctx := context.Background()

	c, err := svc.Crear(ctx, e.negocioID, dto.CrearCategoriaRequest{Codigo: 5, Nombre: "Audio"})
	require.NoError(t, err)

	act, err := svc.Actualizar(ctx, e.negocioID, c.ID, dto.ActualizarCategoriaRequest{Codigo: ptr(6), Nombre: ptr("Sonido")})
	require.NoError(t, err)
	assert.Equal(t, 6, act.Codigo)
	assert.Equal(t, "Sonido", act.Nombre)

	_, err = svc.Actualizar(ctx, e.negocioID, c.ID, dto.ActualizarCategoriaRequest{Codigo: ptr(0)})
	assert.ErrorIs(t, err, ErrCodigoReservado)

	_, err = svc.Actualizar(ctx, uuid.New(), c.ID, dto.ActualizarCategoriaRequest{})
	assert.ErrorIs(t, err, ErrCategoriaNoEncontrada)
}

// ── Proveedores ──────────────────────────────────────────────────────────────

func TestProveedor_CRUD(t *testing.T) {
	e := newEntorno()
	svc := NewProveedorService(e.proveedores, e.productos, e.defaults)
	ctx := context.Background()

	p, err := svc.Crear(ctx, e.negocioID, dto.CrearProveedorRequest{Codigo: 3, Nombre: "Distribuidora Norte", Telefono: ptr("555-1234")})
	require.NoError(t, err)
	assert.Equal(t, "555-1234", *p.Telefono)

	_, err = svc.Crear(ctx, e.negocioID, dto.CrearProveedorRequest{Codigo: 3, Nombre: "Duplicado"})
	assert.ErrorIs(t, err, ErrCodigoDuplicado)
	_, err = svc.Crear(ctx, e.negocioID, dto.CrearProveedorRequest{Codigo: -1, Nombre: "Negativo"})
	assert.ErrorIs(t, err, ErrCodigoReservado)

	id := uuid.MustParse(p.ID)
	act, err := svc.Actualizar(ctx, e.negocioID, id, dto.CrearProveedorRequest{Codigo: 4, Nombre: "Distribuidora Sur"})
	require.NoError(t, err)
	assert.Equal(t, 4, act.Codigo)
	assert.Nil(t, act.Telefono)

	got, err := svc.ObtenerPorID(ctx, e.negocioID, id)
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Sur", got.Nombre)

	_, err = svc.ObtenerPorID(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, ErrProveedorNoEncontrado)
}

func TestEliminarProveedor_ReasignaYProtegeEsencial(t *testing.T) {
	e := newEntorno()
	svc := NewProveedorService(e.proveedores, e.productos, e.defaults)
	ctx := context.Background()

	p, err := svc.Crear(ctx, e.negocioID, dto.CrearProveedorRequest{Codigo: 8, Nombre: "Mayorista"})
	require.NoError(t, err)
	id := uuid.MustParse(p.ID)
	prod := e.producto(2, "1", "2")
	e.productos.productos[prod.ID].ProveedorID = id

	require.NoError(t, svc.Eliminar(ctx, e.negocioID, id))
	fallback, _ := e.defaults.ProveedorDefault(ctx, e.negocioID)
	assert.Equal(t, fallback, e.productos.productos[prod.ID].ProveedorID)

	err = svc.Eliminar(ctx, e.negocioID, fallback)
	assert.ErrorIs(t, err, ErrEntidadEsencial)
	_, err = svc.Actualizar(ctx, e.negocioID, fallback, dto.CrearProveedorRequest{Codigo: 9, Nombre: "Renombrado"})
	assert.ErrorIs(t, err, ErrEntidadEsencial)

	lista, err := svc.Listar(ctx, e.negocioID)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.True(t, lista[0].EsEsencial)
}
