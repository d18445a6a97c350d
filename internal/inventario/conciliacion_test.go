package inventario

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureConciliacion struct {
	ctx        ContextoConciliacion
	catBebidas uuid.UUID
	provDos    uuid.UUID
}

func nuevoFixture() fixtureConciliacion {
	f := fixtureConciliacion{catBebidas: uuid.New(), provDos: uuid.New()}
	f.ctx = ContextoConciliacion{
		Categorias:        map[int]uuid.UUID{1: f.catBebidas},
		Proveedores:       map[int]uuid.UUID{2: f.provDos},
		CategoriaDefault:  uuid.New(),
		ProveedorDefault:  uuid.New(),
		CodigosExistentes: map[string]struct{}{"100": {}},
	}
	return f
}

func filaValida(fila int, codigo string) FilaImportacion {
	return FilaImportacion{
		Fila: fila, Codigo: codigo, Nombre: "Teclado",
		Costo: "1000", PrecioVenta: "1500", Stock: "10",
		CodigoCategoria: "1", CodigoProveedor: "2",
	}
}

func TestConciliar_FilaValida(t *testing.T) {
	f := nuevoFixture()
	res := Conciliar([]FilaImportacion{filaValida(2, "7")}, f.ctx)

	require.Len(t, res.ACrear, 1)
	assert.Empty(t, res.Errores)
	assert.Empty(t, res.Advertencias)
	require.Len(t, res.Exitos, 1)
	assert.Equal(t, MsgImportado, res.Exitos[0].Mensaje)

	p := res.ACrear[0]
	assert.Equal(t, "7", p.Codigo)
	assert.Equal(t, f.catBebidas, p.CategoriaID)
	assert.Equal(t, f.provDos, p.ProveedorID)
	assert.Equal(t, 10, p.Stock)
	assert.True(t, p.Activo)
}

func TestConciliar_CodigoExistenteSeRechaza(t *testing.T) {
	f := nuevoFixture()
	res := Conciliar([]FilaImportacion{filaValida(2, "100")}, f.ctx)

	assert.Empty(t, res.ACrear)
	require.Len(t, res.Errores, 1)
	assert.Equal(t, MsgCodigoDuplicado, res.Errores[0].Mensaje)
	assert.Equal(t, ClasificacionError, res.Errores[0].Clasificacion)
}

func TestConciliar_CodigoRepetidoEnPlantilla(t *testing.T) {
	f := nuevoFixture()
	res := Conciliar([]FilaImportacion{filaValida(2, "8"), filaValida(3, " 8 ")}, f.ctx)

	require.Len(t, res.ACrear, 1)
	assert.Equal(t, 2, res.ACrear[0].Fila)
	require.Len(t, res.Errores, 1)
	assert.Equal(t, 3, res.Errores[0].Fila)
	assert.Equal(t, MsgCodigoDuplicado, res.Errores[0].Mensaje)
}

func TestConciliar_CodigoDeFilaRechazadaTambienCuentaComoVisto(t *testing.T) {
	f := nuevoFixture()
	sinNombre := filaValida(2, "9")
	sinNombre.Nombre = "   "
	res := Conciliar([]FilaImportacion{sinNombre, filaValida(3, "9")}, f.ctx)

	assert.Empty(t, res.ACrear)
	require.Len(t, res.Errores, 2)
	assert.Equal(t, MsgNombreInvalido, res.Errores[0].Mensaje)
	assert.Equal(t, MsgCodigoDuplicado, res.Errores[1].Mensaje)
}

func TestConciliar_NombreVacioSeRechaza(t *testing.T) {
	f := nuevoFixture()
	fila := filaValida(2, "11")
	fila.Nombre = ""
	res := Conciliar([]FilaImportacion{fila}, f.ctx)

	assert.Empty(t, res.ACrear)
	require.Len(t, res.Errores, 1)
	assert.Equal(t, MsgNombreInvalido, res.Errores[0].Mensaje)
}

func TestConciliar_CategoriaInvalidaUsaDefault(t *testing.T) {
	f := nuevoFixture()
	fila := FilaImportacion{
		Fila: 2, Codigo: "5", Nombre: "Mouse",
		Costo: "1000", PrecioVenta: "1500", Stock: "10",
		CodigoCategoria: "bad", CodigoProveedor: "2",
	}
	res := Conciliar([]FilaImportacion{fila}, f.ctx)

	require.Len(t, res.ACrear, 1)
	assert.Equal(t, f.ctx.CategoriaDefault, res.ACrear[0].CategoriaID)
	assert.Equal(t, f.provDos, res.ACrear[0].ProveedorID)
	require.Len(t, res.Advertencias, 1)
	assert.Equal(t, "Se aplicaron valores predeterminados a campos con datos inválidos.", res.Advertencias[0].Mensaje)
	assert.Equal(t, []string{CampoCategoria}, res.Advertencias[0].Campos)
	assert.Empty(t, res.Exitos)
}

func TestConciliar_CodigosDeClasificacion(t *testing.T) {
	f := nuevoFixture()
	casos := map[string]bool{
		"1":   true,
		"1.0": true,
		" 1 ": true,
		"-1":  false,
		"1.5": false,
		"99":  false,
		"":    false,
		"uno": false,
	}
	for raw, valido := range casos {
		fila := filaValida(2, "X")
		fila.CodigoCategoria = raw
		res := Conciliar([]FilaImportacion{fila}, f.ctx)
		require.Len(t, res.ACrear, 1, raw)
		if valido {
			assert.Equal(t, f.catBebidas, res.ACrear[0].CategoriaID, raw)
		} else {
			assert.Equal(t, f.ctx.CategoriaDefault, res.ACrear[0].CategoriaID, raw)
		}
	}
}

func TestConciliar_ValoresInvalidosSeAgreganEnUnaAdvertencia(t *testing.T) {
	f := nuevoFixture()
	fila := FilaImportacion{
		Fila: 4, Codigo: "12", Nombre: "Cable",
		Costo: "-5", PrecioVenta: "abc", Stock: "3.5",
		CodigoCategoria: "", CodigoProveedor: "x",
	}
	res := Conciliar([]FilaImportacion{fila}, f.ctx)

	require.Len(t, res.ACrear, 1)
	p := res.ACrear[0]
	assert.True(t, p.Costo.IsZero())
	assert.True(t, p.PrecioVenta.IsZero())
	assert.Equal(t, 0, p.Stock)
	assert.False(t, p.Activo)

	require.Len(t, res.Advertencias, 1)
	assert.ElementsMatch(t,
		[]string{CampoCategoria, CampoProveedor, CampoStock, CampoCosto, CampoPrecioVenta},
		res.Advertencias[0].Campos)
}

func TestConciliar_ActivoSegunValores(t *testing.T) {
	f := nuevoFixture()
	casos := []struct {
		costo, venta, stock string
		activo              bool
	}{
		{"10", "12", "1", true},
		{"0", "12", "1", false},
		{"10", "0", "1", false},
		{"10", "12", "0", false},
	}
	for i, c := range casos {
		fila := filaValida(i+2, "A"+c.costo+c.venta+c.stock)
		fila.Costo, fila.PrecioVenta, fila.Stock = c.costo, c.venta, c.stock
		res := Conciliar([]FilaImportacion{fila}, f.ctx)
		require.Len(t, res.ACrear, 1)
		assert.Equal(t, c.activo, res.ACrear[0].Activo, "caso %d", i)
		assert.Equal(t, EsActivo(res.ACrear[0].Costo, res.ACrear[0].PrecioVenta, res.ACrear[0].Stock), res.ACrear[0].Activo)
	}
}

func TestConciliar_MontosFueraDeLaColumnaUsanDefault(t *testing.T) {
	f := nuevoFixture()
	casos := []struct {
		costo, venta string
		campos       []string
	}{
		{"0.004", "12", []string{CampoCosto}},
		{"123456789012", "12", []string{CampoCosto}},
		{"10", "12.345", []string{CampoPrecioVenta}},
		{"10", "10000000000", []string{CampoPrecioVenta}},
		{"9999999999.99", "0.10", nil},
		{"10.50", "12.5000", nil},
	}
	for i, c := range casos {
		fila := filaValida(i+2, "M"+c.costo+"-"+c.venta)
		fila.Costo, fila.PrecioVenta = c.costo, c.venta
		res := Conciliar([]FilaImportacion{fila}, f.ctx)

		require.Len(t, res.ACrear, 1, "caso %d", i)
		p := res.ACrear[0]
		assert.True(t, MontoValido(p.Costo), "caso %d", i)
		assert.True(t, MontoValido(p.PrecioVenta), "caso %d", i)
		assert.Equal(t, EsActivo(p.Costo, p.PrecioVenta, p.Stock), p.Activo, "caso %d", i)
		if c.campos == nil {
			assert.Empty(t, res.Advertencias, "caso %d", i)
			assert.True(t, p.Activo, "caso %d", i)
			continue
		}
		require.Len(t, res.Advertencias, 1, "caso %d", i)
		assert.Equal(t, c.campos, res.Advertencias[0].Campos, "caso %d", i)
		assert.False(t, p.Activo, "caso %d", i)
	}
}

func TestMontoValido(t *testing.T) {
	casos := map[string]bool{
		"0":             true,
		"0.01":          true,
		"12.50":         true,
		"12.5000":       true,
		"9999999999.99": true,
		"0.004":         false,
		"1.999":         false,
		"10000000000":   false,
		"-0.01":         false,
	}
	for raw, valido := range casos {
		assert.Equal(t, valido, MontoValido(decimal.RequireFromString(raw)), raw)
	}
}
