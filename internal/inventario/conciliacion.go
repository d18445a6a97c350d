package inventario

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mensajes reported per row. They are shown to the user as-is.
const (
	MsgCodigoDuplicado = "Código ya registrado / duplicado en plantilla"
	MsgNombreInvalido  = "Nombre inválido"
	MsgCodigoInvalido  = "Código inválido"
	MsgValoresDefault  = "Se aplicaron valores predeterminados a campos con datos inválidos."
	MsgImportado       = "Producto importado correctamente"
)

// Campos that may be replaced by a default value.
const (
	CampoCategoria   = "categoria"
	CampoProveedor   = "proveedor"
	CampoStock       = "stock"
	CampoCosto       = "costo"
	CampoPrecioVenta = "precio_venta"
)

// FilaImportacion is one raw row of the product spreadsheet. Values are kept
// as text because any of them may be malformed.
type FilaImportacion struct {
	Fila            int
	Codigo          string
	Nombre          string
	Costo           string
	PrecioVenta     string
	Stock           string
	CodigoCategoria string
	CodigoProveedor string
}

// ContextoConciliacion holds the business data preloaded before reconciling.
type ContextoConciliacion struct {
	Categorias        map[int]uuid.UUID
	Proveedores       map[int]uuid.UUID
	CategoriaDefault  uuid.UUID
	ProveedorDefault  uuid.UUID
	CodigosExistentes map[string]struct{}
}

// ProductoNuevo is a validated row ready to be inserted.
type ProductoNuevo struct {
	Fila        int
	Codigo      string
	Nombre      string
	Costo       decimal.Decimal
	PrecioVenta decimal.Decimal
	Stock       int
	CategoriaID uuid.UUID
	ProveedorID uuid.UUID
	Activo      bool
}

type Clasificacion string

const (
	ClasificacionError       Clasificacion = "error"
	ClasificacionAdvertencia Clasificacion = "advertencia"
	ClasificacionExito       Clasificacion = "exito"
)

// ResultadoFila is the classification of one spreadsheet row.
type ResultadoFila struct {
	Fila          int
	Codigo        string
	Nombre        string
	Clasificacion Clasificacion
	Mensaje       string
	// Campos lists the fields that were replaced by defaults (warnings only).
	Campos []string
}

// Conciliacion is the outcome of reconciling a whole file.
type Conciliacion struct {
	ACrear       []ProductoNuevo
	Errores      []ResultadoFila
	Advertencias []ResultadoFila
	Exitos       []ResultadoFila
}

// Conciliar validates and classifies rows against the preloaded business data.
// Rows whose code is already taken (in the business or earlier in the file)
// or whose name is empty are rejected; every other row is accepted, with
// invalid fields replaced by defaults and reported as a warning.
func Conciliar(filas []FilaImportacion, ctx ContextoConciliacion) Conciliacion {
	var res Conciliacion
	vistos := make(map[string]struct{}, len(filas))

	for _, f := range filas {
		codigo := strings.TrimSpace(f.Codigo)
		nombre := strings.TrimSpace(f.Nombre)
		base := ResultadoFila{Fila: f.Fila, Codigo: codigo, Nombre: nombre}

		if codigo == "" {
			res.Errores = append(res.Errores, clasificar(base, ClasificacionError, MsgCodigoInvalido))
			continue
		}
		_, existe := ctx.CodigosExistentes[codigo]
		_, repetido := vistos[codigo]
		vistos[codigo] = struct{}{}
		if existe || repetido {
			res.Errores = append(res.Errores, clasificar(base, ClasificacionError, MsgCodigoDuplicado))
			continue
		}

		if nombre == "" {
			res.Errores = append(res.Errores, clasificar(base, ClasificacionError, MsgNombreInvalido))
			continue
		}

		var defaults []string
		categoriaID, ok := resolverCodigo(f.CodigoCategoria, ctx.Categorias)
		if !ok {
			categoriaID = ctx.CategoriaDefault
			defaults = append(defaults, CampoCategoria)
		}
		proveedorID, ok := resolverCodigo(f.CodigoProveedor, ctx.Proveedores)
		if !ok {
			proveedorID = ctx.ProveedorDefault
			defaults = append(defaults, CampoProveedor)
		}

		stock, ok := parsearEntero(f.Stock)
		if !ok {
			defaults = append(defaults, CampoStock)
		}
		costo, ok := parsearMonto(f.Costo)
		if !ok {
			defaults = append(defaults, CampoCosto)
		}
		precioVenta, ok := parsearMonto(f.PrecioVenta)
		if !ok {
			defaults = append(defaults, CampoPrecioVenta)
		}

		res.ACrear = append(res.ACrear, ProductoNuevo{
			Fila:        f.Fila,
			Codigo:      codigo,
			Nombre:      nombre,
			Costo:       costo,
			PrecioVenta: precioVenta,
			Stock:       stock,
			CategoriaID: categoriaID,
			ProveedorID: proveedorID,
			Activo:      EsActivo(costo, precioVenta, stock),
		})

		if len(defaults) > 0 {
			r := clasificar(base, ClasificacionAdvertencia, MsgValoresDefault)
			r.Campos = defaults
			res.Advertencias = append(res.Advertencias, r)
			continue
		}
		res.Exitos = append(res.Exitos, clasificar(base, ClasificacionExito, MsgImportado))
	}
	return res
}

// EsActivo reports whether a product can be sold: it needs a cost, a selling
// price and stock on hand.
func EsActivo(costo, precioVenta decimal.Decimal, stock int) bool {
	return costo.IsPositive() && precioVenta.IsPositive() && stock > 0
}

func clasificar(r ResultadoFila, c Clasificacion, msg string) ResultadoFila {
	r.Clasificacion = c
	r.Mensaje = msg
	return r
}

func resolverCodigo(raw string, conocidos map[int]uuid.UUID) (uuid.UUID, bool) {
	codigo, ok := parsearEntero(raw)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := conocidos[codigo]
	return id, ok
}

// parsearMonto accepts amounts that fit a money column (see MontoValido).
// Invalid input yields zero.
func parsearMonto(raw string) (decimal.Decimal, bool) {
	d, ok := parsearDecimal(raw)
	if !ok || !MontoValido(d) {
		return decimal.Zero, false
	}
	return d, true
}

func parsearDecimal(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// parsearEntero accepts non-negative whole numbers, including "10.0" as
// spreadsheets often render them. Invalid input yields zero.
func parsearEntero(raw string) (int, bool) {
	d, ok := parsearDecimal(raw)
	if !ok || !d.IsInteger() || !d.LessThanOrEqual(decimal.NewFromInt(maxEntero)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

const maxEntero = 1<<31 - 1
