// Package planilla reads and writes the product import spreadsheet.
//
// Layout: one sheet, a fixed 7-column header on row 1 and one product per row
// from row 2 until the first empty Código. Two helper tables listing the
// business's categories and suppliers live at I7 and L7; the reader ignores
// every column after G.
package planilla

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"ventesca/internal/inventario"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const HojaProductos = "Productos"

// Encabezado is the exact header the generator writes and the reader expects.
var Encabezado = []string{
	"Código",
	"Nombre Producto",
	"Valor",
	"Precio Venta",
	"Stock Inicial",
	"Código Categoría",
	"Código Proveedor",
}

var (
	ErrArchivoInvalido    = errors.New("el archivo no es una planilla válida")
	ErrEncabezadoInvalido = errors.New("el encabezado de la planilla no coincide con la plantilla")
	ErrDemasiadasFilas    = errors.New("la planilla supera el máximo de filas permitido")
	ErrSinFilas           = errors.New("la planilla no contiene productos")
)

// LeerFilas parses the first sheet of the workbook in r. Values are returned
// raw; validation belongs to inventario.Conciliar.
func LeerFilas(r io.Reader, maxFilas int) ([]inventario.FilaImportacion, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchivoInvalido, err)
	}
	defer f.Close()

	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return nil, ErrArchivoInvalido
	}
	filas, err := f.GetRows(hojas[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchivoInvalido, err)
	}
	if len(filas) == 0 || !encabezadoValido(filas[0]) {
		return nil, ErrEncabezadoInvalido
	}

	var out []inventario.FilaImportacion
	for i, fila := range filas[1:] {
		celda := func(col int) string {
			if col < len(fila) {
				return strings.TrimSpace(fila[col])
			}
			return ""
		}
		if celda(0) == "" {
			break
		}
		if len(out) == maxFilas {
			return nil, fmt.Errorf("%w (%d)", ErrDemasiadasFilas, maxFilas)
		}
		out = append(out, inventario.FilaImportacion{
			Fila:            i + 2,
			Codigo:          celda(0),
			Nombre:          celda(1),
			Costo:           celda(2),
			PrecioVenta:     celda(3),
			Stock:           celda(4),
			CodigoCategoria: celda(5),
			CodigoProveedor: celda(6),
		})
	}
	if len(out) == 0 {
		return nil, ErrSinFilas
	}
	return out, nil
}

func encabezadoValido(fila []string) bool {
	if len(fila) < len(Encabezado) {
		return false
	}
	for i, esperado := range Encabezado {
		if normalizar(fila[i]) != normalizar(esperado) {
			return false
		}
	}
	return true
}

// normalizar folds accents, case and inner whitespace so "codigo  categoria"
// matches "Código Categoría".
func normalizar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plano, _, err := transform.String(t, s)
	if err != nil {
		plano = s
	}
	return strings.Join(strings.Fields(strings.ToLower(plano)), " ")
}

// EntradaAyuda is one row of a helper table.
type EntradaAyuda struct {
	Codigo int
	Nombre string
}

// GenerarPlantilla builds an empty import workbook with the header row and the
// helper tables filled in.
func GenerarPlantilla(categorias, proveedores []EntradaAyuda) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	hoja := f.GetSheetName(0)
	if err := f.SetSheetName(hoja, HojaProductos); err != nil {
		return nil, err
	}
	hoja = HojaProductos

	negrita, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, h := range Encabezado {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(hoja, celda, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(hoja, "A1", "G1", negrita); err != nil {
		return nil, err
	}

	if err := escribirTablaAyuda(f, hoja, "I", "J", "Categorías", categorias, negrita); err != nil {
		return nil, err
	}
	if err := escribirTablaAyuda(f, hoja, "L", "M", "Proveedores", proveedores, negrita); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// escribirTablaAyuda writes the title at row 7, the headers at row 8 and one
// entry per row below.
func escribirTablaAyuda(f *excelize.File, hoja, colCodigo, colNombre, titulo string, entradas []EntradaAyuda, estilo int) error {
	if err := f.SetCellValue(hoja, colCodigo+"7", titulo); err != nil {
		return err
	}
	if err := f.SetCellValue(hoja, colCodigo+"8", "Código"); err != nil {
		return err
	}
	if err := f.SetCellValue(hoja, colNombre+"8", "Nombre"); err != nil {
		return err
	}
	if err := f.SetCellStyle(hoja, colCodigo+"7", colNombre+"8", estilo); err != nil {
		return err
	}
	for i, e := range entradas {
		fila := 9 + i
		if err := f.SetCellValue(hoja, fmt.Sprintf("%s%d", colCodigo, fila), e.Codigo); err != nil {
			return err
		}
		if err := f.SetCellValue(hoja, fmt.Sprintf("%s%d", colNombre, fila), e.Nombre); err != nil {
			return err
		}
	}
	return nil
}
