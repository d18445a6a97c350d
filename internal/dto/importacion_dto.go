package dto

// FilaImportacionResponse is the classification of one spreadsheet row.
type FilaImportacionResponse struct {
	Fila    int      `json:"fila"`
	Codigo  string   `json:"codigo"`
	Nombre  string   `json:"nombre"`
	Mensaje string   `json:"mensaje"`
	Campos  []string `json:"campos,omitempty"`
}

// ImportacionResponse is returned by POST /v1/productos/importar.
type ImportacionResponse struct {
	Creados      int                       `json:"creados"`
	Errores      []FilaImportacionResponse `json:"errores"`
	Advertencias []FilaImportacionResponse `json:"advertencias"`
	Exitos       []FilaImportacionResponse `json:"exitos"`
}
