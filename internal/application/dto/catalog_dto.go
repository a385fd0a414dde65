package dto

// CatalogListResponse la proyección de solo lectura del catálogo
// administrativo: tupla fija de columnas de presentación por entidad y las
// filas ya renderizadas (referencias resueltas al nombre del destino).
type CatalogListResponse struct {
	Entity  string       `json:"entity"`
	Columns []string     `json:"columns"`
	Rows    []CatalogRow `json:"rows"`
	Page    PageResponse `json:"page"`
}

// CatalogRow una fila del listado: id + valores de presentación en el mismo
// orden que Columns.
type CatalogRow struct {
	ID     int64    `json:"id"`
	Values []string `json:"values"`
}
