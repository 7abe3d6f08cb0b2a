package queries

// CatalogoQueries contiene las consultas sobre la tabla de catálogos generales
var CatalogoQueries = struct {
	BuscarPorGrupoYNombre string
	ListarActivos         string
}{
	BuscarPorGrupoYNombre: `
		SELECT "CatalogoID"
		FROM "CatalogosGenerales"
		WHERE "Grupo" = $1 AND "Nombre" = $2 AND "Activo" = true
		LIMIT 1;
	`,

	ListarActivos: `
		SELECT "CatalogoID", "Grupo", "Nombre", "Orden"
		FROM "CatalogosGenerales"
		WHERE "Activo" = true
		ORDER BY "Grupo" ASC, "Orden" ASC, "Nombre" ASC;
	`,
}
