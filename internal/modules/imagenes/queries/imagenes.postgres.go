package queries

// ImagenQueries contiene las consultas de imágenes diagnósticas
var ImagenQueries = struct {
	Insertar               string
	BuscarPorID            string
	ListarRutasPorHistoria string
	EliminarPorHistoria    string
}{
	// Cada imagen pertenece a una historia además de la columna de
	// sección que la referencia; así el borrado de la historia puede
	// encontrarlas aunque la fila de sección ya no exista
	Insertar: `
		INSERT INTO "Imagenes" (
			"HistoriaClinicaID", "NombreArchivo", "Ruta", "TipoMime",
			"TamanoBytes", "SubidoPor", "CreadoEn"
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING "ImagenID";
	`,

	BuscarPorID: `
		SELECT "ImagenID", "NombreArchivo", "Ruta", "TipoMime", "TamanoBytes"
		FROM "Imagenes"
		WHERE "ImagenID" = $1;
	`,

	ListarRutasPorHistoria: `
		SELECT "Ruta" FROM "Imagenes" WHERE "HistoriaClinicaID" = $1;
	`,

	EliminarPorHistoria: `
		DELETE FROM "Imagenes" WHERE "HistoriaClinicaID" = $1;
	`,
}
