package queries

// ComentarioQueries contiene las consultas del hilo de comentarios
var ComentarioQueries = struct {
	ListarPorHistoria        string
	ListarRespuestas         string
	InsertarComentario       string
	InsertarRespuesta        string
	GetComentario            string
	BuscarProfesorPorUsuario string
	ProvisionarProfesor      string

	EliminarRespuestasPorHistoria  string
	EliminarComentariosPorHistoria string
}{
	// Comentarios ordenados por creación ascendente
	ListarPorHistoria: `
		SELECT c."ComentarioID", c."ProfesorInfoID",
		       pi."Nombre" || ' ' || pi."ApellidoPaterno" AS profesor,
		       c."Texto", c."CreadoEn"
		FROM "ComentariosProfesor" c
		LEFT JOIN "ProfesoresInfo" pi ON pi."ProfesorInfoID" = c."ProfesorInfoID"
		WHERE c."HistoriaClinicaID" = $1
		ORDER BY c."CreadoEn" ASC;
	`,

	// Respuestas de todos los comentarios de la historia, en un solo viaje
	ListarRespuestas: `
		SELECT r."RespuestaID", r."ComentarioID", r."AlumnoID",
		       r."Texto", r."CreadoEn"
		FROM "RespuestasComentarios" r
		JOIN "ComentariosProfesor" c ON c."ComentarioID" = r."ComentarioID"
		WHERE c."HistoriaClinicaID" = $1
		ORDER BY r."CreadoEn" ASC;
	`,

	InsertarComentario: `
		INSERT INTO "ComentariosProfesor" (
			"HistoriaClinicaID", "ProfesorInfoID", "Texto", "CreadoEn"
		) VALUES ($1, $2, $3, NOW())
		RETURNING "ComentarioID", "CreadoEn";
	`,

	InsertarRespuesta: `
		INSERT INTO "RespuestasComentarios" (
			"ComentarioID", "AlumnoID", "Texto", "CreadoEn"
		) VALUES ($1, $2, $3, NOW())
		RETURNING "RespuestaID", "CreadoEn";
	`,

	GetComentario: `
		SELECT "ComentarioID", "HistoriaClinicaID"
		FROM "ComentariosProfesor"
		WHERE "ComentarioID" = $1;
	`,

	BuscarProfesorPorUsuario: `
		SELECT "ProfesorInfoID" FROM "ProfesoresInfo" WHERE "UsuarioID" = $1;
	`,

	// ProvisionarProfesor materializa al admin como profesor la primera vez
	// que comenta, para compartir el modelo de autoría
	ProvisionarProfesor: `
		INSERT INTO "ProfesoresInfo" (
			"UsuarioID", "Nombre", "ApellidoPaterno", "CreadoEn"
		)
		SELECT u."UsuarioID", u."Nombre", COALESCE(u."ApellidoPaterno", 'Admin'), NOW()
		FROM "Usuarios" u
		WHERE u."UsuarioID" = $1
		RETURNING "ProfesorInfoID";
	`,

	// Las respuestas se eliminan antes que los comentarios por la FK
	EliminarRespuestasPorHistoria: `
		DELETE FROM "RespuestasComentarios" r
		USING "ComentariosProfesor" c
		WHERE r."ComentarioID" = c."ComentarioID"
		  AND c."HistoriaClinicaID" = $1;
	`,

	EliminarComentariosPorHistoria: `
		DELETE FROM "ComentariosProfesor" WHERE "HistoriaClinicaID" = $1;
	`,
}
