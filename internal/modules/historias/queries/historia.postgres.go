package queries

// HistoriaQueries contiene las consultas SQL del agregado historia clínica.
// El esquema es heredado: tablas y columnas PascalCase, siempre citadas.
var HistoriaQueries = struct {
	InsertHistoria      string
	GetRaizComoAdmin    string
	GetRaizComoAlumno   string
	GetRaizComoProfesor string
	GetAcceso           string
	BumpActualizadoEn   string
	CambiarEstado       string
	Archivar            string
	Desarchivar         string
	Eliminar            string
	ListarComoAdmin     string
	ListarComoAlumno    string
	ListarComoProfesor  string
}{
	// InsertHistoria crea la raíz del agregado con su estado inicial
	InsertHistoria: `
		INSERT INTO "HistoriasClinicas" (
			"PacienteID", "AlumnoID", "MateriaProfesorID",
			"ConsultorioID", "PeriodoEscolarID", "EstadoID",
			"Archivado", "CreadoEn", "ActualizadoEn"
		) VALUES ($1, $2, $3, $4, $5, $6, false, NOW(), NOW())
		RETURNING "HistoriaClinicaID", "CreadoEn", "ActualizadoEn";
	`,

	// GetRaizComoAdmin - sin filtro de pertenencia
	GetRaizComoAdmin: `
		SELECT h."HistoriaClinicaID", h."PacienteID", h."AlumnoID",
		       h."MateriaProfesorID", h."ConsultorioID", h."PeriodoEscolarID",
		       h."EstadoID", h."Archivado", h."FechaArchivado",
		       h."CreadoEn", h."ActualizadoEn",
		       p."PacienteID", p."Nombre", p."ApellidoPaterno", p."ApellidoMaterno",
		       p."GeneroID", p."Edad", p."CURP", p."Correo", p."Telefono",
		       p."Direccion", p."Ocupacion"
		FROM "HistoriasClinicas" h
		JOIN "Pacientes" p ON p."PacienteID" = h."PacienteID"
		WHERE h."HistoriaClinicaID" = $1;
	`,

	// GetRaizComoAlumno - el filtro de titularidad va en el JOIN para que
	// una historia ajena sea indistinguible de una inexistente
	GetRaizComoAlumno: `
		SELECT h."HistoriaClinicaID", h."PacienteID", h."AlumnoID",
		       h."MateriaProfesorID", h."ConsultorioID", h."PeriodoEscolarID",
		       h."EstadoID", h."Archivado", h."FechaArchivado",
		       h."CreadoEn", h."ActualizadoEn",
		       p."PacienteID", p."Nombre", p."ApellidoPaterno", p."ApellidoMaterno",
		       p."GeneroID", p."Edad", p."CURP", p."Correo", p."Telefono",
		       p."Direccion", p."Ocupacion"
		FROM "HistoriasClinicas" h
		JOIN "Pacientes" p ON p."PacienteID" = h."PacienteID"
		WHERE h."HistoriaClinicaID" = $1 AND h."AlumnoID" = $2;
	`,

	// GetRaizComoProfesor - visible solo si la asignación docente es suya
	GetRaizComoProfesor: `
		SELECT h."HistoriaClinicaID", h."PacienteID", h."AlumnoID",
		       h."MateriaProfesorID", h."ConsultorioID", h."PeriodoEscolarID",
		       h."EstadoID", h."Archivado", h."FechaArchivado",
		       h."CreadoEn", h."ActualizadoEn",
		       p."PacienteID", p."Nombre", p."ApellidoPaterno", p."ApellidoMaterno",
		       p."GeneroID", p."Edad", p."CURP", p."Correo", p."Telefono",
		       p."Direccion", p."Ocupacion"
		FROM "HistoriasClinicas" h
		JOIN "Pacientes" p ON p."PacienteID" = h."PacienteID"
		JOIN "MateriasProfesor" mp ON mp."MateriaProfesorID" = h."MateriaProfesorID"
		WHERE h."HistoriaClinicaID" = $1 AND mp."ProfesorInfoID" = $2;
	`,

	// GetAcceso recupera las referencias de pertenencia para la guarda
	GetAcceso: `
		SELECT h."AlumnoID", mp."ProfesorInfoID", h."Archivado"
		FROM "HistoriasClinicas" h
		JOIN "MateriasProfesor" mp ON mp."MateriaProfesorID" = h."MateriaProfesorID"
		WHERE h."HistoriaClinicaID" = $1;
	`,

	BumpActualizadoEn: `
		UPDATE "HistoriasClinicas" SET "ActualizadoEn" = NOW()
		WHERE "HistoriaClinicaID" = $1;
	`,

	CambiarEstado: `
		UPDATE "HistoriasClinicas"
		SET "EstadoID" = $2, "ActualizadoEn" = NOW()
		WHERE "HistoriaClinicaID" = $1;
	`,

	// Archivar fija además el estado Finalizado: archivar implica finalizar
	Archivar: `
		UPDATE "HistoriasClinicas"
		SET "Archivado" = true, "FechaArchivado" = NOW(),
		    "EstadoID" = $2, "ActualizadoEn" = NOW()
		WHERE "HistoriaClinicaID" = $1;
	`,

	// Desarchivar conserva el EstadoID vigente
	Desarchivar: `
		UPDATE "HistoriasClinicas"
		SET "Archivado" = false, "FechaArchivado" = NULL, "ActualizadoEn" = NOW()
		WHERE "HistoriaClinicaID" = $1;
	`,

	Eliminar: `
		DELETE FROM "HistoriasClinicas" WHERE "HistoriaClinicaID" = $1;
	`,

	ListarComoAdmin: `
		SELECT h."HistoriaClinicaID",
		       p."Nombre" || ' ' || p."ApellidoPaterno" AS paciente,
		       h."AlumnoID", h."EstadoID", h."Archivado",
		       h."CreadoEn", h."ActualizadoEn"
		FROM "HistoriasClinicas" h
		JOIN "Pacientes" p ON p."PacienteID" = h."PacienteID"
		WHERE ($1::boolean IS NULL OR h."Archivado" = $1)
		ORDER BY h."ActualizadoEn" DESC;
	`,

	ListarComoAlumno: `
		SELECT h."HistoriaClinicaID",
		       p."Nombre" || ' ' || p."ApellidoPaterno" AS paciente,
		       h."AlumnoID", h."EstadoID", h."Archivado",
		       h."CreadoEn", h."ActualizadoEn"
		FROM "HistoriasClinicas" h
		JOIN "Pacientes" p ON p."PacienteID" = h."PacienteID"
		WHERE h."AlumnoID" = $1
		ORDER BY h."ActualizadoEn" DESC;
	`,

	ListarComoProfesor: `
		SELECT h."HistoriaClinicaID",
		       p."Nombre" || ' ' || p."ApellidoPaterno" AS paciente,
		       h."AlumnoID", h."EstadoID", h."Archivado",
		       h."CreadoEn", h."ActualizadoEn"
		FROM "HistoriasClinicas" h
		JOIN "Pacientes" p ON p."PacienteID" = h."PacienteID"
		JOIN "MateriasProfesor" mp ON mp."MateriaProfesorID" = h."MateriaProfesorID"
		WHERE mp."ProfesorInfoID" = $1
		ORDER BY h."ActualizadoEn" DESC;
	`,
}

// PacienteQueries contiene las consultas de resolución de pacientes
var PacienteQueries = struct {
	BuscarPorID       string
	BuscarPorContacto string
	Insertar          string
}{
	BuscarPorID: `
		SELECT "PacienteID", "Nombre", "ApellidoPaterno", "ApellidoMaterno",
		       "GeneroID", "Edad", "CURP", "Correo", "Telefono",
		       "Direccion", "Ocupacion"
		FROM "Pacientes"
		WHERE "PacienteID" = $1;
	`,

	// BuscarPorContacto deduplica por correo O teléfono
	BuscarPorContacto: `
		SELECT "PacienteID", "Nombre", "ApellidoPaterno", "ApellidoMaterno",
		       "GeneroID", "Edad", "CURP", "Correo", "Telefono",
		       "Direccion", "Ocupacion"
		FROM "Pacientes"
		WHERE ($1::text IS NOT NULL AND "Correo" = $1)
		   OR ($2::text IS NOT NULL AND "Telefono" = $2)
		LIMIT 1;
	`,

	Insertar: `
		INSERT INTO "Pacientes" (
			"Nombre", "ApellidoPaterno", "ApellidoMaterno", "GeneroID",
			"Edad", "CURP", "Correo", "Telefono", "Direccion", "Ocupacion",
			"CreadoEn", "ActualizadoEn"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING "PacienteID";
	`,
}
