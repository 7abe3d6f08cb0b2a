package queries

// AuthQueries contiene las consultas de autenticación
var AuthQueries = struct {
	BuscarUsuario      string
	BuscarAlumnoInfo   string
	BuscarProfesorInfo string
}{
	BuscarUsuario: `
		SELECT "UsuarioID", "Usuario", "Nombre", "PasswordHash", "Salt", "Rol", "Activo"
		FROM "Usuarios"
		WHERE "Usuario" = $1;
	`,

	BuscarAlumnoInfo: `
		SELECT "AlumnoInfoID" FROM "AlumnosInfo" WHERE "UsuarioID" = $1;
	`,

	BuscarProfesorInfo: `
		SELECT "ProfesorInfoID" FROM "ProfesoresInfo" WHERE "UsuarioID" = $1;
	`,
}
