package dto

// LoginRequest son las credenciales de inicio de sesión
type LoginRequest struct {
	Usuario  string `json:"usuario" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UsuarioRespuesta es la vista wire del usuario autenticado
type UsuarioRespuesta struct {
	ID             int64  `json:"id"`
	Usuario        string `json:"usuario"`
	Nombre         string `json:"nombre"`
	Rol            string `json:"rol"`
	AlumnoInfoID   *int64 `json:"alumnoInfoID,omitempty"`
	ProfesorInfoID *int64 `json:"profesorInfoID,omitempty"`
}

// LoginRespuesta retorna el token de sesión opaco y el perfil
type LoginRespuesta struct {
	Token   string           `json:"token"`
	Usuario UsuarioRespuesta `json:"usuario"`
}
