package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type resolutorFalso struct {
	identidades map[string]Identidad
}

func (r *resolutorFalso) Obtener(_ context.Context, token string) (Identidad, error) {
	ident, ok := r.identidades[token]
	if !ok {
		return Identidad{}, errors.New("sesión inválida o expirada")
	}
	return ident, nil
}

func routerDePrueba(resolutor ResolutorSesion, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	grupo := router.Group("", Sesion(resolutor))
	if len(roles) > 0 {
		grupo = grupo.Group("", RequiereRol(roles...))
	}
	grupo.GET("/recurso", func(c *gin.Context) {
		ident, _ := c.Get(ContextoIdentidad)
		c.JSON(http.StatusOK, gin.H{"rol": ident.(Identidad).Rol})
	})

	return router
}

func TestSesionSinToken(t *testing.T) {
	router := routerDePrueba(&resolutorFalso{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	router.ServeHTTP(w, req)

	if w.Code != StatusSesionInvalida {
		t.Errorf("status = %d, esperaba %d", w.Code, StatusSesionInvalida)
	}
}

func TestSesionTokenInvalido(t *testing.T) {
	router := routerDePrueba(&resolutorFalso{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer no-existe")
	router.ServeHTTP(w, req)

	if w.Code != StatusSesionInvalida {
		t.Errorf("status = %d, esperaba %d", w.Code, StatusSesionInvalida)
	}
}

func TestSesionValidaDejaLaIdentidad(t *testing.T) {
	resolutor := &resolutorFalso{identidades: map[string]Identidad{
		"abc": {UsuarioID: 7, Rol: RolAlumno},
	}}
	router := routerDePrueba(resolutor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer abc")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, cuerpo: %s", w.Code, w.Body.String())
	}
}

func TestRequiereRol(t *testing.T) {
	resolutor := &resolutorFalso{identidades: map[string]Identidad{
		"alumno": {UsuarioID: 1, Rol: RolAlumno},
		"admin":  {UsuarioID: 2, Rol: RolAdmin},
	}}
	router := routerDePrueba(resolutor, RolAdmin)

	casos := []struct {
		token  string
		espera int
	}{
		{"admin", http.StatusOK},
		{"alumno", http.StatusForbidden},
	}

	for _, caso := range casos {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
		req.Header.Set("Authorization", "Bearer "+caso.token)
		router.ServeHTTP(w, req)

		if w.Code != caso.espera {
			t.Errorf("token %s: status = %d, esperaba %d", caso.token, w.Code, caso.espera)
		}
	}
}
