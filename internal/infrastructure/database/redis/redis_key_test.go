package redis

import (
	"strings"
	"testing"
)

func TestGenerateKeyPorEntorno(t *testing.T) {
	rkg := NewRedisKeyGenerator("development")

	clave, err := rkg.GenerateKey("auth_sesion", "abc-123")
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if clave != "optometria_development_auth_sesion:abc-123" {
		t.Errorf("clave = %s", clave)
	}
}

func TestGenerateKeyPatronDesconocido(t *testing.T) {
	rkg := NewRedisKeyGenerator("development")
	if _, err := rkg.GenerateKey("inexistente", "x"); err == nil {
		t.Error("patrón desconocido aceptado")
	}
}

func TestGetTTLPorPatron(t *testing.T) {
	rkg := NewRedisKeyGenerator("docker")

	ttl, err := rkg.GetTTL("auth_sesion")
	if err != nil {
		t.Fatal(err)
	}
	if ttl != 43200 {
		t.Errorf("TTL de sesión = %d, esperaba 43200", ttl)
	}

	ttl, err = rkg.GetTTL("cache_catalogo")
	if err != nil {
		t.Fatal(err)
	}
	if ttl != 3600 {
		t.Errorf("TTL de catálogo = %d, esperaba 3600", ttl)
	}
}

func TestValidateKey(t *testing.T) {
	rkg := NewRedisKeyGenerator("development")

	valida, err := rkg.GenerateKey("cache_catalogo", "ESTADOS_HISTORIA")
	if err != nil {
		t.Fatal(err)
	}
	if err := rkg.ValidateKey(valida); err != nil {
		t.Errorf("clave generada rechazada: %v", err)
	}

	if err := rkg.ValidateKey("otra_cosa:1"); err == nil {
		t.Error("clave de otro espacio aceptada")
	}
}

func TestGenerateWildcardPattern(t *testing.T) {
	rkg := NewRedisKeyGenerator("development")
	patron := rkg.GenerateWildcardPattern("auth", "sesion")
	if !strings.HasPrefix(patron, "optometria_development_auth_sesion") || !strings.HasSuffix(patron, "*") {
		t.Errorf("patrón = %s", patron)
	}
}
