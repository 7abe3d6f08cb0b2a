package redis

import (
	"fmt"
	"regexp"
	"strings"
)

// RedisKeyGenerator genera y valida claves Redis según las convenciones del proyecto
// Patrón: optometria_{entorno}_{dominio}_{contexto}:{identificador}
type RedisKeyGenerator struct {
	environment string
}

// NewRedisKeyGenerator crea una nueva instancia del generador
func NewRedisKeyGenerator(environment string) *RedisKeyGenerator {
	return &RedisKeyGenerator{environment: environment}
}

// RedisKeyPattern define los patrones estándar de claves
type RedisKeyPattern struct {
	Domain  string // auth, cache
	Context string // sesion, catalogo
	TTL     int    // TTL en segundos, 0 = sin expiración
}

// Patrones predefinidos; solo se listan los realmente implementados
var RedisKeyPatterns = map[string]RedisKeyPattern{
	"auth_sesion":    {Domain: "auth", Context: "sesion", TTL: 43200},
	"cache_catalogo": {Domain: "cache", Context: "catalogo", TTL: 3600},
}

// GenerateKey genera una clave Redis según la convención
func (rkg *RedisKeyGenerator) GenerateKey(patternName string, identifier ...string) (string, error) {
	pattern, exists := RedisKeyPatterns[patternName]
	if !exists {
		return "", fmt.Errorf("patrón Redis no encontrado: %s", patternName)
	}

	prefix := fmt.Sprintf("optometria_%s_%s_%s", rkg.environment, pattern.Domain, pattern.Context)

	if len(identifier) > 0 {
		identifierStr := strings.Join(identifier, "_")
		return fmt.Sprintf("%s:%s", prefix, identifierStr), nil
	}

	// Sin identificador, la clave es singleton
	return prefix, nil
}

// GetTTL recupera el TTL de un patrón
func (rkg *RedisKeyGenerator) GetTTL(patternName string) (int, error) {
	pattern, exists := RedisKeyPatterns[patternName]
	if !exists {
		return 0, fmt.Errorf("patrón Redis no encontrado: %s", patternName)
	}
	return pattern.TTL, nil
}

// ValidateKey valida que una clave respete las convenciones
func (rkg *RedisKeyGenerator) ValidateKey(key string) error {
	if len(key) == 0 {
		return fmt.Errorf("clave vacía")
	}

	if len(key) > 250 {
		return fmt.Errorf("clave demasiado larga (máx 250 caracteres): %d", len(key))
	}

	validKeyRegex := regexp.MustCompile(`^[a-zA-Z0-9_:\-]+$`)
	if !validKeyRegex.MatchString(key) {
		return fmt.Errorf("la clave contiene caracteres inválidos: %s", key)
	}

	if !strings.HasPrefix(key, "optometria_") {
		return fmt.Errorf("la clave debe comenzar con 'optometria_': %s", key)
	}

	parts := strings.SplitN(key, ":", 2)
	prefixParts := strings.Split(parts[0], "_")
	if len(prefixParts) < 4 {
		return fmt.Errorf("estructura de prefijo inválida (formato: optometria_entorno_dominio_contexto): %s", parts[0])
	}

	return nil
}

// GenerateWildcardPattern genera un patrón wildcard para búsqueda por dominio/contexto
func (rkg *RedisKeyGenerator) GenerateWildcardPattern(domain, context string) string {
	return fmt.Sprintf("optometria_%s_%s_%s*", rkg.environment, domain, context)
}
