package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"optometria-core/internal/app/config"
	"optometria-core/internal/infrastructure/database/redis"
	auth "optometria-core/internal/shared/middleware/auth"
)

// ErrSesionInvalida indica token ausente, expirado o revocado
var ErrSesionInvalida = errors.New("sesión inválida o expirada")

// SessionService administra sesiones opacas en Redis: el token es un
// UUID sin significado y la identidad completa vive serializada bajo la
// clave de sesión, con expiración delegada al TTL de Redis.
type SessionService struct {
	redis  *redis.Client
	config *config.Config
}

// NewSessionService crea una nueva instancia del servicio de sesiones
func NewSessionService(redisClient *redis.Client, cfg *config.Config) *SessionService {
	return &SessionService{redis: redisClient, config: cfg}
}

// Crear abre una sesión para la identidad y retorna su token
func (s *SessionService) Crear(ctx context.Context, ident auth.Identidad) (string, error) {
	token := uuid.New().String()

	clave, err := s.redis.Keys().GenerateKey("auth_sesion", token)
	if err != nil {
		return "", fmt.Errorf("generación de clave de sesión: %w", err)
	}

	datos, err := json.Marshal(ident)
	if err != nil {
		return "", fmt.Errorf("serialización de identidad: %w", err)
	}

	if err := s.redis.Set(ctx, clave, datos, s.config.Sesiones.TTL); err != nil {
		return "", fmt.Errorf("almacenamiento de sesión: %w", err)
	}

	return token, nil
}

// Obtener resuelve el token a su identidad
func (s *SessionService) Obtener(ctx context.Context, token string) (auth.Identidad, error) {
	var ident auth.Identidad

	clave, err := s.redis.Keys().GenerateKey("auth_sesion", token)
	if err != nil {
		return ident, ErrSesionInvalida
	}

	datos, err := s.redis.Get(ctx, clave)
	if err != nil {
		if err == goredis.Nil {
			return ident, ErrSesionInvalida
		}
		return ident, fmt.Errorf("lectura de sesión: %w", err)
	}

	if err := json.Unmarshal([]byte(datos), &ident); err != nil {
		return ident, ErrSesionInvalida
	}

	return ident, nil
}

// Cerrar revoca la sesión del token
func (s *SessionService) Cerrar(ctx context.Context, token string) error {
	clave, err := s.redis.Keys().GenerateKey("auth_sesion", token)
	if err != nil {
		return ErrSesionInvalida
	}
	return s.redis.Del(ctx, clave)
}
