package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"

	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/infrastructure/database/redis"
	"optometria-core/internal/modules/catalogos/queries"
)

// Grupos de catálogo consumidos por el núcleo
const (
	GrupoEstadosHistoria = "ESTADOS_HISTORIA"
)

// Estados de flujo de la historia clínica
const (
	EstadoEnProceso  = "En proceso"
	EstadoFinalizado = "Finalizado"
)

// IDs de respaldo cuando el catálogo no resuelve: modo degradado
// explícito, nunca silencioso (se registra en el log).
var estadosFallback = map[string]int64{
	EstadoEnProceso:  1,
	EstadoFinalizado: 2,
}

// CatalogosService resuelve etiquetas de catálogo a IDs numéricos con
// estrategia cache-first sobre Redis.
type CatalogosService struct {
	db    *postgres.Client
	redis *redis.Client
}

// NewCatalogosService crea una nueva instancia del servicio de catálogos
func NewCatalogosService(db *postgres.Client, redisClient *redis.Client) *CatalogosService {
	return &CatalogosService{
		db:    db,
		redis: redisClient,
	}
}

// ResolverID busca el ID de una entrada de catálogo por grupo y nombre
func (s *CatalogosService) ResolverID(ctx context.Context, grupo, nombre string) (int64, error) {
	// 1. Intento cache-first
	cacheKey, err := s.redis.Keys().GenerateKey("cache_catalogo", grupo, nombre)
	if err == nil {
		if cached, cacheErr := s.redis.Get(ctx, cacheKey); cacheErr == nil {
			if id, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return id, nil
			}
		} else if cacheErr != goredis.Nil {
			fmt.Printf("[CATALOGOS] ⚠️ Cache Redis no disponible: %v\n", cacheErr)
		}
	}

	// 2. PostgreSQL
	var id int64
	err = s.db.QueryRow(ctx, queries.CatalogoQueries.BuscarPorGrupoYNombre, grupo, nombre).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("entrada de catálogo no encontrada: %s/%s", grupo, nombre)
		}
		return 0, fmt.Errorf("error consultando catálogo %s/%s: %w", grupo, nombre, err)
	}

	// 3. Calentar cache, best effort
	if cacheKey != "" {
		ttl, _ := s.redis.Keys().GetTTL("cache_catalogo")
		_ = s.redis.Set(ctx, cacheKey, strconv.FormatInt(id, 10), time.Duration(ttl)*time.Second)
	}

	return id, nil
}

// ResolverEstado resuelve un estado de flujo de historia. Si el catálogo
// no responde cae al ID de respaldo con advertencia: degradación explícita.
func (s *CatalogosService) ResolverEstado(ctx context.Context, nombre string) int64 {
	id, err := s.ResolverID(ctx, GrupoEstadosHistoria, nombre)
	if err != nil {
		fallback, ok := estadosFallback[nombre]
		if !ok {
			fallback = estadosFallback[EstadoEnProceso]
		}
		fmt.Printf("[CATALOGOS] ⚠️ Estado %q no resuelto (%v), usando ID de respaldo %d\n",
			nombre, err, fallback)
		return fallback
	}
	return id
}

// EntradaCatalogo es una fila del listado agrupado
type EntradaCatalogo struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Orden  int64  `json:"orden"`
}

// ListarAgrupados retorna todas las entradas activas agrupadas por grupo
func (s *CatalogosService) ListarAgrupados(ctx context.Context) (map[string][]EntradaCatalogo, error) {
	rows, err := s.db.Query(ctx, queries.CatalogoQueries.ListarActivos)
	if err != nil {
		return nil, fmt.Errorf("error listando catálogos: %w", err)
	}
	defer rows.Close()

	resultado := make(map[string][]EntradaCatalogo)
	for rows.Next() {
		var grupo string
		var entrada EntradaCatalogo
		if err := rows.Scan(&entrada.ID, &grupo, &entrada.Nombre, &entrada.Orden); err != nil {
			return nil, fmt.Errorf("error leyendo entrada de catálogo: %w", err)
		}
		resultado[grupo] = append(resultado[grupo], entrada)
	}

	return resultado, rows.Err()
}
