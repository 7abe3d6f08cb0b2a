package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"optometria-core/internal/infrastructure/database/mongodb"
	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/infrastructure/database/redis"

	"github.com/joho/godotenv"
)

// Configuración únicamente vía variables de entorno

// Config estructura unificada
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	MongoDB     MongoConfig
	Sesiones    SesionesConfig
	Imagenes    ImagenesConfig
	Logging     LoggingConfig
	CORS        CORSConfig
}

// ServerConfig configuración del servidor HTTP
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"`
	Port         int           `env:"SERVER_PORT"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT"`
}

// DatabaseConfig configuración PostgreSQL
type DatabaseConfig struct {
	Host           string        `env:"DB_HOST"`
	Port           int           `env:"DB_PORT"`
	Database       string        `env:"DB_NAME"`
	Username       string        `env:"DB_USERNAME"`
	Password       string        `env:"DB_PASSWORD"`
	MaxConnections int           `env:"DB_MAX_CONNECTIONS"`
	QueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT"`
	SSLMode        string        `env:"DB_SSL_MODE"`
}

// RedisConfig configuración Redis
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	Database int    `env:"REDIS_DATABASE"`
}

// MongoConfig configuración MongoDB (bitácora de auditoría)
type MongoConfig struct {
	URI      string `env:"MONGODB_URI"`
	Database string `env:"MONGODB_DATABASE"`
}

// SesionesConfig configuración de sesiones de usuario
type SesionesConfig struct {
	TTL time.Duration `env:"SESION_TTL"`
}

// ImagenesConfig configuración de almacenamiento de imágenes diagnósticas
type ImagenesConfig struct {
	RutaBase       string `env:"IMAGENES_RUTA_BASE"`
	TamanoMaximoMB int    `env:"IMAGENES_TAMANO_MAXIMO_MB"`
}

// LoggingConfig configuración de logging
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL"`
}

// CORSConfig configuración CORS
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int      `env:"CORS_MAX_AGE"`
}

// NewConfig carga la configuración desde variables de entorno
func NewConfig() (*Config, error) {
	// Cargar archivo .env (opcional)
	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("[CONFIG] Advertencia: archivo .env no encontrado: %v\n", err)
	}

	config := &Config{}

	config.Environment = getEnv("APP_ENV", "development")

	config.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "localhost"),
		Port:         getEnvInt("SERVER_PORT", 4000),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 30) * time.Second,
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30) * time.Second,
	}

	config.Database = DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           getEnvInt("DB_PORT", 5432),
		Database:       getEnv("DB_NAME", "clinica_optometria"),
		Username:       getEnv("DB_USERNAME", "postgres"),
		Password:       getEnv("DB_PASSWORD", ""),
		MaxConnections: getEnvInt("DB_MAX_CONNECTIONS", 25),
		QueryTimeout:   getEnvDuration("DB_QUERY_TIMEOUT", 30) * time.Second,
		SSLMode:        getEnv("DB_SSL_MODE", "disable"),
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		Database: getEnvInt("REDIS_DATABASE", 0),
	}

	defaultMongoURI := ""
	if config.Environment == "development" {
		defaultMongoURI = "mongodb://localhost:27017"
	}

	config.MongoDB = MongoConfig{
		URI:      getEnv("MONGODB_URI", defaultMongoURI),
		Database: getEnv("MONGODB_DATABASE", "clinica_optometria_auditoria"),
	}

	config.Sesiones = SesionesConfig{
		TTL: getEnvDuration("SESION_TTL", 43200) * time.Second,
	}

	config.Imagenes = ImagenesConfig{
		RutaBase:       getEnv("IMAGENES_RUTA_BASE", "./uploads"),
		TamanoMaximoMB: getEnvInt("IMAGENES_TAMANO_MAXIMO_MB", 10),
	}

	config.Logging = LoggingConfig{
		Level: getEnv("LOG_LEVEL", "debug"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins:   getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AllowedMethods:   getEnvStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		AllowedHeaders:   getEnvStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		AllowCredentials: getEnvBool("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           getEnvInt("CORS_MAX_AGE", 3600),
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("validación de configuración fallida: %w", err)
	}

	fmt.Printf("[CONFIG] ✅ Configuración cargada para entorno: %s\n", config.Environment)
	return config, nil
}

// Getters para acceso externo
func (c *Config) GetDatabase() DatabaseConfig { return c.Database }
func (c *Config) GetRedis() RedisConfig       { return c.Redis }
func (c *Config) GetMongoDB() MongoConfig     { return c.MongoDB }
func (c *Config) GetServer() ServerConfig     { return c.Server }
func (c *Config) GetCORS() CORSConfig         { return c.CORS }

// IsDevelopment indica si la aplicación corre en modo desarrollo
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Convertidores hacia configuraciones de infraestructura
func NewPostgresConfig(config *Config) *postgres.DatabaseConfig {
	return &postgres.DatabaseConfig{
		Host:     config.Database.Host,
		Port:     config.Database.Port,
		Database: config.Database.Database,
		Username: config.Database.Username,
		Password: config.Database.Password,
		SSLMode:  config.Database.SSLMode,
	}
}

func NewRedisConfig(config *Config) *redis.RedisConfig {
	return &redis.RedisConfig{
		Host:     config.Redis.Host,
		Port:     config.Redis.Port,
		Password: config.Redis.Password,
		Database: config.Redis.Database,
	}
}

func NewMongoConfig(config *Config) *mongodb.MongoConfig {
	return &mongodb.MongoConfig{
		URI:      config.MongoDB.URI,
		Database: config.MongoDB.Database,
	}
}

// Helpers para parsear variables de entorno
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds))
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// validateConfig valida la configuración según el entorno
func validateConfig(config *Config) error {
	env := config.Environment

	if env != "development" && env != "docker" {
		return fmt.Errorf("entorno no soportado: %s (use 'development' o 'docker')", env)
	}

	missingVars := []string{}

	// Variables críticas en modo docker (producción/staging)
	if env == "docker" {
		if config.Database.Password == "" {
			missingVars = append(missingVars, "DB_PASSWORD")
		}
		if config.Redis.Password == "" {
			fmt.Printf("[CONFIG] ⚠️ REDIS_PASSWORD no definido para entorno docker\n")
		}
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("variables críticas faltantes para entorno docker: %v", missingVars)
	}

	return nil
}
