package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewQuotationDefaultsHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint  string
	SnowflakeNode int64

	Blob BlobConfig

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	DBPath     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string
}

// BlobConfig selects where the quotation collection is persisted.
type BlobConfig struct {
	Backend     string
	Compression string
	FileDir     string
}

const (
	BlobBackendMemory = "memory"
	BlobBackendNone   = "none"
	BlobBackendFile   = "file"
	BlobBackendSQL    = "sql"
	BlobBackendRedis  = "redis"
	BlobBackendMongo  = "mongo"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:       getenv("APP_SERVICE", "quotely"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:  getenv("OTLP_ENDPOINT", "localhost:4317"),
		SnowflakeNode: getenvInt64("SNOWFLAKE_NODE", 1),
		Blob: BlobConfig{
			Backend:     normalizeBackend(getenv("BLOB_BACKEND", BlobBackendFile)),
			Compression: strings.ToLower(strings.TrimSpace(getenv("BLOB_COMPRESSION", ""))),
			FileDir:     getenv("BLOB_FILE_DIR", "data"),
		},
		DBType:        getenv("DATABASE_TYPE", "sqlite"),
		DBHost:        getenv("DATABASE_HOST", "localhost"),
		DBPort:        getenv("DATABASE_PORT", "5432"),
		DBName:        getenv("DATABASE_NAME", "quotely"),
		DBUser:        getenv("DATABASE_USER", "postgres"),
		DBPassword:    getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:     getenv("DATABASE_SSLMODE", "disable"),
		DBPath:        getenv("DATABASE_PATH", "quotely.db"),
		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "localhost:6379")),
		RedisPassword: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:       int(getenvInt64("REDIS_DB", 0)),
		MongoURI:      strings.TrimSpace(getenv("MONGODB_URI", "mongodb://localhost:27017")),
		MongoDatabase: getenv("MONGODB_DATABASE", "quotely"),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// normalizeBackend lowercases raw and defaults an empty value to the file backend.
// Unknown names are kept so that opening the store can reject them.
func normalizeBackend(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return BlobBackendFile
	}
	return value
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
