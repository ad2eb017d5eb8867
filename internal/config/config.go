package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings for the relational store.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings for the document store.
type MongoConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	Collection string
}

// RedisConfig holds Redis connection settings for the dedup cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// KeyPrefix is prepended to every req_id before it is used as a cache key.
	KeyPrefix string
	// MarkerTTL bounds the lifetime of completion markers. Zero keeps them forever.
	MarkerTTL time.Duration
}

// MinIOConfig holds object storage settings used to publish offline exports.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	TimeZone string
	LogLevel string
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		TimeZone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("POSTGRES_HOST", ""),
			Port:               getEnv("POSTGRES_PORT", "5432"),
			User:               getEnv("POSTGRES_USER", ""),
			Password:           getEnv("POSTGRES_PASSWORD", ""),
			Name:               getEnv("POSTGRES_DB", ""),
			SSLMode:            getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("POSTGRES_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			Host:       getEnv("MONGO_HOST", ""),
			Port:       getEnv("MONGO_PORT", "27017"),
			User:       getEnv("MONGO_USER", ""),
			Password:   getEnv("MONGO_PASSWORD", ""),
			Name:       getEnv("MONGO_DB", ""),
			Collection: getEnv("MONGO_COLLECTION", "raw_collection"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", ""),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", ""),
			MarkerTTL: getEnvDuration("REDIS_MARKER_TTL", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Region:    getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Validate reports every missing setting the ingestion pipeline needs to open its three stores.
// MinIO settings are only checked by the export upload path.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Database.Host == "" || c.Database.Port == "" {
		errs = append(errs, errors.New("postgres host and port are required"))
	}
	if c.Database.User == "" || c.Database.Name == "" {
		errs = append(errs, errors.New("postgres user and database name are required"))
	}
	if c.Mongo.Host == "" || c.Mongo.Port == "" {
		errs = append(errs, errors.New("mongo host and port are required"))
	}
	if c.Mongo.Name == "" {
		errs = append(errs, errors.New("mongo database name is required"))
	}
	if c.Mongo.Collection == "" {
		errs = append(errs, errors.New("mongo collection is required"))
	}
	if c.Redis.Host == "" || c.Redis.Port == "" {
		errs = append(errs, errors.New("redis host and port are required"))
	}
	if c.Redis.MarkerTTL < 0 {
		errs = append(errs, errors.New("redis marker ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// Location resolves TimeZone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
