package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Ingest    IngestConfig
	RateLimit RateLimitConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the raw report archive. An empty bucket
// disables archiving.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MaxInsertChunkSize is the largest insert chunk whose 22 bound columns per
// row stay within the Postgres limit of 65535 parameters.
const MaxInsertChunkSize = 65535 / 22

// IngestConfig holds report ingestion settings.
type IngestConfig struct {
	TargetScheme    string   `mapstructure:"target_scheme"`
	AllowedTypes    []string `mapstructure:"allowed_types"`
	InsertChunkSize int      `mapstructure:"insert_chunk_size"`
	MaxFileSizeMB   int64    `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload size limit in bytes.
func (i *IngestConfig) MaxFileSizeBytes() int64 {
	return i.MaxFileSizeMB * 1024 * 1024
}

// RateLimitConfig throttles report uploads per client IP.
type RateLimitConfig struct {
	UploadsPerSecond float64 `mapstructure:"uploads_per_second"`
	UploadBurst      int     `mapstructure:"upload_burst"`
}

// Load reads configuration from environment variables with the OSSVAT_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("OSSVAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "ossvat")
	v.SetDefault("db.password", "ossvat_secret")
	v.SetDefault("db.name", "ossvat_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Ingest defaults
	v.SetDefault("ingest.target_scheme", "UNION-OSS")
	v.SetDefault("ingest.allowed_types", "SALE,REFUND")
	v.SetDefault("ingest.insert_chunk_size", 500)
	v.SetDefault("ingest.max_file_size_mb", 100)

	// Rate limit defaults
	v.SetDefault("rate_limit.uploads_per_second", 1.0)
	v.SetDefault("rate_limit.upload_burst", 5)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "OSSVAT_SERVER_PORT",
		"server.read_timeout":           "OSSVAT_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "OSSVAT_SERVER_WRITE_TIMEOUT",
		"server.environment":            "OSSVAT_SERVER_ENVIRONMENT",
		"db.host":                       "OSSVAT_DB_HOST",
		"db.port":                       "OSSVAT_DB_PORT",
		"db.user":                       "OSSVAT_DB_USER",
		"db.password":                   "OSSVAT_DB_PASSWORD",
		"db.name":                       "OSSVAT_DB_NAME",
		"db.sslmode":                    "OSSVAT_DB_SSLMODE",
		"db.max_open":                   "OSSVAT_DB_MAX_OPEN",
		"db.max_idle":                   "OSSVAT_DB_MAX_IDLE",
		"s3.region":                     "OSSVAT_S3_REGION",
		"s3.bucket":                     "OSSVAT_S3_BUCKET",
		"s3.endpoint":                   "OSSVAT_S3_ENDPOINT",
		"s3.access_key":                 "OSSVAT_S3_ACCESS_KEY",
		"s3.secret_key":                 "OSSVAT_S3_SECRET_KEY",
		"log.level":                     "OSSVAT_LOG_LEVEL",
		"log.format":                    "OSSVAT_LOG_FORMAT",
		"cors.allowed_origins":          "OSSVAT_CORS_ALLOWED_ORIGINS",
		"ingest.target_scheme":          "OSSVAT_INGEST_TARGET_SCHEME",
		"ingest.allowed_types":          "OSSVAT_INGEST_ALLOWED_TYPES",
		"ingest.insert_chunk_size":      "OSSVAT_INGEST_INSERT_CHUNK_SIZE",
		"ingest.max_file_size_mb":       "OSSVAT_INGEST_MAX_FILE_SIZE_MB",
		"rate_limit.uploads_per_second": "OSSVAT_RATE_LIMIT_UPLOADS_PER_SECOND",
		"rate_limit.upload_burst":       "OSSVAT_RATE_LIMIT_UPLOAD_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if OSSVAT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("OSSVAT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Ingest = IngestConfig{
		TargetScheme:    strings.ToUpper(strings.TrimSpace(v.GetString("ingest.target_scheme"))),
		AllowedTypes:    splitList(strings.ToUpper(v.GetString("ingest.allowed_types"))),
		InsertChunkSize: v.GetInt("ingest.insert_chunk_size"),
		MaxFileSizeMB:   v.GetInt64("ingest.max_file_size_mb"),
	}
	if cfg.Ingest.TargetScheme == "" {
		return nil, fmt.Errorf("ingest.target_scheme must not be empty")
	}
	if cfg.Ingest.InsertChunkSize <= 0 {
		return nil, fmt.Errorf("ingest.insert_chunk_size must be positive, got %d", cfg.Ingest.InsertChunkSize)
	}
	if cfg.Ingest.InsertChunkSize > MaxInsertChunkSize {
		return nil, fmt.Errorf("ingest.insert_chunk_size must be at most %d, got %d", MaxInsertChunkSize, cfg.Ingest.InsertChunkSize)
	}

	cfg.RateLimit = RateLimitConfig{
		UploadsPerSecond: v.GetFloat64("rate_limit.uploads_per_second"),
		UploadBurst:      v.GetInt("rate_limit.upload_burst"),
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
