package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendSQLite  = "sqlite"
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendMongoDB = "mongodb"
)

const insecureJWTSecret = "change-me-campus-cars-secret"

// Config holds all configuration for the service. Optional integrations
// (NATS, MinIO, SMTP, OTLP) are disabled while their address is empty.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	GRPCPort    string `mapstructure:"GRPC_PORT"`
	MetricsPort string `mapstructure:"METRICS_PORT"`

	KVBackend     string `mapstructure:"KV_BACKEND"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDB       string `mapstructure:"MONGO_DB"`

	NATSURL        string `mapstructure:"NATS_URL"`
	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	SMTPHost       string `mapstructure:"SMTP_HOST"`
	SMTPPort       int    `mapstructure:"SMTP_PORT"`
	SMTPEmail      string `mapstructure:"SMTP_EMAIL"`
	SMTPPassword   string `mapstructure:"SMTP_PASSWORD"`

	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`

	OTelExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var defaults = map[string]interface{}{
	"SERVICE_NAME":                "campus-cars",
	"HTTP_PORT":                   "8080",
	"GRPC_PORT":                   "50052",
	"METRICS_PORT":                "9092",
	"KV_BACKEND":                  BackendSQLite,
	"SQLITE_PATH":                 "campus-cars.db",
	"REDIS_ADDRESS":               "localhost:6379",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"MONGO_URI":                   "mongodb://localhost:27017",
	"MONGO_DB":                    "campus_cars",
	"NATS_URL":                    "",
	"MINIO_ENDPOINT":              "",
	"MINIO_ACCESS_KEY":            "minioadmin",
	"MINIO_SECRET_KEY":            "minioadmin",
	"MINIO_BUCKET":                "listing-photos",
	"MINIO_USE_SSL":               false,
	"SMTP_HOST":                   "smtp.gmail.com",
	"SMTP_PORT":                   587,
	"SMTP_EMAIL":                  "",
	"SMTP_PASSWORD":               "",
	"JWT_SECRET":                  insecureJWTSecret,
	"SESSION_TTL":                 "24h",
	"RATE_LIMIT_RPS":              10.0,
	"RATE_LIMIT_BURST":            20,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
}

// Load reads .env (when present) and the environment on top of the defaults.
func Load(appLogger *logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		appLogger.Debug("No .env file loaded, relying on environment variables")
	}
	return load(viper.New(), appLogger)
}

func load(v *viper.Viper, appLogger *logger.Logger) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.KVBackend = strings.ToLower(strings.TrimSpace(cfg.KVBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == insecureJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}

	appLogger.Debug("Configuration loaded",
		"service_name", cfg.ServiceName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"metrics_port", cfg.MetricsPort,
		"kv_backend", cfg.KVBackend,
		"nats_enabled", cfg.NATSURL != "",
		"minio_enabled", cfg.MinIOEndpoint != "",
		"smtp_enabled", cfg.MailEnabled(),
		"session_ttl", cfg.SessionTTL.String(),
		"otel_endpoint", cfg.OTelExporterOTLPEndpoint,
	)
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.KVBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddress == "" {
			errs = append(errs, errors.New("REDIS_ADDRESS is required for the redis backend"))
		}
	case BackendMongoDB:
		if c.MongoURI == "" || c.MongoDB == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DB are required for the mongodb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown KV_BACKEND %q", c.KVBackend))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// MailEnabled reports whether SMTP credentials are present.
func (c *Config) MailEnabled() bool {
	return c.SMTPEmail != "" && c.SMTPPassword != ""
}
