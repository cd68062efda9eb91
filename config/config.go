package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Admin    AdminConfig
	Backup   BackupConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// StorageConfig selects the key-value backend holding the template collection.
type StorageConfig struct {
	Backend          string // memory, redis or postgres
	TemplatesKey     string
	MemoryQuotaBytes int
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ChangeChannel string
}

type DatabaseConfig struct {
	Driver   string // postgres (lib/pq) or pgx
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Table    string
	// NotifyChannel carries LISTEN/NOTIFY change announcements.
	NotifyChannel string
}

type AdminConfig struct {
	DefaultPassword string
	SessionTTL      time.Duration
	LoginRatePerMin int
	LoginBurst      int
}

type BackupConfig struct {
	Cron       string
	Sink       string // file or s3
	Dir        string
	S3Bucket   string
	S3Prefix   string
	S3Region   string
	S3Endpoint string
	S3User     string
	S3Password string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// localEnvironment reports whether env may fall back to the memory backend.
func localEnvironment(env string) bool {
	switch strings.ToLower(env) {
	case "development", "test":
		return true
	}
	return false
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Storage: StorageConfig{
			Backend:          strings.ToLower(getEnv("STORAGE_BACKEND", "")),
			TemplatesKey:     getEnv("TEMPLATES_KEY", "photoTemplates"),
			MemoryQuotaBytes: getEnvAsInt("MEMORY_QUOTA_BYTES", 5*1024*1024),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			ChangeChannel: getEnv("REDIS_CHANGE_CHANNEL", "photogrid:kv:changed"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "photogrid"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Table:    getEnv("DB_KV_TABLE", "kv_store"),

			NotifyChannel: getEnv("DB_NOTIFY_CHANNEL", "photogrid_kv_changed"),
		},
		Admin: AdminConfig{
			DefaultPassword: getEnv("ADMIN_DEFAULT_PASSWORD", "admin123"),
			SessionTTL:      getEnvAsDuration("ADMIN_SESSION_TTL", 12*time.Hour),
			LoginRatePerMin: getEnvAsInt("ADMIN_LOGIN_RATE_PER_MIN", 10),
			LoginBurst:      getEnvAsInt("ADMIN_LOGIN_BURST", 5),
		},
		Backup: BackupConfig{
			Cron:       getEnv("BACKUP_CRON", ""),
			Sink:       getEnv("BACKUP_SINK", "file"),
			Dir:        getEnv("BACKUP_DIR", "backups"),
			S3Bucket:   getEnv("S3_BUCKET", ""),
			S3Prefix:   getEnv("S3_PREFIX", "photogrid/"),
			S3Region:   getEnv("S3_REGION", "us-east-1"),
			S3Endpoint: getEnv("S3_ENDPOINT", ""),
			S3User:     getEnv("S3_ACCESS_KEY", ""),
			S3Password: getEnv("S3_SECRET_KEY", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	// Only local runs fall back to the memory backend, which loses data on restart.
	if cfg.Storage.Backend == "" && localEnvironment(cfg.App.Environment) {
		cfg.Storage.Backend = BackendMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Storage.TemplatesKey == "" {
		return fmt.Errorf("TEMPLATES_KEY is required")
	}

	switch c.Storage.Backend {
	case "":
		return fmt.Errorf("STORAGE_BACKEND is required when APP_ENV=%s", c.App.Environment)
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required for the postgres backend")
		}
		if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
			return fmt.Errorf("DB_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if len(c.Admin.DefaultPassword) < 6 {
		return fmt.Errorf("ADMIN_DEFAULT_PASSWORD must be at least 6 characters")
	}

	if c.Backup.Cron != "" && c.Backup.Sink == "s3" && c.Backup.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when BACKUP_SINK=s3")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
