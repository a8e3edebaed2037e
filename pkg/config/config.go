package config

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	SQLite      SQLiteConfig
	Persistence PersistenceConfig
	Bandit      BanditConfig
}

type AppConfig struct {
	Name        string `validate:"required"`
	Version     string
	Environment string `validate:"oneof=development staging production test"`
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the libpq connection string for gorm's postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// JWTConfig guards the admin routes. An empty secret leaves them open.
type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
}

type SQLiteConfig struct {
	Path string
}

type PersistenceConfig struct {
	Backend      string `validate:"oneof=memory sqlite postgres redis"`
	SnapshotName string `validate:"required"`
}

// BanditConfig.Seed is random per process unless BANDIT_SEED pins it.
type BanditConfig struct {
	PriorAlpha            float64 `validate:"gt=0"`
	PriorBeta             float64 `validate:"gt=0"`
	Sampler               string  `validate:"oneof=beta normal"`
	Seed                  uint64
	FingerprintResolution float64 `validate:"gte=0,lt=1"`
	MaxPosteriors         int     `validate:"gte=0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	maxPosteriors, err := getEnvInt("BANDIT_MAX_POSTERIORS", 0)
	if err != nil {
		return nil, err
	}
	priorAlpha, err := getEnvFloat("BANDIT_PRIOR_ALPHA", 1)
	if err != nil {
		return nil, err
	}
	priorBeta, err := getEnvFloat("BANDIT_PRIOR_BETA", 1)
	if err != nil {
		return nil, err
	}
	resolution, err := getEnvFloat("BANDIT_FINGERPRINT_RESOLUTION", 0)
	if err != nil {
		return nil, err
	}
	seed, err := getEnvSeed("BANDIT_SEED")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Workflow Advisor"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "workflow_advisor"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "workflow_advisor.db"),
		},
		Persistence: PersistenceConfig{
			Backend:      getEnv("PERSISTENCE_BACKEND", "memory"),
			SnapshotName: getEnv("BANDIT_SNAPSHOT_NAME", "default"),
		},
		Bandit: BanditConfig{
			PriorAlpha:            priorAlpha,
			PriorBeta:             priorBeta,
			Sampler:               getEnv("BANDIT_SAMPLER", "beta"),
			Seed:                  seed,
			FingerprintResolution: resolution,
			MaxPosteriors:         maxPosteriors,
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Persistence.Backend == "postgres" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvSeed(key string) (uint64, error) {
	val := os.Getenv(key)
	if val == "" {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("failed to draw %s: %w", key, err)
		}
		return binary.LittleEndian.Uint64(buf[:]), nil
	}
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
