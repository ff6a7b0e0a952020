package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string   `yaml:"name"`
	Env                   string   `yaml:"env"`
	Host                  string   `yaml:"host"`
	Port                  string   `yaml:"port"`
	Version               string   `yaml:"version"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	CORSAllowedOrigins    []string `yaml:"cors_allowed_origins"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	RunMigrations  bool   `yaml:"run_migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	EventsChannel string `yaml:"events_channel"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE and
// then from environment variables. Environment values take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(cfg.Redis.DB)))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.App = AppConfig{
		Name:                  getEnv("APP_NAME", cfg.App.Name),
		Env:                   getEnv("APP_ENV", cfg.App.Env),
		Host:                  getEnv("APP_HOST", cfg.App.Host),
		Port:                  getEnv("APP_PORT", cfg.App.Port),
		Version:               getEnv("APP_VERSION", cfg.App.Version),
		RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", cfg.App.RequestTimeoutSeconds),
		CORSAllowedOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", cfg.App.CORSAllowedOrigins),
	}
	cfg.Postgres = PostgresConfig{
		DSN:            getEnv("POSTGRES_DSN", cfg.Postgres.DSN),
		MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", int(cfg.Postgres.MaxConns))),
		MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", int(cfg.Postgres.MinConns))),
		RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", cfg.Postgres.RunMigrations),
		ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", int(cfg.Postgres.ConnMaxIdleSec))),
		ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", int(cfg.Postgres.ConnMaxLifeSec))),
	}
	cfg.Redis = RedisConfig{
		Addr:          getEnv("REDIS_ADDR", cfg.Redis.Addr),
		Password:      getEnv("REDIS_PASSWORD", cfg.Redis.Password),
		DB:            redisDB,
		EventsChannel: getEnv("REDIS_EVENTS_CHANNEL", cfg.Redis.EventsChannel),
	}
	cfg.Logger = LoggerConfig{
		Level: getEnv("LOG_LEVEL", cfg.Logger.Level),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:               "employee-service",
			Env:                "development",
			Host:               "0.0.0.0",
			Port:               "8080",
			Version:            "dev",
			CORSAllowedOrigins: []string{"*"},
		},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			RunMigrations:  true,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		Redis: RedisConfig{
			Addr:          "127.0.0.1:6379",
			EventsChannel: "employees.events",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.App.Port == "" {
		return errors.New("config: APP_PORT must be set")
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns && c.Postgres.MaxConns > 0 {
		return fmt.Errorf("config: POSTGRES_MIN_CONNS (%d) exceeds POSTGRES_MAX_CONNS (%d)", c.Postgres.MinConns, c.Postgres.MaxConns)
	}
	if c.Redis.EventsChannel == "" {
		return errors.New("config: REDIS_EVENTS_CHANNEL must be set")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
