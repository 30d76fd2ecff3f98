package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/guardpost/guardpost-backend/internal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Kafka      KafkaConfig
	Storage    StorageConfig
	Paystub    PaystubConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds reconciliation defaults
type AttendanceConfig struct {
	// DefaultToleranceMinutes applies to companies without a stored setting.
	DefaultToleranceMinutes int
	// RecomputeEnabled turns on the nightly cached-hours job.
	RecomputeEnabled bool
	CompanyIDs       []string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type PaystubConfig struct {
	Title    string
	Currency string
}

// Load reads configuration from the environment. A .env file is optional.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "guardpost"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: getEnvInt("DB_MAX_CONNS", 25),
		MinConns: getEnvInt("DB_MIN_CONNS", 5),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	config.Attendance = AttendanceConfig{
		DefaultToleranceMinutes: toleranceMinutes(getEnv("ATTENDANCE_TOLERANCE_MINUTES", "0")),
		RecomputeEnabled:        getEnv("ATTENDANCE_RECOMPUTE_ENABLED", "true") == "true",
		CompanyIDs:              getEnvSlice("ATTENDANCE_RECOMPUTE_COMPANIES"),
	}

	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS"),
		Topic:   getEnv("KAFKA_PAYSTUB_TOPIC", "guardpost.payroll.paystub.generated.v1"),
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.Paystub = PaystubConfig{
		Title:    getEnv("PAYSTUB_TITLE", "Pay Statement"),
		Currency: getEnv("PAYSTUB_CURRENCY", "CAD"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PoolOptions maps the database section onto pool settings.
func (c *Config) PoolOptions() database.PoolOptions {
	return database.PoolOptions{
		MaxConns: int32(c.Database.MaxConns),
		MinConns: int32(c.Database.MinConns),
	}
}

// toleranceMinutes treats malformed or negative values as 0.
func toleranceMinutes(raw string) int {
	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || minutes < 0 {
		return 0
	}
	return minutes
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt falls back on unset or malformed values.
func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
