package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Redis     RedisConfig
	Crypto    CryptoConfig
	Contacts  ContactsConfig
	Admin     AdminSeedConfig
	Leads     LeadsConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	PublicURL      string
	AllowedOrigins []string
	RequestTimeout time.Duration
	RateLimit      float64
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	LogQueries   bool
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthConfig struct {
	BcryptCost   int
	ResetCodeTTL time.Duration
}

type StorageConfig struct {
	Provider      string // s3, r2
	PublicBaseURL string
	SignedURLTTL  time.Duration
	S3            S3Config
}

type S3Config struct {
	BucketName string
	Endpoint   string
	Region     string
	AccessKey  string
	SecretKey  string
}

// Enabled reports whether enough S3 settings are present to build a client.
func (s S3Config) Enabled() bool {
	return s.BucketName != "" && s.AccessKey != "" && s.SecretKey != ""
}

type WorkerConfig struct {
	Concurrency int
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

// CryptoConfig holds the image upload service key pair used to sign browser upload tokens.
type CryptoConfig struct {
	ImagePublicKey  string
	ImagePrivateKey string
	ImageTokenTTL   time.Duration
}

type ContactsConfig struct {
	APIURL string
	APIKey string
	ListID int
}

type AdminSeedConfig struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type LeadsConfig struct {
	RateWindow time.Duration
	RateMax    int
}

type SchedulerConfig struct {
	CleanupCron string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "localhost"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			PublicURL:      getEnv("PUBLIC_URL", "http://localhost:8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			RateLimit:      float64(getEnvAsInt("SERVER_RATE_LIMIT", 20)),
		},
		Database: DatabaseConfig{
			Host:         getEnv("POSTGRES_HOST", "localhost"),
			Port:         getEnvAsInt("POSTGRES_PORT", 5432),
			User:         getEnv("POSTGRES_USER", "postgres"),
			Password:     getEnv("POSTGRES_PASSWORD", ""),
			Name:         getEnv("POSTGRES_DB", "storefront"),
			SSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 50),
			MaxIdleConns: getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 10),
			LogQueries:   getEnv("POSTGRES_LOG_QUERIES", "false") == "true",
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key"),
			AccessTTL:  getEnvAsDuration("JWT_ACCESS_TTL", 24*time.Hour),
			RefreshTTL: getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Auth: AuthConfig{
			BcryptCost:   getEnvAsInt("AUTH_BCRYPT_COST", 10),
			ResetCodeTTL: getEnvAsDuration("AUTH_RESET_CODE_TTL", 15*time.Minute),
		},
		Storage: StorageConfig{
			Provider:      getEnv("STORAGE_PROVIDER", "s3"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			SignedURLTTL:  getEnvAsDuration("STORAGE_SIGNED_URL_TTL", time.Hour),
			S3: S3Config{
				BucketName: getEnv("S3_BUCKET_NAME", ""),
				Endpoint:   getEnv("S3_ENDPOINT", ""),
				Region:     getEnv("S3_REGION", "auto"),
				AccessKey:  getEnv("S3_ACCESS_KEY", ""),
				SecretKey:  getEnv("S3_SECRET_KEY", ""),
			},
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 10),
		},
		Redis: RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", getEnv("REDIS_HOST", "localhost"), getEnvAsInt("REDIS_PORT", 6379)),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Crypto: CryptoConfig{
			ImagePublicKey:  getEnv("IMAGE_PUBLIC_KEY", ""),
			ImagePrivateKey: getEnv("IMAGE_PRIVATE_KEY", ""),
			ImageTokenTTL:   getEnvAsDuration("IMAGE_TOKEN_TTL", 30*time.Minute),
		},
		Contacts: ContactsConfig{
			APIURL: getEnv("CONTACTS_API_URL", "https://api.brevo.com/v3"),
			APIKey: getEnv("CONTACTS_API_KEY", ""),
			ListID: getEnvAsInt("CONTACTS_LIST_ID", 0),
		},
		Admin: AdminSeedConfig{
			Name:     getEnv("ADMIN_NAME", "Admin"),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Phone:    getEnv("ADMIN_PHONE", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Leads: LeadsConfig{
			RateWindow: getEnvAsDuration("LEADS_RATE_WINDOW", time.Hour),
			RateMax:    getEnvAsInt("LEADS_RATE_MAX", 5),
		},
		Scheduler: SchedulerConfig{
			CleanupCron: getEnv("SCHEDULER_CLEANUP_CRON", "@hourly"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Save writes the resolved configuration, secrets included, to path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
