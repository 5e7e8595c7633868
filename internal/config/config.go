// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAdminSecret   = "otakughor-admin-secret-change-me"
	defaultUserSecret    = "otakughor-user-secret-change-me"
	defaultRefreshSecret = "otakughor-refresh-secret-change-me"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	JWT         JWTConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Sheets      SheetsConfig
	Storage     StorageConfig
	Mail        MailConfig
	Shop        ShopConfig
	I18n        I18nConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// StoreConfig picks the document store backend: file, sql or mongo.
type StoreConfig struct {
	Driver  string
	DataDir string
}

type DatabaseConfig struct {
	Dialect      string // postgres or sqlite
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	AdminSecret     string
	UserSecret      string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Enabled      bool
	GeneralRPS   float64
	GeneralBurst int
	AuthPerMin   int
	AuthBurst    int
}

// SheetsConfig drives the Google Apps Script order ledger mirror.
type SheetsConfig struct {
	WebhookURL   string
	Secret       string
	Timeout      time.Duration
	MaxAttempts  int
	BaseBackoff  time.Duration
	MaxBackoff   time.Duration
	PollInterval time.Duration
	RatePerSec   float64
}

func (s SheetsConfig) Enabled() bool {
	return s.WebhookURL != ""
}

type StorageConfig struct {
	Provider       string // local, s3 or cloudinary
	UploadDir      string
	PublicBaseURL  string
	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string
	S3Bucket       string
	CloudFrontURL  string
	CloudinaryURL  string
	CloudinaryDir  string
	MaxImageSizeMB int
}

type MailConfig struct {
	Provider      string // log, sendgrid or postmark
	SendGridKey   string
	PostmarkToken string
	FromEmail     string
	FromName      string
	ShopURL       string
}

type ShopConfig struct {
	LowStockThreshold   int
	DefaultShippingCost float64
}

type I18nConfig struct {
	DefaultLocale string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(getEnv("STORE_DRIVER", "file")),
			DataDir: getEnv("DATA_DIR", "./data"),
		},
		Database: DatabaseConfig{
			Dialect:      strings.ToLower(getEnv("DB_DIALECT", "postgres")),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "otaku_ghor"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "./data/otakughor.db"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "otaku_ghor"),
			Timeout:  getEnvAsDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			AdminSecret:     getEnv("JWT_SECRET", defaultAdminSecret),
			UserSecret:      getEnv("JWT_USER_SECRET", defaultUserSecret),
			RefreshSecret:   getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret),
			AccessTokenTTL:  getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTokenTTL: getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		RateLimit: RateLimitConfig{
			Enabled:      getEnvAsBool("RATE_LIMIT_ENABLED", true),
			GeneralRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			GeneralBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
			AuthPerMin:   getEnvAsInt("RATE_LIMIT_AUTH_PER_MIN", 10),
			AuthBurst:    getEnvAsInt("RATE_LIMIT_AUTH_BURST", 5),
		},
		Sheets: SheetsConfig{
			WebhookURL:   getEnv("SHEETS_WEBHOOK_URL", ""),
			Secret:       getEnv("SHEETS_SECRET", ""),
			Timeout:      getEnvAsDuration("SHEETS_TIMEOUT", 15*time.Second),
			MaxAttempts:  getEnvAsInt("SHEETS_MAX_ATTEMPTS", 5),
			BaseBackoff:  getEnvAsDuration("SHEETS_BASE_BACKOFF", 30*time.Second),
			MaxBackoff:   getEnvAsDuration("SHEETS_MAX_BACKOFF", 30*time.Minute),
			PollInterval: getEnvAsDuration("SHEETS_POLL_INTERVAL", 10*time.Second),
			RatePerSec:   getEnvAsFloat("SHEETS_RATE_PER_SEC", 1),
		},
		Storage: StorageConfig{
			Provider:       strings.ToLower(getEnv("STORAGE_PROVIDER", "local")),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:5000"),
			AWSRegion:      getEnv("AWS_REGION", "ap-south-1"),
			AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:       getEnv("AWS_S3_BUCKET", "otaku-ghor-assets"),
			CloudFrontURL:  getEnv("AWS_CLOUDFRONT_URL", ""),
			CloudinaryURL:  getEnv("CLOUDINARY_URL", ""),
			CloudinaryDir:  getEnv("CLOUDINARY_FOLDER", "otaku-ghor"),
			MaxImageSizeMB: getEnvAsInt("MAX_IMAGE_SIZE_MB", 5),
		},
		Mail: MailConfig{
			Provider:      strings.ToLower(getEnv("MAIL_PROVIDER", "log")),
			SendGridKey:   getEnv("SENDGRID_API_KEY", ""),
			PostmarkToken: getEnv("POSTMARK_SERVER_TOKEN", ""),
			FromEmail:     getEnv("MAIL_FROM", "noreply@otakughor.com"),
			FromName:      getEnv("MAIL_FROM_NAME", "Otaku Ghor"),
			ShopURL:       getEnv("SHOP_URL", "http://localhost:3000"),
		},
		Shop: ShopConfig{
			LowStockThreshold:   getEnvAsInt("LOW_STOCK_THRESHOLD", 5),
			DefaultShippingCost: getEnvAsFloat("DEFAULT_SHIPPING_COST", 0),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", ""),
		},
	}

	return config, config.Validate()
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWT.AdminSecret == defaultAdminSecret ||
			c.JWT.UserSecret == defaultUserSecret ||
			c.JWT.RefreshSecret == defaultRefreshSecret {
			return fmt.Errorf("JWT secrets must be changed in production")
		}
		if c.Sheets.Enabled() && c.Sheets.Secret == "" {
			return fmt.Errorf("SHEETS_SECRET is required when SHEETS_WEBHOOK_URL is set")
		}
	}

	switch c.Store.Driver {
	case "file", "sql", "mongo":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Store.Driver == "sql" && c.Database.Dialect != "postgres" && c.Database.Dialect != "sqlite" {
		return fmt.Errorf("unknown DB_DIALECT %q", c.Database.Dialect)
	}

	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15m") or plain seconds ("900").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
