package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/egi-ims/document-service/pkg/logger"
)

// Relocation modes for freshly created documents.
const (
	RelocateCopy = "copy"
	RelocateMove = "move"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Google    GoogleConfig
	IMS       IMSConfig
	Keycloak  KeycloakConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	MongoDB   MongoDBConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// GoogleConfig describes the service account used to talk to Google Drive.
type GoogleConfig struct {
	ClientID        string
	ClientEmail     string
	CredentialsFile string
	TokensFolder    string
	ApplicationName string
	// DriveEndpoint overrides the Drive API base URL (tests, proxies).
	DriveEndpoint string
	Relocation    string
}

// IMSConfig carries the Integrated Management System settings.
type IMSConfig struct {
	Group string
}

type KeycloakConfig struct {
	URL      string
	Realm    string
	ClientID string
}

type JWTConfig struct {
	Secret string
}

type AuthConfig struct {
	AllowInsecureToken bool
	RequiredRole       string
	RoleClaim          string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5010")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", 30)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("GOOGLE_CREDENTIALS", "credentials.json")
	viper.SetDefault("GOOGLE_APPLICATION_NAME", "EGI Document Service API")
	viper.SetDefault("GOOGLE_RELOCATION", RelocateCopy)
	viper.SetDefault("AUTH_REQUIRED_ROLE", "ims-user")
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("MONGODB_DATABASE", "ims_documents")
	viper.SetDefault("MONGODB_TIMEOUT", 10)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(viper.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Google: GoogleConfig{
			ClientID:        viper.GetString("GOOGLE_ID"),
			ClientEmail:     viper.GetString("GOOGLE_EMAIL"),
			CredentialsFile: viper.GetString("GOOGLE_CREDENTIALS"),
			TokensFolder:    viper.GetString("GOOGLE_TOKENS"),
			ApplicationName: viper.GetString("GOOGLE_APPLICATION_NAME"),
			DriveEndpoint:   viper.GetString("GOOGLE_DRIVE_ENDPOINT"),
			Relocation:      strings.ToLower(strings.TrimSpace(viper.GetString("GOOGLE_RELOCATION"))),
		},
		IMS: IMSConfig{
			Group: viper.GetString("IMS_GROUP"),
		},
		Keycloak: KeycloakConfig{
			URL:      viper.GetString("KEYCLOAK_URL"),
			Realm:    viper.GetString("KEYCLOAK_REALM"),
			ClientID: viper.GetString("KEYCLOAK_CLIENT_ID"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		Auth: AuthConfig{
			AllowInsecureToken: viper.GetBool("ALLOW_INSECURE_TOKEN"),
			RequiredRole:       viper.GetString("AUTH_REQUIRED_ROLE"),
			RoleClaim:          viper.GetString("AUTH_ROLE_CLAIM"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Keycloak.URL == "" && cfg.JWT.Secret == "" && !cfg.Auth.AllowInsecureToken {
		logger.Warn("no token verifier configured (KEYCLOAK_URL, JWT_SECRET or ALLOW_INSECURE_TOKEN); /docs will reject every request")
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Google.Relocation {
	case RelocateCopy, RelocateMove:
	default:
		return fmt.Errorf("invalid GOOGLE_RELOCATION %q (want %q or %q)", c.Google.Relocation, RelocateCopy, RelocateMove)
	}
	if c.Google.CredentialsFile == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS must not be empty")
	}
	return nil
}

// Addr returns the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
