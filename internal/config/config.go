package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// MongoDB Configuration
	MongoDB MongoDBConfig `json:"mongodb"`

	// Admin credential and token signing
	Auth AuthConfig `json:"auth"`

	// Submission event publishing (optional)
	Messaging MessagingConfig `json:"messaging"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	GRPCPort     string `json:"grpc_port"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// MongoDBConfig contains the document store connection settings
type MongoDBConfig struct {
	URI            string `json:"-"`
	Database       string `json:"database"`
	Collection     string `json:"collection"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type AuthConfig struct {
	JWTSecret         string `json:"-"`
	AdminUsername     string `json:"admin_username"`
	AdminPasswordHash string `json:"-"`
}

// MessagingConfig enables NATS publishing of submission events when URL is set
type MessagingConfig struct {
	NATSURL string `json:"nats_url"`
	Subject string `json:"subject"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, console
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() *Config {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("APP_ENV", "development")

	v.SetDefault("MONGODB_URI", "")
	v.SetDefault("MONGODB_DATABASE", "contact-form")
	v.SetDefault("MONGODB_COLLECTION", "submissions")
	v.SetDefault("MONGODB_TIMEOUT_SECONDS", 10)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT", "contact.submissions")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.AutomaticEnv()
	return v
}

func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetString("SERVER_PORT"),
			GRPCPort:     v.GetString("GRPC_PORT"),
			ReadTimeout:  v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetInt("SERVER_WRITE_TIMEOUT"),
			Environment:  strings.ToLower(v.GetString("APP_ENV")),
		},
		MongoDB: MongoDBConfig{
			URI:            v.GetString("MONGODB_URI"),
			Database:       v.GetString("MONGODB_DATABASE"),
			Collection:     v.GetString("MONGODB_COLLECTION"),
			TimeoutSeconds: v.GetInt("MONGODB_TIMEOUT_SECONDS"),
		},
		Auth: AuthConfig{
			JWTSecret:         v.GetString("JWT_SECRET"),
			AdminUsername:     v.GetString("ADMIN_USERNAME"),
			AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		Messaging: MessagingConfig{
			NATSURL: v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

// Validate reports the settings the service cannot start without.
// A missing password hash is not fatal: login simply always fails.
func (cfg *Config) Validate() error {
	var missing []string
	if cfg.MongoDB.URI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if cfg.MongoDB.Database == "" {
		return errors.New("MONGODB_DATABASE must not be empty")
	}
	return nil
}

func (cfg *Config) IsProduction() bool {
	return cfg.Server.Environment == "production" || cfg.Server.Environment == "prod"
}

func (cfg *Config) GetMongoURI() string {
	return cfg.MongoDB.URI
}

// RedactedMongoURI hides the password component so the URI can be logged.
func (cfg *Config) RedactedMongoURI() string {
	u, err := url.Parse(cfg.MongoDB.URI)
	if err != nil {
		return "<unparseable mongodb uri>"
	}
	if u.User == nil {
		return cfg.MongoDB.URI
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func (cfg *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
}
