package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/salonbook/salonbook/pkg/logger"
	"github.com/spf13/viper"
)

// DefaultPropertiesFile is the non-committed file carrying the backend secrets.
const DefaultPropertiesFile = "local.properties"

// Config holds application configuration
type Config struct {
	Backend  BackendConfig
	Server   ServerConfig
	Session  SessionConfig
	Redis    RedisConfig
	Tables   TablesConfig
	MongoDB  MongoDBConfig
	Postgres PostgresConfig
	Admin    AdminConfig
	Log      LogConfig
}

// BackendConfig describes the hosted backend. URL and APIKey come from the
// properties file and are empty when it is missing.
type BackendConfig struct {
	URL        string
	APIKey     string
	JWTSecret  string
	VerifyJWKS bool
	Timeout    time.Duration
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type SessionConfig struct {
	Driver   string // file | redis | mongo | memory
	Path     string
	RedisKey string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type TablesConfig struct {
	Driver string // rest | memory | mongo | postgres
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type PostgresConfig struct {
	DSN string
}

// AdminConfig controls who sees the admin panel. Role is matched against
// app_metadata.role; UserID is a fallback for projects without roles.
type AdminConfig struct {
	Role   string
	UserID string
}

type LogConfig struct {
	Level string
}

// LoadConfig reads the properties file at propertiesPath, the optional .env
// file and the environment. Environment variables win over the file.
func LoadConfig(propertiesPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	props, err := readProperties(propertiesPath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SUPABASE_URL", props["supabaseUrl"])
	v.SetDefault("SUPABASE_KEY", props["supabaseKey"])
	v.SetDefault("SUPABASE_JWT_SECRET", props["supabaseJwtSecret"])
	v.SetDefault("JWKS_VERIFY", false)
	v.SetDefault("HTTP_TIMEOUT", 30)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", "5080")
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SESSION_DRIVER", "file")
	v.SetDefault("SESSION_PATH", defaultSessionPath())
	v.SetDefault("SESSION_REDIS_KEY", "salon:prefs")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TABLES_DRIVER", "rest")
	v.SetDefault("MONGODB_DATABASE", "salon")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("ADMIN_ROLE", "admin")

	cfg := &Config{
		Backend: BackendConfig{
			URL:        v.GetString("SUPABASE_URL"),
			APIKey:     v.GetString("SUPABASE_KEY"),
			JWTSecret:  v.GetString("SUPABASE_JWT_SECRET"),
			VerifyJWKS: v.GetBool("JWKS_VERIFY"),
			Timeout:    time.Duration(v.GetInt("HTTP_TIMEOUT")) * time.Second,
		},
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Session: SessionConfig{
			Driver:   v.GetString("SESSION_DRIVER"),
			Path:     v.GetString("SESSION_PATH"),
			RedisKey: v.GetString("SESSION_REDIS_KEY"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Tables: TablesConfig{
			Driver: v.GetString("TABLES_DRIVER"),
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Postgres: PostgresConfig{
			DSN: v.GetString("POSTGRES_DSN"),
		},
		Admin: AdminConfig{
			Role:   v.GetString("ADMIN_ROLE"),
			UserID: v.GetString("ADMIN_USER_ID"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Backend.URL == "" || cfg.Backend.APIKey == "" {
		logger.Warnf("backend URL or API key is empty; set supabaseUrl/supabaseKey in %s", propertiesPath)
	}

	return cfg, nil
}

// readProperties parses a key=value properties file. A missing file yields
// an empty map.
func readProperties(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	m, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".salon", "prefs.yaml")
	}
	return filepath.Join(home, ".salon", "prefs.yaml")
}
