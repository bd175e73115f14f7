package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from .env and the environment.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Argon2   Argon2Config
	JWT      JWTConfig
	Login    LoginConfig
	Admin    AdminConfig
	Log      LogConfig
	Server   ServerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type Argon2Config struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

type JWTConfig struct {
	SecretKey   string
	ExpiryHours int
}

// LoginConfig controls failed-login throttling.
type LoginConfig struct {
	MaxAttempts   int
	LockoutWindow time.Duration
}

// AdminConfig seeds an administrator on startup when both fields are set.
type AdminConfig struct {
	Username string
	Password string
}

type LogConfig struct {
	Debug bool
	File  string
}

type ServerConfig struct {
	Port string
}

var envBindings = map[string]string{
	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",
	"database.query_timeout":     "DATABASE_QUERY_TIMEOUT",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"argon2.time":        "ARGON2_TIME",
	"argon2.memory":      "ARGON2_MEMORY",
	"argon2.threads":     "ARGON2_THREADS",
	"argon2.key_length":  "ARGON2_KEY_LENGTH",
	"argon2.salt_length": "ARGON2_SALT_LENGTH",

	"jwt.secret_key":   "JWT_SECRET_KEY",
	"jwt.expiry_hours": "JWT_EXPIRY_HOURS",

	"login.max_attempts":   "LOGIN_MAX_ATTEMPTS",
	"login.lockout_window": "LOGIN_LOCKOUT_WINDOW",

	"admin.username": "ADMIN_USERNAME",
	"admin.password": "ADMIN_PASSWORD",

	"log.debug": "LOG_DEBUG",
	"log.file":  "LOG_FILE",

	"server.port": "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "credit_card_management")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.query_timeout", 5*time.Second)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("argon2.time", 1)
	v.SetDefault("argon2.memory", 64*1024)
	v.SetDefault("argon2.threads", 4)
	v.SetDefault("argon2.key_length", 32)
	v.SetDefault("argon2.salt_length", 16)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("login.max_attempts", 5)
	v.SetDefault("login.lockout_window", 15*time.Minute)

	v.SetDefault("log.debug", false)
	v.SetDefault("log.file", "")

	v.SetDefault("server.port", "8080")
}

// Load reads path (usually ".env") if present, then lets environment variables override it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// .env files key values by the variable name; the process environment still wins
	for key, env := range envBindings {
		fileKey := strings.ToLower(env)
		if _, ok := os.LookupEnv(env); ok || !v.InConfig(fileKey) {
			continue
		}
		v.Set(key, v.Get(fileKey))
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			QueryTimeout:    v.GetDuration("database.query_timeout"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Argon2: Argon2Config{
			Time:       v.GetUint32("argon2.time"),
			Memory:     v.GetUint32("argon2.memory"),
			Threads:    uint8(v.GetUint("argon2.threads")),
			KeyLength:  v.GetUint32("argon2.key_length"),
			SaltLength: v.GetInt("argon2.salt_length"),
		},
		JWT: JWTConfig{
			SecretKey:   v.GetString("jwt.secret_key"),
			ExpiryHours: v.GetInt("jwt.expiry_hours"),
		},
		Login: LoginConfig{
			MaxAttempts:   v.GetInt("login.max_attempts"),
			LockoutWindow: v.GetDuration("login.lockout_window"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		Log: LogConfig{
			Debug: v.GetBool("log.debug"),
			File:  v.GetString("log.file"),
		},
		Server: ServerConfig{
			Port: v.GetString("server.port"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("invalid DATABASE_QUERY_TIMEOUT: must be positive")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("invalid DATABASE_MAX_OPEN_CONNS: must be positive")
	}
	if c.Argon2.KeyLength == 0 || c.Argon2.SaltLength <= 0 || c.Argon2.Threads == 0 {
		return fmt.Errorf("invalid argon2 parameters")
	}
	if c.Login.MaxAttempts <= 0 {
		return fmt.Errorf("invalid LOGIN_MAX_ATTEMPTS: must be positive")
	}
	return nil
}
