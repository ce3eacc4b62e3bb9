package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Mail     MailConfig     `yaml:"mail"`
	S3       S3Config       `yaml:"s3"`
	Logger   LoggerConfig   `yaml:"logger"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Admin    AdminConfig    `yaml:"admin"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	ViewTTL  time.Duration `yaml:"view_ttl"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	// BaseURL is the externally reachable URL used in verification links
	BaseURL string `yaml:"base_url"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// AdminConfig holds the bootstrap admin account seeded on first start.
// Seeding is skipped when Username is empty.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Nickname string `yaml:"nickname"`
}

type CleanupConfig struct {
	// Schedule is a cron expression for the stale-account cleanup job
	Schedule string `yaml:"schedule"`
	// Retention is how long an unverified account may keep an expired
	// email token before it is purged
	Retention time.Duration `yaml:"retention"`
}

// Load reads the YAML config file at path, applies environment variable
// overrides and validates the result. A missing file is not an error so the
// service can run from environment variables alone.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "board",
			Name:            "board",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			ViewTTL: time.Hour,
		},
		JWT: JWTConfig{
			Expiry: 24 * time.Hour,
		},
		Mail: MailConfig{
			Port:    587,
			BaseURL: "http://localhost:8080",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Cleanup: CleanupConfig{
			Schedule:  "0 4 * * *",
			Retention: 7 * 24 * time.Hour,
		},
		Admin: AdminConfig{
			Nickname: "admin",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Mode, "SERVER_MODE")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Mail.Host, "MAIL_HOST")
	setInt(&cfg.Mail.Port, "MAIL_PORT")
	setString(&cfg.Mail.Username, "MAIL_USERNAME")
	setString(&cfg.Mail.Password, "MAIL_PASSWORD")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Logger.Level, "LOG_LEVEL")
	setString(&cfg.Admin.Username, "ADMIN_USERNAME")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Admin.Nickname, "ADMIN_NICKNAME")
}

func setString(target *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*target = value
	}
}

func setInt(target *int, key string) {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database host and name are required")
	}
	return nil
}

// GetDSN builds the postgres connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
