package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"leaderboard_app/internal/repository"
	"leaderboard_app/internal/seed"
	"leaderboard_app/internal/worker"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

type Config struct {
	Database repository.Config `mapstructure:"database"`
	Server   ServerConfig      `mapstructure:"server"`
	Storage  StorageConfig     `mapstructure:"storage"`
	Seed     seed.Config       `mapstructure:"seed"`
	Audit    worker.Config     `mapstructure:"audit"`

	LogLevel    string `mapstructure:"logLevel"`
	LogEncoding string `mapstructure:"logEncoding"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "leaderboard")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 20)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)
	v.SetDefault("database.migrate", true)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.allowedOrigins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:3000",
	})

	v.SetDefault("storage.driver", driverPostgres)

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.file", "")

	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.interval", 5*time.Minute)

	v.SetDefault("logLevel", "info")
	v.SetDefault("logEncoding", "json")
	v.SetDefault("environment", "development")
}

// LoadConfig reads config.yaml from dir when present and applies APP_*
// environment overrides on top of the defaults. A .env file in the working
// directory is loaded first.
func LoadConfig(dir string) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.AddConfigPath(dir)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case driverPostgres, driverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Audit.Enabled && c.Audit.Interval <= 0 {
		return errors.New("audit.interval must be positive when audit is enabled")
	}

	return nil
}
