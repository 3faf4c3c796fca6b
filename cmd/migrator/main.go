package main

import (
	"database/sql"
	"errors"
	"flag"
	"io/fs"
	"log"
	"strings"

	"leaderboard_app/internal/migrations"
	"leaderboard_app/internal/repository"
	"leaderboard_app/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up, down or version")
	flag.Parse()

	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load .env: %v", err)
	}

	err = logger.Initialize("info", "console")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	//nolint:errcheck
	defer logger.Sync()
	zapLogger := logger.Logger()

	cfg, err := loadDatabaseConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		zapLogger.Fatal("Failed to open database", zap.Error(err))
	}
	//nolint:errcheck
	defer db.Close()

	switch *direction {
	case "up":
		err = migrations.Up(db)
	case "down":
		err = migrations.Down(db)
	case "version":
	default:
		zapLogger.Fatal("Unknown direction", zap.String("direction", *direction))
	}
	if err != nil {
		zapLogger.Fatal("Migration failed", zap.String("direction", *direction), zap.Error(err))
	}

	version, dirty, err := migrations.Version(db)
	if err != nil {
		zapLogger.Fatal("Failed to read schema version", zap.Error(err))
	}

	zapLogger.Info("Migrations done",
		zap.String("direction", *direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty))
}

func loadDatabaseConfig() (repository.Config, error) {
	v := viper.New()
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "leaderboard")
	v.SetDefault("database.sslMode", "disable")

	v.SetConfigName("config")
	v.AddConfigPath("./")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return repository.Config{}, err
		}
	}

	var cfg struct {
		Database repository.Config `mapstructure:"database"`
	}
	err := v.Unmarshal(&cfg)
	return cfg.Database, err
}
