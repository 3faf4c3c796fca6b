package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leaderboard_app/internal/migrations"
	"leaderboard_app/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("unique constraint violated")
	ErrConstraintViolation = errors.New("check constraint violated")
	ErrTxConflict          = errors.New("transaction conflict")
	ErrInvalidInput        = errors.New("invalid input syntax")
)

// Repository is the PostgreSQL ledger store.
type Repository struct {
	db *sqlx.DB
}

type Config struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	Migrate         bool          `mapstructure:"migrate"`
}

func New(ctx context.Context, cfg Config) (*Repository, error) {
	url := cfg.GetDatabaseURL()

	if cfg.Migrate {
		err := migrate(url)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger().Info("Connected to database successfully",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name))

	return &Repository{db: db}, nil
}

// NewWithDB wraps an already opened connection pool.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(db, "pgx")}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Driver() string {
	return "postgres"
}

// Transaction runs t inside a READ COMMITTED transaction. It commits when t
// returns nil and rolls back otherwise.
func (r *Repository) Transaction(ctx context.Context, t func(tx Tx) error) error {
	return r.transaction(ctx, func(tx *sqlx.Tx) error {
		return t(&pgTx{tx: tx})
	})
}

func (r *Repository) transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classify(fmt.Errorf("begin tx: %w", err))
	}

	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}

	err = tx.Commit()
	if err != nil {
		return classify(fmt.Errorf("commit tx: %w", err))
	}

	return nil
}

func (c *Config) GetDatabaseURL() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		sslMode,
	)
}

func migrate(url string) error {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	//nolint:errcheck
	defer db.Close()

	err = migrations.Up(db)
	if err != nil {
		return err
	}

	logger.Logger().Info("Database migrations applied")

	return nil
}

// classify maps PostgreSQL error codes onto the package sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case "23514", "22001", "23000": // check_violation, string_data_right_truncation, integrity_constraint_violation
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return fmt.Errorf("%w: %w", ErrTxConflict, err)
	case "22P02", "22021": // invalid_text_representation, character_not_in_repertoire
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
