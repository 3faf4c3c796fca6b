// Package seed fills an empty ledger with demo users.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"leaderboard_app/internal/service"
	"leaderboard_app/pkg/logger"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

//go:embed users.json
var defaultUsers []byte

type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	SeedUsers(ctx context.Context, names []string) (int64, error)
}

type user struct {
	Name string `json:"name"`
}

// Run inserts the configured users when the store has none. Seeded users start
// with zero points since they have no claim history.
func Run(ctx context.Context, repo Repository, cfg Config) (int64, error) {
	log := logger.Logger()

	if !cfg.Enabled {
		return 0, nil
	}

	existing, err := repo.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if existing > 0 {
		log.Info("Skipping seed, users already present", zap.Int64("count", existing))
		return 0, nil
	}

	names, err := LoadNames(cfg.File)
	if err != nil {
		return 0, err
	}

	inserted, err := repo.SeedUsers(ctx, names)
	if err != nil {
		return 0, fmt.Errorf("failed to seed users: %w", err)
	}

	log.Info("Seeded users", zap.Int64("inserted", inserted))

	return inserted, nil
}

// LoadNames reads the seed list from path, or the embedded default when path
// is empty. Names are trimmed and deduplicated ignoring case.
func LoadNames(path string) ([]string, error) {
	data := defaultUsers
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	var users []user
	err := json.Unmarshal(data, &users)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(users))
	names := make([]string, 0, len(users))
	for i, u := range users {
		name, err := service.NormalizeName(u.Name)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i, err)
		}

		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}
