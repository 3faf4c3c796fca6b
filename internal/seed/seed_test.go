package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"leaderboard_app/internal/repository/memory"
	"leaderboard_app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadNames(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr error
	}{
		{
			name:    "Trimmed and deduplicated",
			content: `[{"name":" Zara "},{"name":"zara"},{"name":"Omar"}]`,
			want:    []string{"Zara", "Omar"},
		},
		{
			name:    "Blank entry",
			content: `[{"name":"  "}]`,
			wantErr: service.ErrInvalidArgument,
		},
		{
			name:    "Empty list",
			content: `[]`,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := LoadNames(writeFile(t, tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestLoadNames_Errors(t *testing.T) {
	_, err := LoadNames(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadNames(writeFile(t, `{not json`))
	assert.Error(t, err)
}

func TestLoadNames_Default(t *testing.T) {
	names, err := LoadNames("")
	require.NoError(t, err)
	assert.Len(t, names, 10)
	assert.Contains(t, names, "Rahul")
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled", func(t *testing.T) {
		store := memory.New()
		inserted, err := Run(ctx, store, Config{Enabled: false})
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)
	})

	t.Run("Empty store is seeded with zero points", func(t *testing.T) {
		store := memory.New()
		inserted, err := Run(ctx, store, Config{Enabled: true})
		require.NoError(t, err)
		assert.Equal(t, int64(10), inserted)

		users, err := store.ListRankedUsers(ctx)
		require.NoError(t, err)
		for _, u := range users {
			assert.Equal(t, int64(0), u.TotalPoints)
		}

		found, err := store.ListDiscrepancies(ctx)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("Populated store is left alone", func(t *testing.T) {
		store := memory.New()
		_, err := store.CreateUser(ctx, "Existing")
		require.NoError(t, err)

		inserted, err := Run(ctx, store, Config{Enabled: true})
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)

		count, err := store.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Count failure", func(t *testing.T) {
		_, err := Run(ctx, failingRepo{}, Config{Enabled: true})
		assert.Error(t, err)
	})
}

type failingRepo struct{}

func (failingRepo) CountUsers(context.Context) (int64, error) {
	return 0, errors.New("down")
}

func (failingRepo) SeedUsers(context.Context, []string) (int64, error) {
	return 0, errors.New("down")
}
