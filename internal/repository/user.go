package repository

import (
	"context"
	"fmt"
	"time"

	"leaderboard_app/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var userColumns = []string{"id", "name", "total_points", "created_at", "updated_at"}

type User struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	TotalPoints int64     `db:"total_points"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		ID:          u.ID,
		Name:        u.Name,
		TotalPoints: u.TotalPoints,
		CreatedAt:   u.CreatedAt.UTC(),
		UpdatedAt:   u.UpdatedAt.UTC(),
	}
}

func (r *Repository) CreateUser(ctx context.Context, name string) (*model.User, error) {
	query, args, err := squirrel.
		Insert("users").
		Columns("name").
		Values(name).
		Suffix("RETURNING id, name, total_points, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user insert query: %w", err)
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to insert user: %w", err))
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return getUser(ctx, r.db, id, false)
}

// GetUserByName looks a user up by display name, ignoring case.
func (r *Repository) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user by name query: %w", err)
	}

	var user User
	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		return nil, classify(err)
	}

	return user.toModel(), nil
}

func (r *Repository) ListRankedUsers(ctx context.Context) ([]*model.User, error) {
	return listRankedUsers(ctx, r.db)
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	query, args, err := squirrel.
		Select("count(*)").
		From("users").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build user count query: %w", err)
	}

	var count int64
	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to count users: %w", err))
	}

	return count, nil
}

// SeedUsers inserts every name that is not taken yet and returns how many rows were added.
func (r *Repository) SeedUsers(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	query, args, err := squirrel.
		Insert("users").
		Columns("name").
		Select(squirrel.Select().Column(squirrel.Expr("unnest(?::text[])", pq.Array(names)))).
		Suffix("ON CONFLICT DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build seed query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(fmt.Errorf("failed to seed users: %w", err))
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return inserted, nil
}

func getUser(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, forUpdate bool) (*model.User, error) {
	builder := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user select query: %w", err)
	}

	var user User
	err = sqlx.GetContext(ctx, q, &user, query, args...)
	if err != nil {
		return nil, classify(err)
	}

	return user.toModel(), nil
}

func incrementUserPoints(ctx context.Context, e sqlx.ExecerContext, id uuid.UUID, delta int) error {
	query, args, err := squirrel.
		Update("users").
		Set("total_points", squirrel.Expr("total_points + ?", delta)).
		Set("updated_at", squirrel.Expr("clock_timestamp()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build points update query: %w", err)
	}

	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(fmt.Errorf("failed to increment points: %w", err))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func listRankedUsers(ctx context.Context, q sqlx.QueryerContext) ([]*model.User, error) {
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		OrderBy("total_points DESC", "created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ranking query: %w", err)
	}

	var rows []User
	err = sqlx.SelectContext(ctx, q, &rows, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list users: %w", err))
	}

	users := make([]*model.User, len(rows))
	for i := range rows {
		users[i] = rows[i].toModel()
	}

	return users, nil
}
