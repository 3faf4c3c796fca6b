package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leaderboard_app/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type claimRecord struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	UserName  string    `db:"user_name"`
	Points    int       `db:"points"`
	ClaimedAt time.Time `db:"claimed_at"`
}

type discrepancy struct {
	UserID        uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	TotalPoints   int64     `db:"total_points"`
	ClaimedPoints int64     `db:"claimed_points"`
	ClaimCount    int64     `db:"claim_count"`
}

// ClaimFilter narrows a history listing. Limit and Offset are already resolved
// from the caller's page parameters.
type ClaimFilter struct {
	UserID *uuid.UUID
	Limit  uint64
	Offset uint64
}

func insertClaim(ctx context.Context, q sqlx.QueryerContext, claim *model.ClaimRecord) error {
	query, args, err := squirrel.
		Insert("claim_history").
		SetMap(map[string]interface{}{
			"user_id": claim.UserID,
			"points":  claim.Points,
		}).
		Suffix("RETURNING id, claimed_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build claim insert query: %w", err)
	}

	var out struct {
		ID        uuid.UUID `db:"id"`
		ClaimedAt time.Time `db:"claimed_at"`
	}
	err = sqlx.GetContext(ctx, q, &out, query, args...)
	if err != nil {
		return classify(fmt.Errorf("failed to insert claim: %w", err))
	}

	claim.ID = out.ID
	claim.ClaimedAt = out.ClaimedAt.UTC()

	return nil
}

// ListClaims returns one page of history, newest first, together with the total
// number of matching records. Both reads share one read-only snapshot.
func (r *Repository) ListClaims(ctx context.Context, filter ClaimFilter) ([]*model.ClaimRecord, int64, error) {
	var (
		rows  []claimRecord
		total int64
	)

	where := squirrel.And{}
	if filter.UserID != nil {
		where = append(where, squirrel.Eq{"ch.user_id": *filter.UserID})
	}

	err := r.snapshot(ctx, func(tx *sqlx.Tx) error {
		countQuery, countArgs, err := squirrel.
			Select("count(*)").
			From("claim_history ch").
			Where(where).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build claim count query: %w", err)
		}

		err = tx.GetContext(ctx, &total, countQuery, countArgs...)
		if err != nil {
			return classify(fmt.Errorf("failed to count claims: %w", err))
		}

		query, args, err := squirrel.
			Select("ch.id", "ch.user_id", "u.name AS user_name", "ch.points", "ch.claimed_at").
			From("claim_history ch").
			Join("users u ON u.id = ch.user_id").
			Where(where).
			OrderBy("ch.claimed_at DESC", "ch.id DESC").
			Limit(filter.Limit).
			Offset(filter.Offset).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build claim history query: %w", err)
		}

		err = tx.SelectContext(ctx, &rows, query, args...)
		if err != nil {
			return classify(fmt.Errorf("failed to list claims: %w", err))
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	claims := make([]*model.ClaimRecord, len(rows))
	for i, row := range rows {
		claims[i] = &model.ClaimRecord{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Points:    row.Points,
			ClaimedAt: row.ClaimedAt.UTC(),
		}
	}

	return claims, total, nil
}

// ListDiscrepancies returns every user whose total differs from the sum of their claims.
func (r *Repository) ListDiscrepancies(ctx context.Context) ([]*model.Discrepancy, error) {
	query, args, err := squirrel.
		Select(
			"u.id",
			"u.name",
			"u.total_points",
			"COALESCE(SUM(ch.points), 0) AS claimed_points",
			"COUNT(ch.id) AS claim_count",
		).
		From("users u").
		LeftJoin("claim_history ch ON ch.user_id = u.id").
		GroupBy("u.id", "u.name", "u.total_points").
		Having("u.total_points <> COALESCE(SUM(ch.points), 0)").
		OrderBy("u.name").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build audit query: %w", err)
	}

	var rows []discrepancy
	err = r.snapshot(ctx, func(tx *sqlx.Tx) error {
		err := tx.SelectContext(ctx, &rows, query, args...)
		if err != nil {
			return classify(fmt.Errorf("failed to audit ledger: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*model.Discrepancy, len(rows))
	for i, row := range rows {
		out[i] = &model.Discrepancy{
			UserID:        row.UserID,
			Name:          row.Name,
			TotalPoints:   row.TotalPoints,
			ClaimedPoints: row.ClaimedPoints,
			ClaimCount:    row.ClaimCount,
		}
	}

	return out, nil
}

func (r *Repository) snapshot(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return classify(fmt.Errorf("begin snapshot: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	return t(tx)
}
