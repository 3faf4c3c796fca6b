package repository

import (
	"context"

	"leaderboard_app/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tx is the unit of work handed to a Transaction callback. Every read sees the
// writes made earlier in the same transaction.
type Tx interface {
	GetUserForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error)
	IncrementUserPoints(ctx context.Context, id uuid.UUID, delta int) error
	InsertClaim(ctx context.Context, claim *model.ClaimRecord) error
	ListRankedUsers(ctx context.Context) ([]*model.User, error)
}

type pgTx struct {
	tx *sqlx.Tx
}

var _ Tx = (*pgTx)(nil)

func (t *pgTx) GetUserForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return getUser(ctx, t.tx, id, true)
}

func (t *pgTx) IncrementUserPoints(ctx context.Context, id uuid.UUID, delta int) error {
	return incrementUserPoints(ctx, t.tx, id, delta)
}

func (t *pgTx) InsertClaim(ctx context.Context, claim *model.ClaimRecord) error {
	return insertClaim(ctx, t.tx, claim)
}

func (t *pgTx) ListRankedUsers(ctx context.Context) ([]*model.User, error) {
	return listRankedUsers(ctx, t.tx)
}
