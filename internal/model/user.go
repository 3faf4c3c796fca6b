package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxNameLength = 50
)

type User struct {
	ID          uuid.UUID
	Name        string
	TotalPoints int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RankedUser is a User projected with its 1-based position in the standings.
// Rank is derived at query time and never stored.
type RankedUser struct {
	ID          uuid.UUID
	Name        string
	TotalPoints int64
	CreatedAt   time.Time
	Rank        int
}

// RanksBefore reports whether u is ordered ahead of other: more points first,
// then earlier creation, then the lower id so the order stays total.
func (u *User) RanksBefore(other *User) bool {
	if u.TotalPoints != other.TotalPoints {
		return u.TotalPoints > other.TotalPoints
	}
	if !u.CreatedAt.Equal(other.CreatedAt) {
		return u.CreatedAt.Before(other.CreatedAt)
	}
	return u.ID.String() < other.ID.String()
}
