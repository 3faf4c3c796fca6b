package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinClaimPoints = 1
	MaxClaimPoints = 10
)

type ClaimRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Points    int
	ClaimedAt time.Time
}

type ClaimResult struct {
	Awarded     int
	UserName    string
	Claim       ClaimRecord
	Leaderboard []RankedUser
}

// HistoryQuery selects one page of claim history. An empty UserID means every user.
type HistoryQuery struct {
	UserID   string
	Page     int
	PageSize int
}

type HistoryPage struct {
	Records    []*ClaimRecord
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// Discrepancy is a user whose stored total disagrees with the sum of their claims.
type Discrepancy struct {
	UserID        uuid.UUID
	Name          string
	TotalPoints   int64
	ClaimedPoints int64
	ClaimCount    int64
}
