// Package memory is an in-process ledger store with the same contract as the
// PostgreSQL repository. It is used for local development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"leaderboard_app/internal/model"
	"leaderboard_app/internal/repository"

	"github.com/google/uuid"
)

type Option func(*Store)

// WithClock replaces the time source used for creation and claim timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

type Store struct {
	// txMu serializes transactions; mu guards the data itself.
	txMu sync.Mutex
	mu   sync.RWMutex

	users  map[uuid.UUID]*model.User
	names  map[string]uuid.UUID
	claims []*model.ClaimRecord

	now func() time.Time
}

func New(opts ...Option) *Store {
	s := &Store{
		users: make(map[uuid.UUID]*model.User),
		names: make(map[string]uuid.UUID),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Driver() string {
	return "memory"
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

// Transaction runs t with exclusive write access. Writes made through the Tx
// are staged and only become visible to other readers when t returns nil.
func (s *Store) Transaction(ctx context.Context, t func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memTx{
		store:  s,
		deltas: make(map[uuid.UUID]int64),
	}

	err := t(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	tx.commit()

	return nil
}

func (s *Store) CreateUser(ctx context.Context, name string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := s.names[key]; ok {
		return nil, fmt.Errorf("%w: name %q", repository.ErrConflict, name)
	}

	user := s.insertLocked(name)

	return copyUser(user), nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return copyUser(user), nil
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.names[strings.ToLower(name)]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return copyUser(s.users[id]), nil
}

func (s *Store) ListRankedUsers(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rankedLocked(nil), nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.users)), nil
}

// SeedUsers adds every name not already taken, case-insensitively.
func (s *Store) SeedUsers(ctx context.Context, names []string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for _, name := range names {
		if err := checkName(name); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted int64
	for _, name := range names {
		if _, ok := s.names[strings.ToLower(name)]; ok {
			continue
		}
		s.insertLocked(name)
		inserted++
	}

	return inserted, nil
}

func (s *Store) ListClaims(ctx context.Context, filter repository.ClaimFilter) ([]*model.ClaimRecord, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.ClaimRecord, 0, len(s.claims))
	for _, c := range s.claims {
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].ClaimedAt.Equal(matched[j].ClaimedAt) {
			return matched[i].ClaimedAt.After(matched[j].ClaimedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	total := int64(len(matched))
	start := filter.Offset
	if start > uint64(total) {
		start = uint64(total)
	}
	end := uint64(total)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}

	out := make([]*model.ClaimRecord, 0, end-start)
	for _, c := range matched[start:end] {
		record := *c
		record.UserName = s.users[c.UserID].Name
		out = append(out, &record)
	}

	return out, total, nil
}

func (s *Store) ListDiscrepancies(ctx context.Context) ([]*model.Discrepancy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	claimed := make(map[uuid.UUID]int64, len(s.users))
	counts := make(map[uuid.UUID]int64, len(s.users))
	for _, c := range s.claims {
		claimed[c.UserID] += int64(c.Points)
		counts[c.UserID]++
	}

	var out []*model.Discrepancy
	for id, user := range s.users {
		if user.TotalPoints == claimed[id] {
			continue
		}
		out = append(out, &model.Discrepancy{
			UserID:        id,
			Name:          user.Name,
			TotalPoints:   user.TotalPoints,
			ClaimedPoints: claimed[id],
			ClaimCount:    counts[id],
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (s *Store) insertLocked(name string) *model.User {
	now := s.now().UTC()
	user := &model.User{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[user.ID] = user
	s.names[strings.ToLower(name)] = user.ID
	return user
}

// rankedLocked returns copies of every user in ranking order with the staged
// deltas applied. The caller must hold mu.
func (s *Store) rankedLocked(deltas map[uuid.UUID]int64) []*model.User {
	users := make([]*model.User, 0, len(s.users))
	for id, u := range s.users {
		c := copyUser(u)
		c.TotalPoints += deltas[id]
		users = append(users, c)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].RanksBefore(users[j])
	})

	return users
}

// checkName mirrors the length check enforced by the users table.
func checkName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > model.MaxNameLength {
		return fmt.Errorf("%w: name length %d", repository.ErrConstraintViolation, n)
	}
	return nil
}

func copyUser(u *model.User) *model.User {
	c := *u
	return &c
}

type memTx struct {
	store  *Store
	deltas map[uuid.UUID]int64
	claims []*model.ClaimRecord
}

var _ repository.Tx = (*memTx)(nil)

func (t *memTx) GetUserForUpdate(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	user, ok := t.store.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	c := copyUser(user)
	c.TotalPoints += t.deltas[id]

	return c, nil
}

func (t *memTx) IncrementUserPoints(ctx context.Context, id uuid.UUID, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	user, ok := t.store.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if user.TotalPoints+t.deltas[id]+int64(delta) < 0 {
		return fmt.Errorf("%w: negative total for %s", repository.ErrConstraintViolation, id)
	}

	t.deltas[id] += int64(delta)

	return nil
}

func (t *memTx) InsertClaim(ctx context.Context, claim *model.ClaimRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if claim.Points < model.MinClaimPoints || claim.Points > model.MaxClaimPoints {
		return fmt.Errorf("%w: points %d", repository.ErrConstraintViolation, claim.Points)
	}

	t.store.mu.RLock()
	_, ok := t.store.users[claim.UserID]
	t.store.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: claim references unknown user %s", repository.ErrNotFound, claim.UserID)
	}

	claim.ID = uuid.New()
	claim.ClaimedAt = t.store.now().UTC()

	staged := *claim
	t.claims = append(t.claims, &staged)

	return nil
}

func (t *memTx) ListRankedUsers(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	return t.store.rankedLocked(t.deltas), nil
}

func (t *memTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	now := t.store.now().UTC()
	for id, delta := range t.deltas {
		user := t.store.users[id]
		user.TotalPoints += delta
		user.UpdatedAt = now
	}
	t.store.claims = append(t.store.claims, t.claims...)
}
