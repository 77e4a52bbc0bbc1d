package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// PlaybookRepo stores saved playbooks in most-recent-first order.
type PlaybookRepo interface {
	// Upsert inserts or replaces sp by ID and moves it to the front.
	Upsert(ctx context.Context, sp *domain.StoredPlaybook) error
	// Update replaces sp in place without changing its position.
	Update(ctx context.Context, sp *domain.StoredPlaybook) error
	Get(ctx context.Context, id string) (*domain.StoredPlaybook, error)
	List(ctx context.Context) ([]*domain.StoredPlaybook, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	// ListEvictable returns up to limit IDs of non-favorite playbooks,
	// oldest first, never including keepID.
	ListEvictable(ctx context.Context, limit int, keepID string) ([]string, error)
}

// SettingsRepo persists user defaults. Get never fails on bad stored data;
// unreadable values fall back to domain.DefaultSettings.
type SettingsRepo interface {
	Get(ctx context.Context) (domain.Settings, error)
	Put(ctx context.Context, s domain.Settings) error
	// Reset drops every stored value so Get returns the defaults.
	Reset(ctx context.Context) error
}

// Repos are the repositories scoped to one transaction.
type Repos struct {
	Playbooks PlaybookRepo
	Settings  SettingsRepo
}

// Transactor runs fn against repositories that commit together. Returning an
// error from fn discards every change made through r.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}
