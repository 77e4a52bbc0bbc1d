package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/export"
	"github.com/alexanderramin/peplaybook/internal/intelligence"
	"github.com/alexanderramin/peplaybook/internal/llm"
)

var (
	// ErrRetentionFull is returned when a new playbook cannot be saved because
	// every retained slot holds a favorite.
	ErrRetentionFull = errors.New("retention limit reached: every saved playbook is a favorite")
	// ErrAmbiguousID is returned when an ID prefix matches more than one playbook.
	ErrAmbiguousID = errors.New("ambiguous playbook id")
	// ErrInvalidBackup is returned by Restore for a document it cannot use.
	ErrInvalidBackup = errors.New("invalid backup document")
)

// GenerateMode selects the generator behind a GenerateRequest.
type GenerateMode string

const (
	ModeDeterministic GenerateMode = "deterministic"
	ModeAI            GenerateMode = "ai"
)

// GenerateRequest describes one generation. Save forces persistence; when
// nil, the stored AutoSave setting decides. Seed makes a deterministic
// generation repeatable.
type GenerateRequest struct {
	Input       domain.GeneratorInput
	Mode        GenerateMode
	Credentials llm.Credentials
	Save        *bool
	Name        string
	Seed        *uint64
}

// GenerateResult carries the playbook and, when it was persisted, the stored
// record.
type GenerateResult struct {
	Playbook *domain.Playbook
	Saved    *domain.StoredPlaybook
}

// Backup is the portable document produced by Backup and consumed by Restore.
type Backup struct {
	Version    string                   `json:"version"`
	ExportDate time.Time                `json:"exportDate"`
	Playbooks  []*domain.StoredPlaybook `json:"playbooks"`
	Settings   domain.Settings          `json:"settings"`
}

// Edit names the fields to change on a stored playbook. Nil fields are left
// alone.
type Edit struct {
	Name     *string
	Favorite *bool
	Tags     *[]string
}

func (e Edit) empty() bool {
	return e.Name == nil && e.Favorite == nil && e.Tags == nil
}

type PlaybookService interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
	// Save stores p under its ID, evicting the oldest non-favorite playbooks
	// beyond the retention cap. A non-empty name replaces the stored name.
	Save(ctx context.Context, p *domain.Playbook, name string) (*domain.StoredPlaybook, error)
	// Get accepts a full ID or a unique prefix.
	Get(ctx context.Context, id string) (*domain.StoredPlaybook, error)
	List(ctx context.Context) ([]*domain.StoredPlaybook, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, name string) (*domain.StoredPlaybook, error)
	SetFavorite(ctx context.Context, id string, favorite bool) (*domain.StoredPlaybook, error)
	SetTags(ctx context.Context, id string, tags []string) (*domain.StoredPlaybook, error)
	// Edit applies every present field of e in one transaction.
	Edit(ctx context.Context, id string, e Edit) (*domain.StoredPlaybook, error)
	// Clear removes every saved playbook and resets the settings. It returns
	// the number of playbooks removed.
	Clear(ctx context.Context) (int, error)
	// AIStatus resolves creds against the stored AI settings and checks the
	// provider.
	AIStatus(ctx context.Context, creds llm.Credentials) (intelligence.Status, error)
	Export(ctx context.Context, id string, format export.Format) (*export.Document, *domain.StoredPlaybook, error)
	Backup(ctx context.Context) (*Backup, error)
	// Restore replaces every stored playbook and the settings with b.
	Restore(ctx context.Context, b *Backup) (int, error)
}

type SettingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	// Update applies key/value pairs atomically; any invalid pair aborts all.
	Update(ctx context.Context, values map[string]string) (domain.Settings, error)
}

type CatalogService interface {
	Standards(ctx context.Context) []domain.Standard
	Activities(ctx context.Context, q catalog.Query) []domain.Activity
}
