package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/export"
	"github.com/alexanderramin/peplaybook/internal/generator"
	"github.com/alexanderramin/peplaybook/internal/intelligence"
	"github.com/alexanderramin/peplaybook/internal/llm"
	"github.com/alexanderramin/peplaybook/internal/repository"
)

type playbookService struct {
	store     repository.Transactor
	gen       *generator.Generator
	ai        intelligence.PlaybookService
	retention int
	now       func() time.Time
	observer  UseCaseObserver
}

// PlaybookOption configures a PlaybookService.
type PlaybookOption func(*playbookService)

// WithRetention overrides the stored retention cap. Values below 1 are ignored.
func WithRetention(n int) PlaybookOption {
	return func(s *playbookService) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithObserver sets the use-case observer.
func WithObserver(obs UseCaseObserver) PlaybookOption {
	return func(s *playbookService) {
		s.observer = useCaseObserverOrNoop([]UseCaseObserver{obs})
	}
}

// WithNow sets the clock used for save and backup timestamps.
func WithNow(now func() time.Time) PlaybookOption {
	return func(s *playbookService) {
		s.now = now
	}
}

// NewPlaybookService wires generation and storage. ai may be nil, in which
// case AI requests fail with llm.ErrNotConfigured.
func NewPlaybookService(
	store repository.Transactor,
	gen *generator.Generator,
	ai intelligence.PlaybookService,
	opts ...PlaybookOption,
) PlaybookService {
	s := &playbookService{
		store:    store,
		gen:      gen,
		ai:       ai,
		now:      func() time.Time { return time.Now().UTC() },
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *playbookService) Generate(ctx context.Context, req GenerateRequest) (result *GenerateResult, err error) {
	fields := map[string]any{"mode": string(req.Mode)}
	defer track(ctx, s.observer, "generate-playbook", fields)(&err)

	var settings domain.Settings
	if err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		settings, err = r.Settings.Get(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	var p *domain.Playbook
	switch req.Mode {
	case ModeAI:
		if s.ai == nil {
			return nil, llm.ErrNotConfigured
		}
		p, err = s.ai.Generate(ctx, req.Input, storedCredentials(req.Credentials, settings))
	case ModeDeterministic, "":
		gen := s.gen
		if req.Seed != nil {
			gen = generator.New(s.gen.Catalog(), generator.WithSeed(*req.Seed), generator.WithClock(s.now))
		}
		p, err = gen.GenerateChecked(req.Input.Normalize())
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, req.Mode)
	}
	if err != nil {
		return nil, err
	}
	fields["playbook_id"] = p.ID
	fields["source"] = string(p.Metadata.Source)
	if p.Metadata.FallbackReason != "" {
		fields["fallback_reason"] = p.Metadata.FallbackReason
	}

	result = &GenerateResult{Playbook: p}
	save := settings.AutoSave
	if req.Save != nil {
		save = *req.Save
	}
	if !save {
		return result, nil
	}
	result.Saved, err = s.Save(ctx, p, req.Name)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// storedCredentials fills the provider, and the model for that provider, from
// the stored settings.
func storedCredentials(creds llm.Credentials, settings domain.Settings) llm.Credentials {
	if creds.Provider == "" {
		creds.Provider = settings.AIProvider
	}
	if creds.Model == "" && creds.Provider == settings.AIProvider {
		creds.Model = settings.AIModel
	}
	return creds
}

func (s *playbookService) AIStatus(ctx context.Context, creds llm.Credentials) (intelligence.Status, error) {
	if s.ai == nil {
		return intelligence.Status{Error: llm.ErrorCode(llm.ErrNotConfigured)}, nil
	}
	var settings domain.Settings
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		settings, err = r.Settings.Get(ctx)
		return err
	})
	if err != nil {
		return intelligence.Status{}, fmt.Errorf("loading settings: %w", err)
	}
	return s.ai.Status(ctx, storedCredentials(creds, settings)), nil
}

func (s *playbookService) Save(ctx context.Context, p *domain.Playbook, name string) (saved *domain.StoredPlaybook, err error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nothing to save", domain.ErrInvalidInput)
	}
	fields := map[string]any{}
	defer track(ctx, s.observer, "save-playbook", fields)(&err)

	now := s.now()
	if p.ID == "" {
		p.ID = domain.NewPlaybookID(now)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	fields["playbook_id"] = p.ID

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		settings, err := r.Settings.Get(ctx)
		if err != nil {
			return err
		}
		limit := s.retentionCap(settings)

		sp := &domain.StoredPlaybook{Playbook: *p, Name: strings.TrimSpace(name), SavedAt: now}
		existing, err := r.Playbooks.Get(ctx, p.ID)
		switch {
		case err == nil:
			if sp.Name == "" {
				sp.Name = existing.Name
			}
			sp.Favorite = existing.Favorite
			sp.Tags = existing.Tags
			modified := now
			sp.ModifiedAt = &modified
		case errors.Is(err, repository.ErrNotFound):
			existing = nil
		default:
			return err
		}

		count, err := r.Playbooks.Count(ctx)
		if err != nil {
			return err
		}
		if existing == nil {
			count++
		}
		if overflow := count - limit; overflow > 0 {
			evicted, err := evictOldest(ctx, r.Playbooks, overflow, p.ID)
			if err != nil {
				return err
			}
			if existing == nil && evicted < overflow {
				return ErrRetentionFull
			}
			fields["evicted"] = evicted
		}

		if err := r.Playbooks.Upsert(ctx, sp); err != nil {
			return err
		}
		saved = sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// evictOldest deletes up to n of the oldest non-favorite playbooks, never
// keepID, and returns how many it removed.
func evictOldest(ctx context.Context, repo repository.PlaybookRepo, n int, keepID string) (int, error) {
	victims, err := repo.ListEvictable(ctx, n, keepID)
	if err != nil {
		return 0, err
	}
	for _, id := range victims {
		if err := repo.Delete(ctx, id); err != nil {
			return 0, fmt.Errorf("evicting playbook %s: %w", id, err)
		}
	}
	return len(victims), nil
}

func (s *playbookService) retentionCap(settings domain.Settings) int {
	if s.retention > 0 {
		return s.retention
	}
	if settings.RetentionCap > 0 {
		return settings.RetentionCap
	}
	return domain.DefaultRetention
}

func (s *playbookService) Get(ctx context.Context, id string) (sp *domain.StoredPlaybook, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		sp, err = resolve(ctx, r.Playbooks, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *playbookService) List(ctx context.Context) (out []*domain.StoredPlaybook, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		out, err = r.Playbooks.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *playbookService) Delete(ctx context.Context, id string) (err error) {
	fields := map[string]any{"id": id}
	defer track(ctx, s.observer, "delete-playbook", fields)(&err)

	return s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		sp, err := resolve(ctx, r.Playbooks, id)
		if err != nil {
			return err
		}
		fields["playbook_id"] = sp.ID
		return r.Playbooks.Delete(ctx, sp.ID)
	})
}

func (s *playbookService) Rename(ctx context.Context, id, name string) (*domain.StoredPlaybook, error) {
	return s.edit(ctx, "rename-playbook", id, Edit{Name: &name})
}

func (s *playbookService) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.StoredPlaybook, error) {
	return s.edit(ctx, "favorite-playbook", id, Edit{Favorite: &favorite})
}

func (s *playbookService) SetTags(ctx context.Context, id string, tags []string) (*domain.StoredPlaybook, error) {
	return s.edit(ctx, "tag-playbook", id, Edit{Tags: &tags})
}

func (s *playbookService) Edit(ctx context.Context, id string, e Edit) (*domain.StoredPlaybook, error) {
	return s.edit(ctx, "edit-playbook", id, e)
}

// edit validates e before opening the transaction, so a bad field leaves the
// stored playbook untouched.
func (s *playbookService) edit(ctx context.Context, name, id string, e Edit) (*domain.StoredPlaybook, error) {
	if e.empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	var newName string
	if e.Name != nil {
		newName = strings.TrimSpace(*e.Name)
		if newName == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidInput)
		}
	}
	var tags []string
	if e.Tags != nil {
		tags = normalizeTags(*e.Tags)
	}
	return s.update(ctx, name, id, func(sp *domain.StoredPlaybook) {
		if e.Name != nil {
			sp.Name = newName
		}
		if e.Favorite != nil {
			sp.Favorite = *e.Favorite
		}
		if e.Tags != nil {
			sp.Tags = tags
		}
	})
}

// update edits a stored playbook in place without moving it in the list.
func (s *playbookService) update(ctx context.Context, name, id string, edit func(*domain.StoredPlaybook)) (sp *domain.StoredPlaybook, err error) {
	fields := map[string]any{"id": id}
	defer track(ctx, s.observer, name, fields)(&err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		sp, err = resolve(ctx, r.Playbooks, id)
		if err != nil {
			return err
		}
		edit(sp)
		modified := s.now()
		sp.ModifiedAt = &modified
		return r.Playbooks.Update(ctx, sp)
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *playbookService) Clear(ctx context.Context) (n int, err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "clear-all", fields)(&err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if n, err = r.Playbooks.Count(ctx); err != nil {
			return err
		}
		if err := r.Playbooks.DeleteAll(ctx); err != nil {
			return err
		}
		return r.Settings.Reset(ctx)
	})
	if err != nil {
		return 0, err
	}
	fields["playbooks"] = n
	return n, nil
}

func (s *playbookService) Export(ctx context.Context, id string, format export.Format) (*export.Document, *domain.StoredPlaybook, error) {
	sp, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := export.Render(&sp.Playbook, format)
	if err != nil {
		return nil, nil, err
	}
	return &doc, sp, nil
}

func (s *playbookService) Backup(ctx context.Context) (b *Backup, err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "backup", fields)(&err)

	b = &Backup{Version: domain.SchemaVersion, ExportDate: s.now()}
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		if b.Playbooks, err = r.Playbooks.List(ctx); err != nil {
			return err
		}
		b.Settings, err = r.Settings.Get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if b.Playbooks == nil {
		b.Playbooks = []*domain.StoredPlaybook{}
	}
	fields["playbooks"] = len(b.Playbooks)
	return b, nil
}

func (s *playbookService) Restore(ctx context.Context, b *Backup) (n int, err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "restore", fields)(&err)

	if b == nil || b.Version == "" {
		return 0, fmt.Errorf("%w: missing version", ErrInvalidBackup)
	}
	settings := b.Settings
	if err := settings.Validate(); err != nil {
		settings = domain.DefaultSettings()
	}
	for i, sp := range b.Playbooks {
		if sp == nil || sp.ID == "" {
			return 0, fmt.Errorf("%w: playbook %d has no id", ErrInvalidBackup, i+1)
		}
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Playbooks.DeleteAll(ctx); err != nil {
			return err
		}
		// Backups list newest first; insert oldest first to keep that order.
		for i := len(b.Playbooks) - 1; i >= 0; i-- {
			if err := r.Playbooks.Upsert(ctx, b.Playbooks[i]); err != nil {
				return err
			}
		}
		return r.Settings.Put(ctx, settings)
	})
	if err != nil {
		return 0, err
	}
	fields["playbooks"] = len(b.Playbooks)
	return len(b.Playbooks), nil
}
