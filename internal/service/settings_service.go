package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/repository"
)

type settingsService struct {
	store     repository.Transactor
	observer  UseCaseObserver
	retention int
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*settingsService)

// WithSettingsObserver sets the use-case observer.
func WithSettingsObserver(obs UseCaseObserver) SettingsOption {
	return func(s *settingsService) {
		s.observer = useCaseObserverOrNoop([]UseCaseObserver{obs})
	}
}

// WithRetentionOverride marks the stored retention cap as overridden by
// configuration, so changing it never trims the store.
func WithRetentionOverride(n int) SettingsOption {
	return func(s *settingsService) {
		if n > 0 {
			s.retention = n
		}
	}
}

func NewSettingsService(store repository.Transactor, opts ...SettingsOption) SettingsService {
	s := &settingsService{store: store, observer: NoopUseCaseObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settingsService) Get(ctx context.Context) (settings domain.Settings, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		settings, err = r.Settings.Get(ctx)
		return err
	})
	return settings, err
}

func (s *settingsService) Update(ctx context.Context, values map[string]string) (settings domain.Settings, err error) {
	fields := map[string]any{"keys": len(values)}
	defer track(ctx, s.observer, "update-settings", fields)(&err)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err = s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		current, err := r.Settings.Get(ctx)
		if err != nil {
			return err
		}
		previous := current.RetentionCap
		for _, k := range keys {
			if err := current.Set(k, values[k]); err != nil {
				return fmt.Errorf("setting %s: %w", k, err)
			}
		}
		if err := current.Validate(); err != nil {
			return err
		}
		if err := r.Settings.Put(ctx, current); err != nil {
			return err
		}
		if s.retention == 0 && current.RetentionCap < previous {
			evicted, err := s.trim(ctx, r.Playbooks, current.RetentionCap)
			if err != nil {
				return err
			}
			fields["evicted"] = evicted
		}
		settings = current
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// trim evicts the oldest non-favorites until at most limit playbooks remain.
// Favorites are kept even when they alone exceed limit.
func (s *settingsService) trim(ctx context.Context, repo repository.PlaybookRepo, limit int) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count <= limit {
		return 0, nil
	}
	return evictOldest(ctx, repo, count-limit, "")
}
