package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// KVTransactor keeps the whole playbook list under one key, most recent
// first. Each unit of work loads the list, runs against an in-memory copy and
// writes it back only when fn succeeds. Units of work are serialized within
// the process.
type KVTransactor struct {
	kv     KV
	logger *slog.Logger
	mu     sync.Mutex
}

// NewKVTransactor creates a Transactor over kv.
func NewKVTransactor(kv KV, logger *slog.Logger) *KVTransactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &KVTransactor{kv: kv, logger: logger}
}

func (t *KVTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, Repos{
		Playbooks: &kvPlaybookRepo{st: st},
		Settings:  &kvSettingsRepo{st: st},
	}); err != nil {
		return err
	}
	return t.commit(ctx, st)
}

type kvState struct {
	playbooks     []*domain.StoredPlaybook
	settings      domain.Settings
	dirtyPlaybook bool
	dirtySettings bool
	// Cleared keys are removed on commit unless written again.
	clearPlaybooks bool
	clearSettings  bool
}

// load reads both keys. A value that does not decode is logged and replaced
// by an empty list or default settings on the next commit.
func (t *KVTransactor) load(ctx context.Context) (*kvState, error) {
	st := &kvState{settings: domain.DefaultSettings()}

	raw, ok, err := t.kv.Get(ctx, KeyPlaybooks)
	if err != nil {
		return nil, fmt.Errorf("loading playbooks: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &st.playbooks); err != nil {
			t.logger.Warn("saved playbooks unreadable, starting with an empty list",
				"key", KeyPlaybooks, "error", err)
			st.playbooks = nil
			st.dirtyPlaybook = true
		}
	}

	raw, ok, err = t.kv.Get(ctx, KeySettings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if ok {
		var s domain.Settings
		if err := json.Unmarshal([]byte(raw), &s); err != nil || s.Validate() != nil {
			t.logger.Warn("saved settings unreadable, using defaults", "key", KeySettings, "error", err)
			st.dirtySettings = true
		} else {
			st.settings = s
		}
	}
	return st, nil
}

func (t *KVTransactor) commit(ctx context.Context, st *kvState) error {
	var drop []string
	switch {
	case st.clearPlaybooks && len(st.playbooks) == 0:
		drop = append(drop, KeyPlaybooks)
	case st.dirtyPlaybook:
		list := st.playbooks
		if list == nil {
			list = []*domain.StoredPlaybook{}
		}
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("encoding playbooks: %w", err)
		}
		if err := t.kv.Set(ctx, KeyPlaybooks, string(data)); err != nil {
			return err
		}
	}
	switch {
	case st.dirtySettings:
		data, err := json.Marshal(st.settings)
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		if err := t.kv.Set(ctx, KeySettings, string(data)); err != nil {
			return err
		}
	case st.clearSettings:
		drop = append(drop, KeySettings)
	}
	if len(drop) == 0 {
		return nil
	}
	return t.kv.Del(ctx, drop...)
}

type kvPlaybookRepo struct {
	st *kvState
}

func (r *kvPlaybookRepo) index(id string) int {
	return slices.IndexFunc(r.st.playbooks, func(sp *domain.StoredPlaybook) bool { return sp.ID == id })
}

func (r *kvPlaybookRepo) Upsert(_ context.Context, sp *domain.StoredPlaybook) error {
	if sp.SavedAt.IsZero() {
		sp.SavedAt = time.Now().UTC()
	}
	cp := *sp
	if i := r.index(sp.ID); i >= 0 {
		r.st.playbooks = slices.Delete(r.st.playbooks, i, i+1)
	}
	r.st.playbooks = slices.Insert(r.st.playbooks, 0, &cp)
	r.st.dirtyPlaybook = true
	return nil
}

func (r *kvPlaybookRepo) Update(_ context.Context, sp *domain.StoredPlaybook) error {
	i := r.index(sp.ID)
	if i < 0 {
		return fmt.Errorf("playbook %s: %w", sp.ID, ErrNotFound)
	}
	cp := *sp
	r.st.playbooks[i] = &cp
	r.st.dirtyPlaybook = true
	return nil
}

func (r *kvPlaybookRepo) Get(_ context.Context, id string) (*domain.StoredPlaybook, error) {
	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("playbook %s: %w", id, ErrNotFound)
	}
	cp := *r.st.playbooks[i]
	return &cp, nil
}

func (r *kvPlaybookRepo) List(_ context.Context) ([]*domain.StoredPlaybook, error) {
	out := make([]*domain.StoredPlaybook, 0, len(r.st.playbooks))
	for _, sp := range r.st.playbooks {
		cp := *sp
		out = append(out, &cp)
	}
	return out, nil
}

func (r *kvPlaybookRepo) Delete(_ context.Context, id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("playbook %s: %w", id, ErrNotFound)
	}
	r.st.playbooks = slices.Delete(r.st.playbooks, i, i+1)
	r.st.dirtyPlaybook = true
	return nil
}

func (r *kvPlaybookRepo) DeleteAll(_ context.Context) error {
	r.st.playbooks = nil
	r.st.dirtyPlaybook = true
	r.st.clearPlaybooks = true
	return nil
}

func (r *kvPlaybookRepo) Count(_ context.Context) (int, error) {
	return len(r.st.playbooks), nil
}

func (r *kvPlaybookRepo) ListEvictable(_ context.Context, limit int, keepID string) ([]string, error) {
	var ids []string
	for i := len(r.st.playbooks) - 1; i >= 0 && len(ids) < limit; i-- {
		sp := r.st.playbooks[i]
		if sp.Favorite || sp.ID == keepID {
			continue
		}
		ids = append(ids, sp.ID)
	}
	return ids, nil
}

type kvSettingsRepo struct {
	st *kvState
}

func (r *kvSettingsRepo) Get(_ context.Context) (domain.Settings, error) {
	return r.st.settings, nil
}

func (r *kvSettingsRepo) Put(_ context.Context, s domain.Settings) error {
	r.st.settings = s
	r.st.dirtySettings = true
	return nil
}

func (r *kvSettingsRepo) Reset(_ context.Context) error {
	r.st.settings = domain.DefaultSettings()
	r.st.dirtySettings = false
	r.st.clearSettings = true
	return nil
}
