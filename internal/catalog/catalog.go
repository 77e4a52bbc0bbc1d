package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var bundled embed.FS

// Catalog holds the activity and standards reference data. It is read-only
// between reloads and safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	dir        string
	logger     *slog.Logger
	activities []domain.Activity
	standards  []domain.Standard
	byID       map[string]domain.Standard
	loadErrs   []error
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger routes load warnings to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Load builds a catalog from the bundled data, replacing either list with
// activities.{json,yaml,yml} or standards.{json,yaml,yml} found in dir.
// A file that fails to parse yields an empty list and a logged warning.
func Load(dir string, opts ...Option) *Catalog {
	c := &Catalog{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.Reload()
	return c
}

// New builds a catalog from in-memory data.
func New(activities []domain.Activity, standards []domain.Standard) *Catalog {
	c := &Catalog{logger: slog.Default()}
	c.set(activities, standards, nil)
	return c
}

// Reload re-reads the bundled data and any overrides.
func (c *Catalog) Reload() {
	var errs []error

	activities, err := c.loadActivities()
	if err != nil {
		c.logger.Warn("activity catalog unavailable, continuing with an empty list", "error", err)
		errs = append(errs, err)
		activities = nil
	}
	standards, err := c.loadStandards()
	if err != nil {
		c.logger.Warn("standards catalog unavailable, continuing with an empty list", "error", err)
		errs = append(errs, err)
		standards = nil
	}

	c.set(activities, standards, errs)
	c.logger.Debug("catalog loaded", "activities", len(activities), "standards", len(standards), "dir", c.dir)
}

func (c *Catalog) set(activities []domain.Activity, standards []domain.Standard, errs []error) {
	byID := make(map[string]domain.Standard, len(standards))
	for _, s := range standards {
		byID[s.ID] = s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activities = activities
	c.standards = standards
	c.byID = byID
	c.loadErrs = errs
}

// LoadErrors reports what failed during the last load.
func (c *Catalog) LoadErrors() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]error(nil), c.loadErrs...)
}

func (c *Catalog) Activities() []domain.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Activity(nil), c.activities...)
}

func (c *Catalog) Standards() []domain.Standard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Standard(nil), c.standards...)
}

// Standard looks up a standard by ID.
func (c *Catalog) Standard(id string) (domain.Standard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.byID[id]
	return s, ok
}

// StandardNames resolves IDs to display names. Unknown IDs are echoed back.
func (c *Catalog) StandardNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.Standard(id); ok && s.Name != "" {
			names = append(names, s.Name)
			continue
		}
		names = append(names, id)
	}
	return names
}

// UnknownStandards returns the IDs not present in the catalog.
func (c *Catalog) UnknownStandards(ids []string) []string {
	var unknown []string
	for _, id := range ids {
		if _, ok := c.Standard(id); !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

func (c *Catalog) loadActivities() ([]domain.Activity, error) {
	data, name, err := c.source("activities")
	if err != nil {
		return nil, err
	}
	return decodeActivities(data, name)
}

func (c *Catalog) loadStandards() ([]domain.Standard, error) {
	data, name, err := c.source("standards")
	if err != nil {
		return nil, err
	}
	return decodeStandards(data, name)
}

// source returns the override file for base when present, else the bundled JSON.
func (c *Catalog) source(base string) ([]byte, string, error) {
	if c.dir != "" {
		for _, ext := range []string{".json", ".yaml", ".yml"} {
			path := filepath.Join(c.dir, base+ext)
			data, err := os.ReadFile(path)
			if err == nil {
				return data, path, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, path, fmt.Errorf("reading %s: %w", path, err)
			}
		}
	}
	name := "data/" + base + ".json"
	data, err := bundled.ReadFile(name)
	if err != nil {
		return nil, name, fmt.Errorf("reading bundled %s: %w", name, err)
	}
	return data, name, nil
}

type activityFile struct {
	Activities []domain.Activity `json:"activities" yaml:"activities"`
}

func decodeActivities(data []byte, name string) ([]domain.Activity, error) {
	var list []domain.Activity
	if isYAML(name) {
		var wrapped activityFile
		if err := yaml.Unmarshal(data, &wrapped); err == nil && wrapped.Activities != nil {
			list = wrapped.Activities
		} else if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	} else {
		var wrapped activityFile
		if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Activities != nil {
			list = wrapped.Activities
		} else if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	out := list[:0]
	for _, a := range list {
		if a.ID == "" || a.Name == "" || !a.Category.Valid() {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeStandards(data []byte, name string) ([]domain.Standard, error) {
	var list []domain.Standard
	var err error
	if isYAML(name) {
		err = yaml.Unmarshal(data, &list)
	} else {
		err = json.Unmarshal(data, &list)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	out := list[:0]
	for _, s := range list {
		if s.ID == "" {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
