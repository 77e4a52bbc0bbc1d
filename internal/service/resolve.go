package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/repository"
)

// resolve finds a stored playbook from user input, which can be:
//   - a full ID
//   - a unique ID prefix (at least 4 characters)
//   - a 1-based position in the most-recent-first list
func resolve(ctx context.Context, repo repository.PlaybookRepo, input string) (*domain.StoredPlaybook, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: playbook id is required", domain.ErrInvalidInput)
	}

	sp, err := repo.Get(ctx, input)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	all, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if n, convErr := strconv.Atoi(strings.TrimPrefix(input, "#")); convErr == nil {
		if n >= 1 && n <= len(all) {
			return all[n-1], nil
		}
		return nil, fmt.Errorf("playbook #%d: %w", n, repository.ErrNotFound)
	}

	if len(input) < 4 {
		return nil, fmt.Errorf("playbook %s: %w", input, repository.ErrNotFound)
	}
	var matches []*domain.StoredPlaybook
	for _, candidate := range all {
		if strings.HasPrefix(candidate.ID, input) {
			matches = append(matches, candidate)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("playbook %s: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("%w: %q matches %d playbooks", ErrAmbiguousID, input, len(matches))
}

// normalizeTags trims, lowercases and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
