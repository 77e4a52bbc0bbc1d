package repository_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/repository"
	"github.com/alexanderramin/peplaybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores runs each test against both store implementations.
func stores(t *testing.T) map[string]repository.Transactor {
	t.Helper()
	return map[string]repository.Transactor{
		"sqlite": testutil.NewTestTransactor(t),
		"kv":     repository.NewKVTransactor(repository.NewMemoryKV(), testutil.DiscardLogger()),
	}
}

func upsert(t *testing.T, tr repository.Transactor, sps ...*domain.StoredPlaybook) {
	t.Helper()
	err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
		for _, sp := range sps {
			if err := r.Playbooks.Upsert(ctx, sp); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func list(t *testing.T, tr repository.Transactor) []*domain.StoredPlaybook {
	t.Helper()
	var out []*domain.StoredPlaybook
	err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
		var err error
		out, err = r.Playbooks.List(ctx)
		return err
	})
	require.NoError(t, err)
	return out
}

func ids(sps []*domain.StoredPlaybook) []string {
	out := make([]string, 0, len(sps))
	for _, sp := range sps {
		out = append(out, sp.ID)
	}
	return out
}

func TestPlaybookRepo_UpsertAndGet(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			sp := testutil.NewTestPlaybook("Throwing Unit", testutil.WithName("My unit"), testutil.WithTags("fall", "grade4"))
			upsert(t, tr, sp)

			var got *domain.StoredPlaybook
			err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				var err error
				got, err = r.Playbooks.Get(ctx, sp.ID)
				return err
			})
			require.NoError(t, err)

			assert.Equal(t, sp.ID, got.ID)
			assert.Equal(t, "My unit", got.Name)
			assert.Equal(t, []string{"fall", "grade4"}, got.Tags)
			assert.Equal(t, "Throwing Unit", got.Title)
			require.Len(t, got.Lessons, 2)
			assert.Equal(t, "Target Toss", got.Lessons[0].MainActivity.Name)
			assert.True(t, sp.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestPlaybookRepo_GetMissing(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				_, err := r.Playbooks.Get(ctx, "pb_nope")
				return err
			})
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestPlaybookRepo_ListMostRecentFirstAndResaveMovesToFront(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := testutil.NewTestPlaybook("A")
			b := testutil.NewTestPlaybook("B")
			c := testutil.NewTestPlaybook("C")
			upsert(t, tr, a, b, c)
			assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids(list(t, tr)))

			a.Title = "A revised"
			upsert(t, tr, a)
			got := list(t, tr)
			assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids(got))
			assert.Equal(t, "A revised", got[0].Title)
			assert.Len(t, got, 3, "re-save replaces instead of duplicating")
		})
	}
}

func TestPlaybookRepo_UpdateKeepsPosition(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := testutil.NewTestPlaybook("A")
			b := testutil.NewTestPlaybook("B")
			upsert(t, tr, a, b)

			a.Favorite = true
			err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				return r.Playbooks.Update(ctx, a)
			})
			require.NoError(t, err)

			got := list(t, tr)
			assert.Equal(t, []string{b.ID, a.ID}, ids(got))
			assert.True(t, got[1].Favorite)

			err = tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				return r.Playbooks.Update(ctx, testutil.NewTestPlaybook("ghost"))
			})
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestPlaybookRepo_DeleteAndCount(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := testutil.NewTestPlaybook("A")
			b := testutil.NewTestPlaybook("B")
			upsert(t, tr, a, b)

			err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				if err := r.Playbooks.Delete(ctx, a.ID); err != nil {
					return err
				}
				n, err := r.Playbooks.Count(ctx)
				assert.Equal(t, 1, n)
				return err
			})
			require.NoError(t, err)

			err = tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				return r.Playbooks.Delete(ctx, a.ID)
			})
			assert.ErrorIs(t, err, repository.ErrNotFound)

			err = tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				return r.Playbooks.DeleteAll(ctx)
			})
			require.NoError(t, err)
			assert.Empty(t, list(t, tr))
		})
	}
}

func TestPlaybookRepo_ListEvictableSkipsFavoritesAndKeepID(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			oldest := testutil.NewTestPlaybook("oldest", testutil.WithFavorite())
			second := testutil.NewTestPlaybook("second")
			third := testutil.NewTestPlaybook("third")
			newest := testutil.NewTestPlaybook("newest")
			upsert(t, tr, oldest, second, third, newest)

			var got []string
			err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				var err error
				got, err = r.Playbooks.ListEvictable(ctx, 5, newest.ID)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, []string{second.ID, third.ID}, got)
		})
	}
}

func TestTransactor_RollbackOnError(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := tr.WithinTx(context.Background(), func(ctx context.Context, r repository.Repos) error {
				if err := r.Playbooks.Upsert(ctx, testutil.NewTestPlaybook("doomed")); err != nil {
					return err
				}
				return assert.AnError
			})
			assert.ErrorIs(t, err, assert.AnError)
			assert.Empty(t, list(t, tr))
		})
	}
}

func TestSQLitePlaybookRepo_CorruptRowDropped(t *testing.T) {
	database := testutil.NewTestDB(t)
	var logs bytes.Buffer
	repo := repository.NewSQLitePlaybookRepo(database, slog.New(slog.NewTextHandler(&logs, nil)))
	ctx := context.Background()

	good := testutil.NewTestPlaybook("good")
	require.NoError(t, repo.Upsert(ctx, good))
	_, err := database.Exec(`INSERT INTO playbooks (id, seq, title, payload, created_at, saved_at)
		VALUES ('pb_bad', 99, 'bad', '{not json', '2025-09-01T00:00:00Z', '2025-09-01T00:00:00Z')`)
	require.NoError(t, err)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{good.ID}, ids(got))
	assert.Contains(t, logs.String(), "pb_bad")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "corrupt row is removed")
}

func TestKVTransactor_CorruptBlobReinitialized(t *testing.T) {
	kv := repository.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, repository.KeyPlaybooks, "[{broken"))
	require.NoError(t, kv.Set(ctx, repository.KeySettings, "nope"))

	var logs bytes.Buffer
	tr := repository.NewKVTransactor(kv, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Empty(t, list(t, tr))
	assert.Contains(t, logs.String(), repository.KeyPlaybooks)

	raw, ok, err := kv.Get(ctx, repository.KeyPlaybooks)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)

	var s domain.Settings
	err = tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		var err error
		s, err = r.Settings.Get(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestKVTransactor_ClearRemovesKeys(t *testing.T) {
	kv := repository.NewMemoryKV()
	ctx := context.Background()
	tr := repository.NewKVTransactor(kv, testutil.DiscardLogger())
	upsert(t, tr, testutil.NewTestPlaybook("A"))
	require.NoError(t, tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		return r.Settings.Put(ctx, domain.DefaultSettings())
	}))

	err := tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Playbooks.DeleteAll(ctx); err != nil {
			return err
		}
		return r.Settings.Reset(ctx)
	})
	require.NoError(t, err)

	for _, key := range []string{repository.KeyPlaybooks, repository.KeySettings} {
		_, ok, err := kv.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	assert.Empty(t, list(t, tr))
}

func TestKVTransactor_RefillAfterDeleteAllKeepsKey(t *testing.T) {
	kv := repository.NewMemoryKV()
	ctx := context.Background()
	tr := repository.NewKVTransactor(kv, testutil.DiscardLogger())
	upsert(t, tr, testutil.NewTestPlaybook("A"))

	b := testutil.NewTestPlaybook("B")
	err := tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
		if err := r.Playbooks.DeleteAll(ctx); err != nil {
			return err
		}
		return r.Playbooks.Upsert(ctx, b)
	})
	require.NoError(t, err)

	_, ok, err := kv.Get(ctx, repository.KeyPlaybooks)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{b.ID}, ids(list(t, tr)))
}

func TestSettingsRepo_ResetReturnsDefaults(t *testing.T) {
	for name, tr := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			custom := domain.DefaultSettings()
			custom.DefaultGrade = domain.GradeK2
			require.NoError(t, tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
				return r.Settings.Put(ctx, custom)
			}))

			var got domain.Settings
			err := tr.WithinTx(ctx, func(ctx context.Context, r repository.Repos) error {
				if err := r.Settings.Reset(ctx); err != nil {
					return err
				}
				var err error
				got, err = r.Settings.Get(ctx)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, domain.DefaultSettings(), got)
		})
	}
}
