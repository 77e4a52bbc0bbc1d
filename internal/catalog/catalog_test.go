package catalog

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestLoad_Bundled(t *testing.T) {
	c := Load("")

	assert.Empty(t, c.LoadErrors())
	assert.Len(t, c.Standards(), 5)
	assert.NotEmpty(t, c.Activities())

	s, ok := c.Standard("S3")
	require.True(t, ok)
	assert.Equal(t, "Fitness", s.Name)
}

func TestLoad_BundledCoversEveryBandAndCategory(t *testing.T) {
	c := Load("")
	for _, g := range domain.GradeBands {
		for _, env := range domain.Environments {
			in := domain.GeneratorInput{GradeLevel: g, Environment: env, EquipmentLevel: domain.EquipmentMinimal}
			assert.NotEmpty(t, c.Filter(in, domain.CategoryWarmup), "warmup %s %s", g, env)
			assert.NotEmpty(t, c.Filter(in, domain.CategorySkill), "skill %s %s", g, env)
			assert.NotEmpty(t, c.Filter(in, domain.CategoryMain, domain.CategoryGame), "main %s %s", g, env)
		}
	}
}

func TestLoad_YAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yml := `
activities:
  - id: custom-1
    name: Hoop Hop
    category: warmup
    gradeLevels: [K-2]
    equipment: [hoops]
    description: Hop between hoops.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activities.yaml"), []byte(yml), 0o644))

	c := Load(dir)
	acts := c.Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, "Hoop Hop", acts[0].Name)
	assert.Equal(t, domain.CategoryWarmup, acts[0].Category)
	// standards still come from the bundled data
	assert.Len(t, c.Standards(), 5)
}

func TestLoad_BareJSONListOverride(t *testing.T) {
	dir := t.TempDir()
	js := `[{"id":"s-x","name":"Swimming","description":"Water safety"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "standards.json"), []byte(js), 0o644))

	c := Load(dir)
	require.Len(t, c.Standards(), 1)
	assert.Equal(t, []string{"Swimming", "S9"}, c.StandardNames([]string{"s-x", "S9"}))
	assert.Equal(t, []string{"S9"}, c.UnknownStandards([]string{"s-x", "S9"}))
}

func TestLoad_MalformedOverrideYieldsEmptyList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activities.json"), []byte("{not json"), 0o644))

	var logs bytes.Buffer
	c := Load(dir, WithLogger(quietLogger(&logs)))

	assert.Empty(t, c.Activities())
	assert.Len(t, c.LoadErrors(), 1)
	assert.Contains(t, logs.String(), "activity catalog unavailable")
	assert.NotEmpty(t, c.Standards())
}

func TestEligible(t *testing.T) {
	in := domain.GeneratorInput{
		GradeLevel:     domain.Grade35,
		Environment:    domain.EnvIndoor,
		EquipmentLevel: domain.EquipmentMinimal,
	}

	cases := []struct {
		name string
		a    domain.Activity
		want bool
	}{
		{"matches", domain.Activity{Category: domain.CategorySkill, GradeLevels: []domain.GradeBand{domain.Grade35}}, true},
		{"wrong category", domain.Activity{Category: domain.CategoryGame, GradeLevels: []domain.GradeBand{domain.Grade35}}, false},
		{"wrong grade", domain.Activity{Category: domain.CategorySkill, GradeLevels: []domain.GradeBand{domain.GradeK2}}, false},
		{"outdoor only", domain.Activity{Category: domain.CategorySkill, GradeLevels: []domain.GradeBand{domain.Grade35}, Environment: domain.EnvOutdoor}, false},
		{"indoor tag", domain.Activity{Category: domain.CategorySkill, GradeLevels: []domain.GradeBand{domain.Grade35}, Environment: domain.EnvIndoor}, true},
		{"too much equipment", domain.Activity{Category: domain.CategorySkill, GradeLevels: []domain.GradeBand{domain.Grade35}, Equipment: []string{"a", "b", "c"}}, false},
		{"at ceiling", domain.Activity{Category: domain.CategorySkill, GradeLevels: []domain.GradeBand{domain.Grade35}, Equipment: []string{"a", "b"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Eligible(tc.a, in, domain.CategorySkill))
		})
	}
}

func TestSearch(t *testing.T) {
	c := Load("")

	outdoor := c.Search(Query{Environment: domain.EnvOutdoor, Category: domain.CategoryGame})
	require.NotEmpty(t, outdoor)
	for _, a := range outdoor {
		assert.Equal(t, domain.CategoryGame, a.Category)
		assert.NotEqual(t, domain.EnvIndoor, a.Environment)
	}

	fitness := c.Search(Query{Standard: "S3"})
	for _, a := range fitness {
		assert.Contains(t, a.Standards, "S3")
	}
}
