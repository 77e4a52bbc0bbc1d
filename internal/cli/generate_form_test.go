package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/service"
)

func TestGenerateFormValues_RoundTripsPreferences(t *testing.T) {
	in := domain.DefaultSettings().Input("S1")
	in.Preferences.Competitive = true
	in.EquipmentLevel = ""

	v := newGenerateFormValues(in, "")
	assert.Equal(t, []string{prefCompetitive}, v.Prefs)
	assert.Equal(t, service.ModeDeterministic, v.Mode)
	assert.Equal(t, domain.EquipmentStandard, v.Input.EquipmentLevel)

	v.Prefs = []string{prefTeam, prefCreative}
	v.Mode = service.ModeAI
	got, mode := v.result()

	assert.Equal(t, domain.Preferences{TeamBased: true, Creative: true}, got.Preferences)
	assert.Equal(t, service.ModeAI, mode)
	assert.Equal(t, []string{"S1"}, got.Standards)
}

func TestGenerateForm_Builds(t *testing.T) {
	v := newGenerateFormValues(domain.DefaultSettings().Input(), service.ModeDeterministic)
	form := newGenerateForm([]domain.Standard{{ID: "S1", Name: "Motor skills"}}, v)
	require.NotNil(t, form)
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"default_grade=6-8", "ai_model=gpt=4"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"default_grade": "6-8", "ai_model": "gpt=4"}, got)

	got, err = parsePairs([]string{"auto_save", "false"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"auto_save": "false"}, got)

	_, err = parsePairs([]string{"=x"})
	assert.Error(t, err)
}
