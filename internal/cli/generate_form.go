package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/service"
)

const (
	prefTeam        = "team"
	prefCompetitive = "competitive"
	prefCreative    = "creative"
)

// generateFormValues backs the interactive generate form. It starts from
// the flag-resolved input so the form opens on the current choices.
type generateFormValues struct {
	Input domain.GeneratorInput
	Prefs []string
	Mode  service.GenerateMode
	Name  string
}

func newGenerateFormValues(in domain.GeneratorInput, mode service.GenerateMode) *generateFormValues {
	v := &generateFormValues{Input: in, Mode: mode}
	if v.Mode == "" {
		v.Mode = service.ModeDeterministic
	}
	if v.Input.EquipmentLevel == "" {
		v.Input.EquipmentLevel = domain.EquipmentStandard
	}
	if in.Preferences.TeamBased {
		v.Prefs = append(v.Prefs, prefTeam)
	}
	if in.Preferences.Competitive {
		v.Prefs = append(v.Prefs, prefCompetitive)
	}
	if in.Preferences.Creative {
		v.Prefs = append(v.Prefs, prefCreative)
	}
	return v
}

// result folds the preference selections back into the input.
func (v *generateFormValues) result() (domain.GeneratorInput, service.GenerateMode) {
	in := v.Input
	in.Preferences = domain.Preferences{
		TeamBased:   slices.Contains(v.Prefs, prefTeam),
		Competitive: slices.Contains(v.Prefs, prefCompetitive),
		Creative:    slices.Contains(v.Prefs, prefCreative),
	}
	return in, v.Mode
}

func newGenerateForm(standards []domain.Standard, v *generateFormValues) *huh.Form {
	grades := make([]huh.Option[domain.GradeBand], 0, len(domain.GradeBands))
	for _, g := range domain.GradeBands {
		grades = append(grades, huh.NewOption("Grades "+string(g), g))
	}
	durations := make([]huh.Option[domain.Duration], 0, len(domain.Durations))
	for _, d := range domain.Durations {
		label := fmt.Sprintf("%d minutes (%d lessons)", d, domain.LessonCount(d))
		durations = append(durations, huh.NewOption(label, d))
	}
	envs := make([]huh.Option[domain.Environment], 0, len(domain.Environments))
	for _, e := range domain.Environments {
		envs = append(envs, huh.NewOption(e.Label(), e))
	}
	tiers := make([]huh.Option[domain.EquipmentTier], 0, len(domain.EquipmentTiers))
	for _, t := range domain.EquipmentTiers {
		tiers = append(tiers, huh.NewOption(strings.ToUpper(string(t[:1]))+string(t[1:]), t))
	}

	stdOpts := make([]huh.Option[string], 0, len(standards))
	for _, s := range standards {
		stdOpts = append(stdOpts,
			huh.NewOption(s.ID+"  "+s.Name, s.ID).Selected(slices.Contains(v.Input.Standards, s.ID)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.GradeBand]().Title("Grade band").Options(grades...).Value(&v.Input.GradeLevel),
			huh.NewSelect[domain.Duration]().Title("Session length").Options(durations...).Value(&v.Input.Duration),
			huh.NewSelect[domain.Environment]().Title("Environment").Options(envs...).Value(&v.Input.Environment),
			huh.NewSelect[domain.EquipmentTier]().Title("Equipment").Options(tiers...).Value(&v.Input.EquipmentLevel),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Standards").
				Description("Leave empty for a movement foundations unit").
				Options(stdOpts...).
				Height(10).
				Value(&v.Input.Standards),
			huh.NewMultiSelect[string]().
				Title("Teaching style").
				Options(
					huh.NewOption("Team-based", prefTeam),
					huh.NewOption("Competitive", prefCompetitive),
					huh.NewOption("Creative", prefCreative),
				).
				Value(&v.Prefs),
		),
		huh.NewGroup(
			huh.NewSelect[service.GenerateMode]().
				Title("Generator").
				Options(
					huh.NewOption("Built-in catalog", service.ModeDeterministic),
					huh.NewOption("AI provider", service.ModeAI),
				).
				Value(&v.Mode),
			huh.NewInput().
				Title("Name (optional)").
				Placeholder("Fall throwing unit").
				Value(&v.Name),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}
