// Package generator builds playbooks from the activity catalog without any
// network access. Given the same input, catalog and random seed it produces
// the same playbook apart from the ID and timestamps.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
)

const maxSkills = 3

// Generator is the deterministic playbook generator.
type Generator struct {
	catalog *catalog.Catalog
	now     func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand injects the random source used for activity selection.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithSeed seeds a PCG source so output is reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a Generator over cat.
func New(cat *catalog.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog: cat,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// Catalog exposes the reference data the generator draws from.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// GenerateChecked validates the input before generating.
func (g *Generator) GenerateChecked(in domain.GeneratorInput) (*domain.Playbook, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return g.Generate(in), nil
}

// Generate builds a playbook. It never fails: empty activity pools are
// replaced by placeholder text.
func (g *Generator) Generate(in domain.GeneratorInput) *domain.Playbook {
	in = in.Normalize()
	now := g.now()
	names := g.catalog.StandardNames(in.Standards)

	lessons := g.lessons(in)

	return &domain.Playbook{
		ID:                   domain.NewPlaybookID(now),
		Title:                title(in, names),
		Overview:             overview(in, names),
		Goals:                g.goals(in),
		Lessons:              lessons,
		Materials:            materials(in, lessons),
		Assessments:          append([]string(nil), gradeAssessments[in.GradeLevel]...),
		Modifications:        append([]string(nil), planModifications...),
		SafetyConsiderations: safetyConsiderations(in),
		CrossCurricular:      append([]string(nil), gradeCrossCurricular[in.GradeLevel]...),
		TakeHome:             gradeTakeHome[in.GradeLevel],
		Metadata: domain.Metadata{
			GradeLevel:     in.GradeLevel,
			Duration:       in.Duration,
			Environment:    in.Environment,
			Standards:      in.Standards,
			EquipmentLevel: in.EquipmentLevel,
			Preferences:    in.Preferences,
			Source:         domain.SourceDeterministic,
			Version:        domain.SchemaVersion,
		},
		CreatedAt: now,
	}
}

func (g *Generator) lessons(in domain.GeneratorInput) []domain.LessonBlock {
	warmups := g.catalog.Filter(in, domain.CategoryWarmup)
	skills := g.catalog.Filter(in, domain.CategorySkill)
	mains := g.catalog.Filter(in, domain.CategoryMain, domain.CategoryGame)
	cooldowns := g.catalog.Filter(in, domain.CategoryCooldown)
	alloc := domain.Allocate(int(in.Duration))

	g.mu.Lock()
	defer g.mu.Unlock()

	count := domain.LessonCount(in.Duration)
	lessons := make([]domain.LessonBlock, 0, count)
	for n := 1; n <= count; n++ {
		lessons = append(lessons, g.lesson(in, n, alloc, warmups, skills, mains, cooldowns))
	}
	return lessons
}

func (g *Generator) lesson(in domain.GeneratorInput, n int, alloc domain.Allocation,
	warmups, skills, mains, cooldowns []domain.Activity) domain.LessonBlock {

	warm := pickOne(g.rng, warmups)
	picked := sampleDistinct(g.rng, skills, maxSkills)
	main := pickOne(g.rng, mains)
	cool := pickOne(g.rng, cooldowns)

	focus := rotate(lessonFocuses, n)
	block := domain.LessonBlock{
		Number:          n,
		Title:           fmt.Sprintf("Lesson %d: %s", n, focus),
		Focus:           focus,
		WarmUp:          warmUpSegment(warm, alloc.WarmUp),
		SkillFocus:      skillSegment(picked, alloc.SkillFocus),
		MainActivity:    mainSegment(main, alloc.MainActivity),
		Differentiation: domain.Differentiation{Easier: rotate(easierModifications, n), Harder: rotate(harderModifications, n)},
		Closure:         closureSegment(cool, alloc.Closure, n),
		Assessment:      domain.Assessment{Formative: formativeAssessment, Summative: summativeAssessment},
		SocialEmotional: rotate(socialEmotionalFocuses, n),
		Transition:      alloc.Transition,
	}
	block.Safety = lessonSafety(in, block.MainActivity.Equipment)
	return block
}

func warmUpSegment(a *domain.Activity, minutes int) domain.WarmUp {
	if a == nil {
		return domain.WarmUp{Description: placeholderWarmUp, Duration: minutes}
	}
	return domain.WarmUp{
		Name:         a.Name,
		Description:  a.Description,
		Duration:     minutes,
		Equipment:    append([]string(nil), a.Equipment...),
		Instructions: append([]string(nil), a.Instructions...),
	}
}

func skillSegment(picked []domain.Activity, minutes int) domain.SkillFocus {
	if len(picked) == 0 {
		return domain.SkillFocus{Description: placeholderSkillDesc, Duration: minutes, Skills: []string{}}
	}
	names := make([]string, len(picked))
	for i, a := range picked {
		names[i] = a.Name
	}
	return domain.SkillFocus{
		Description: fmt.Sprintf("Students will practice %s through progressive drills and partner activities", strings.Join(names, ", ")),
		Duration:    minutes,
		Skills:      names,
	}
}

func mainSegment(a *domain.Activity, minutes int) domain.MainActivity {
	if a == nil {
		return domain.MainActivity{
			Name:        placeholderMainName,
			Description: placeholderMainDesc,
			Duration:    minutes,
			Rules:       append([]string(nil), placeholderRules...),
			Equipment:   append([]string(nil), placeholderEquipment...),
		}
	}
	rules := a.Rules
	if len(rules) == 0 {
		rules = placeholderRules
	}
	return domain.MainActivity{
		Name:         a.Name,
		Description:  a.Description,
		Duration:     minutes,
		Rules:        append([]string(nil), rules...),
		Equipment:    append([]string(nil), a.Equipment...),
		Instructions: append([]string(nil), a.Instructions...),
	}
}

func closureSegment(a *domain.Activity, minutes, n int) domain.Closure {
	desc := placeholderCooldownDesc
	if a != nil {
		desc = fmt.Sprintf("%s, then a reflection circle on today's achievements and challenges", a.Name)
	}
	return domain.Closure{Description: desc, Duration: minutes, Reflection: rotate(reflectionPrompts, n)}
}

// lessonSafety composes at most three notes from the environment and the
// main activity's equipment.
func lessonSafety(in domain.GeneratorInput, equipment []string) []string {
	var notes []string
	if in.Environment == domain.EnvOutdoor {
		notes = append(notes, "Check playing surface for hazards", "Ensure adequate hydration breaks")
	}
	for _, e := range equipment {
		if strings.Contains(strings.ToLower(e), "ball") {
			notes = append(notes, "Maintain safe spacing during throwing activities")
			break
		}
	}
	notes = append(notes, "Proper warm-up before intense activity", "Monitor for signs of fatigue or overexertion")
	if len(notes) > 3 {
		notes = notes[:3]
	}
	return notes
}

func safetyConsiderations(in domain.GeneratorInput) []string {
	notes := []string{
		"Check playing area for hazards",
		"Ensure adequate spacing between students",
		"Review activity rules before starting",
		"Monitor for signs of fatigue or overexertion",
	}
	if in.Environment == domain.EnvOutdoor {
		notes = append(notes, "Check weather conditions", "Ensure students have water", "Apply sunscreen if needed")
	}
	return notes
}

func title(in domain.GeneratorInput, names []string) string {
	focus := strings.Join(names, " & ")
	if focus == "" {
		focus = defaultTitleFocus
	}
	return fmt.Sprintf("%s %s PE: %s", in.GradeLevel, in.Environment.Label(), focus)
}

func overview(in domain.GeneratorInput, names []string) string {
	focus := strings.Join(names, ", ")
	if focus == "" {
		focus = strings.ToLower(defaultTitleFocus)
	}
	return fmt.Sprintf("This %s playbook for grades %s focuses on %s in an %s setting. "+
		"It contains %d lessons of %d minutes, each building progressively on skills while "+
		"maintaining engagement through varied activities.",
		domain.UnitLength(in.Duration), in.GradeLevel, focus, in.Environment,
		domain.LessonCount(in.Duration), int(in.Duration))
}

func (g *Generator) goals(in domain.GeneratorInput) []string {
	var goals []string
	for _, id := range in.Standards {
		s, ok := g.catalog.Standard(id)
		if !ok {
			continue
		}
		name := strings.ToLower(s.Name)
		if strings.Contains(name, "skill") {
			goals = append(goals, "Develop "+name)
		} else {
			goals = append(goals, fmt.Sprintf("Develop %s skills", name))
		}
	}
	goals = append(goals, gradeGoals[in.GradeLevel]...)
	if in.Preferences.TeamBased {
		goals = append(goals, "Foster collaboration and communication")
	}
	if in.Preferences.Competitive {
		goals = append(goals, "Build healthy competition and sportsmanship")
	}
	if in.Preferences.Creative {
		goals = append(goals, "Encourage creative movement and expression")
	}
	if len(goals) > 5 {
		goals = goals[:5]
	}
	return goals
}

// materials merges the tier baseline with equipment named by the lessons,
// keeping first-seen order and dropping case-insensitive duplicates.
func materials(in domain.GeneratorInput, lessons []domain.LessonBlock) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(item string) {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, item)
	}
	for _, m := range tierMaterials[in.EquipmentLevel] {
		add(m)
	}
	for _, l := range lessons {
		for _, e := range l.WarmUp.Equipment {
			add(e)
		}
		for _, e := range l.MainActivity.Equipment {
			add(e)
		}
	}
	return out
}
