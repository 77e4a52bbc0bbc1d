package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

var fixtureCounter atomic.Int64

// FixtureTime is the base timestamp for fixtures; each new fixture is one
// minute later than the previous one.
var FixtureTime = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

type PlaybookOption func(*domain.StoredPlaybook)

func WithID(id string) PlaybookOption {
	return func(sp *domain.StoredPlaybook) {
		sp.ID = id
	}
}

func WithName(name string) PlaybookOption {
	return func(sp *domain.StoredPlaybook) {
		sp.Name = name
	}
}

func WithFavorite() PlaybookOption {
	return func(sp *domain.StoredPlaybook) {
		sp.Favorite = true
	}
}

func WithTags(tags ...string) PlaybookOption {
	return func(sp *domain.StoredPlaybook) {
		sp.Tags = tags
	}
}

func WithGrade(g domain.GradeBand) PlaybookOption {
	return func(sp *domain.StoredPlaybook) {
		sp.Metadata.GradeLevel = g
	}
}

// NewTestPlaybook builds a small two-lesson playbook with a unique ID.
func NewTestPlaybook(title string, opts ...PlaybookOption) *domain.StoredPlaybook {
	n := fixtureCounter.Add(1)
	created := FixtureTime.Add(time.Duration(n) * time.Minute)
	alloc := domain.Allocate(45)

	lesson := func(i int) domain.LessonBlock {
		return domain.LessonBlock{
			Number: i,
			Title:  fmt.Sprintf("Lesson %d: Throwing", i),
			Focus:  "Introduction and Exploration",
			WarmUp: domain.WarmUp{
				Name:        "Animal Walks",
				Description: "Move like different animals across the space",
				Duration:    alloc.WarmUp,
				Equipment:   []string{"cones"},
			},
			SkillFocus: domain.SkillFocus{
				Description: "Practice overhand throwing",
				Duration:    alloc.SkillFocus,
				Skills:      []string{"Overhand Throw", "Step and Throw"},
			},
			MainActivity: domain.MainActivity{
				Name:        "Target Toss",
				Description: "Teams throw beanbags at hoop targets",
				Duration:    alloc.MainActivity,
				Rules:       []string{"Stay behind the line"},
				Equipment:   []string{"beanbags", "hula hoops"},
			},
			Differentiation: domain.Differentiation{Easier: "Move closer", Harder: "Move farther"},
			Closure: domain.Closure{
				Description: "Group reflection circle",
				Duration:    alloc.Closure,
				Reflection:  "What helped your aim today?",
			},
			Assessment:      domain.Assessment{Formative: "Observe form", Summative: "Skill checklist"},
			Safety:          []string{"Throw only on the signal"},
			SocialEmotional: "Encouraging teammates",
			Transition:      alloc.Transition,
		}
	}

	sp := &domain.StoredPlaybook{
		Playbook: domain.Playbook{
			ID:          fmt.Sprintf("pb_%d_fixture%02d", created.UnixMilli(), n%100),
			Title:       title,
			Overview:    "A 1 week unit for grades 3-5.",
			Goals:       []string{"Develop motor skills"},
			Lessons:     []domain.LessonBlock{lesson(1), lesson(2)},
			Materials:   []string{"cones", "beanbags", "hula hoops"},
			Assessments: []string{"Skill checklist"},
			TakeHome:    "Throw a rolled sock into a basket 20 times",
			Metadata: domain.Metadata{
				GradeLevel:     domain.Grade35,
				Duration:       domain.Duration45,
				Environment:    domain.EnvIndoor,
				Standards:      []string{"S1"},
				EquipmentLevel: domain.EquipmentStandard,
				Source:         domain.SourceDeterministic,
				Version:        domain.SchemaVersion,
			},
			CreatedAt: created,
		},
		SavedAt: created,
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp
}
