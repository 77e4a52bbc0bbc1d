package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped into playbook metadata and backup documents.
const SchemaVersion = "1.0"

// Allocation splits a session into lesson segments. Each share is floored,
// so the four segments never exceed Total; Transition holds what is left.
type Allocation struct {
	Total        int `json:"total"`
	WarmUp       int `json:"warmUp"`
	SkillFocus   int `json:"skillFocus"`
	MainActivity int `json:"mainActivity"`
	Closure      int `json:"closure"`
	Transition   int `json:"transition"`
}

// Allocate computes the 15/25/40/10 percent split for a session length.
func Allocate(minutes int) Allocation {
	a := Allocation{
		Total:        minutes,
		WarmUp:       minutes * 15 / 100,
		SkillFocus:   minutes * 25 / 100,
		MainActivity: minutes * 40 / 100,
		Closure:      minutes * 10 / 100,
	}
	a.Transition = minutes - a.Allocated()
	return a
}

// Allocated is the sum of the four teaching segments.
func (a Allocation) Allocated() int {
	return a.WarmUp + a.SkillFocus + a.MainActivity + a.Closure
}

type WarmUp struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description"`
	Duration     int      `json:"duration"`
	Equipment    []string `json:"equipment,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
}

type SkillFocus struct {
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Skills      []string `json:"skills"`
}

type MainActivity struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Duration     int      `json:"duration"`
	Rules        []string `json:"rules,omitempty"`
	Equipment    []string `json:"equipment,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
}

type Differentiation struct {
	Easier string `json:"easier"`
	Harder string `json:"harder"`
}

type Closure struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Reflection  string `json:"reflection"`
}

type Assessment struct {
	Formative string `json:"formative"`
	Summative string `json:"summative"`
}

// LessonBlock is one session within a playbook.
type LessonBlock struct {
	Number          int             `json:"lessonNumber"`
	Title           string          `json:"title"`
	Focus           string          `json:"focus"`
	WarmUp          WarmUp          `json:"warmUp"`
	SkillFocus      SkillFocus      `json:"skillFocus"`
	MainActivity    MainActivity    `json:"mainActivity"`
	Differentiation Differentiation `json:"differentiation"`
	Closure         Closure         `json:"closure"`
	Assessment      Assessment      `json:"assessment"`
	Safety          []string        `json:"safety,omitempty"`
	SocialEmotional string          `json:"socialEmotional,omitempty"`
	Transition      int             `json:"transition,omitempty"`
}

// Minutes is the time covered by the four teaching segments.
func (l LessonBlock) Minutes() int {
	return l.WarmUp.Duration + l.SkillFocus.Duration + l.MainActivity.Duration + l.Closure.Duration
}

// Metadata echoes the input and records how the playbook was produced.
type Metadata struct {
	GradeLevel       GradeBand     `json:"gradeLevel"`
	Duration         Duration      `json:"duration"`
	Environment      Environment   `json:"environment"`
	Standards        []string      `json:"standards"`
	EquipmentLevel   EquipmentTier `json:"equipmentLevel"`
	Preferences      Preferences   `json:"preferences"`
	Source           Source        `json:"source"`
	Provider         string        `json:"provider,omitempty"`
	Model            string        `json:"model,omitempty"`
	FallbackSections []string      `json:"fallbackSections,omitempty"`
	FallbackReason   string        `json:"fallbackReason,omitempty"`
	Version          string        `json:"version"`
}

// Input reconstructs the generator input the playbook was built from.
func (m Metadata) Input() GeneratorInput {
	return GeneratorInput{
		GradeLevel:     m.GradeLevel,
		Duration:       m.Duration,
		Environment:    m.Environment,
		Standards:      append([]string(nil), m.Standards...),
		EquipmentLevel: m.EquipmentLevel,
		Preferences:    m.Preferences,
	}
}

// Playbook is a multi-lesson unit plan.
type Playbook struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	Overview             string        `json:"overview"`
	Goals                []string      `json:"goals"`
	Lessons              []LessonBlock `json:"lessons"`
	Materials            []string      `json:"materials,omitempty"`
	Assessments          []string      `json:"assessments,omitempty"`
	Modifications        []string      `json:"modifications,omitempty"`
	SafetyConsiderations []string      `json:"safetyConsiderations,omitempty"`
	CrossCurricular      []string      `json:"crossCurricular,omitempty"`
	TakeHome             string        `json:"takeHome,omitempty"`
	Metadata             Metadata      `json:"metadata"`
	CreatedAt            time.Time     `json:"createdAt"`
	ModifiedAt           *time.Time    `json:"modifiedAt,omitempty"`
}

// TotalMinutes sums the teaching time of every lesson.
func (p *Playbook) TotalMinutes() int {
	total := 0
	for _, l := range p.Lessons {
		total += l.Minutes()
	}
	return total
}

// StoredPlaybook is a playbook plus the user-facing fields kept by the store.
type StoredPlaybook struct {
	Playbook
	Name     string    `json:"name"`
	Tags     []string  `json:"tags,omitempty"`
	Favorite bool      `json:"favorite"`
	SavedAt  time.Time `json:"savedAt"`
}

// DisplayName prefers the user-supplied name over the generated title.
func (s *StoredPlaybook) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return s.Title
}

// NewPlaybookID returns an identifier of the form pb_<unix-millis>_<9 chars>.
func NewPlaybookID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("pb_%d_%s", now.UnixMilli(), suffix)
}
