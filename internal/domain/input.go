package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks a generator input that cannot be turned into a playbook.
var ErrInvalidInput = errors.New("invalid generator input")

// Preferences are optional teaching-style toggles.
type Preferences struct {
	TeamBased   bool `json:"teamBased" yaml:"teamBased"`
	Competitive bool `json:"competitive" yaml:"competitive"`
	Creative    bool `json:"creative" yaml:"creative"`
}

// Labels lists the enabled preferences in a stable order.
func (p Preferences) Labels() []string {
	var out []string
	if p.TeamBased {
		out = append(out, "team-based")
	}
	if p.Competitive {
		out = append(out, "competitive")
	}
	if p.Creative {
		out = append(out, "creative")
	}
	return out
}

// GeneratorInput is the immutable request a teacher submits. Generators never
// mutate it; callers should treat it as a value.
type GeneratorInput struct {
	GradeLevel     GradeBand     `json:"gradeLevel"`
	Duration       Duration      `json:"duration"`
	Environment    Environment   `json:"environment"`
	Standards      []string      `json:"standards"`
	EquipmentLevel EquipmentTier `json:"equipmentLevel,omitempty"`
	Preferences    Preferences   `json:"preferences"`
}

// Normalize fills defaults and trims standard IDs. It returns a copy.
func (in GeneratorInput) Normalize() GeneratorInput {
	out := in
	if out.EquipmentLevel == "" {
		out.EquipmentLevel = EquipmentStandard
	}
	out.Standards = make([]string, 0, len(in.Standards))
	seen := make(map[string]bool, len(in.Standards))
	for _, s := range in.Standards {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out.Standards = append(out.Standards, s)
	}
	return out
}

// Validate checks the enumerated fields. An empty standards list is accepted.
func (in GeneratorInput) Validate() error {
	var problems []string
	if !in.GradeLevel.Valid() {
		problems = append(problems, fmt.Sprintf("grade level %q", in.GradeLevel))
	}
	if !in.Duration.Valid() {
		problems = append(problems, fmt.Sprintf("duration %d", in.Duration))
	}
	if !in.Environment.Valid() {
		problems = append(problems, fmt.Sprintf("environment %q", in.Environment))
	}
	if in.EquipmentLevel != "" && !in.EquipmentLevel.Valid() {
		problems = append(problems, fmt.Sprintf("equipment level %q", in.EquipmentLevel))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, ", "))
	}
	return nil
}

// LessonCount maps a session length to the number of lessons in a unit.
// A 60-minute session produces a two-week unit of 10 lessons; shorter
// sessions produce a one-week unit of 5.
func LessonCount(d Duration) int {
	if d >= Duration60 {
		return 10
	}
	return 5
}

// UnitLength describes the span covered by LessonCount lessons.
func UnitLength(d Duration) string {
	if LessonCount(d) > 5 {
		return "2 weeks"
	}
	return "1 week"
}
