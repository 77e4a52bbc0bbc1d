package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/catalog"
	"github.com/alexanderramin/peplaybook/internal/domain"
)

const playbookSystemPrompt = `You are an experienced elementary and middle school Physical Education teacher.
You write practical lesson plans that a PE teacher can use immediately.
Answer in plain text. Start every section on its own line with the section heading in capitals followed by a colon.
Use "-" bullets for lists. Do not wrap the answer in code fences.`

var preferenceDescriptions = map[string]string{
	"team-based":  "team challenges and cooperative elements",
	"competitive": "friendly competition with scoring",
	"creative":    "themed or creative movement activities",
}

// BuildPlaybookPrompt describes every section the reply must contain. Section
// headings here are the ones ExtractSections looks for.
func BuildPlaybookPrompt(in domain.GeneratorInput, cat *catalog.Catalog) string {
	in = in.Normalize()
	alloc := domain.Allocate(int(in.Duration))

	var b strings.Builder
	b.WriteString("Create a Physical Education lesson plan with the following specifications:\n\n")

	b.WriteString("REQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Grade Level: %s\n", in.GradeLevel)
	fmt.Fprintf(&b, "- Duration: %d minutes per lesson, %d lessons (%s)\n",
		in.Duration, domain.LessonCount(in.Duration), domain.UnitLength(in.Duration))
	fmt.Fprintf(&b, "- Environment: %s\n", environmentPhrase(in.Environment))
	fmt.Fprintf(&b, "- Equipment Available: %s\n", equipmentPhrase(in.EquipmentLevel))

	b.WriteString("\nPE STANDARDS TO ADDRESS:\n")
	if len(in.Standards) == 0 {
		b.WriteString("- General movement foundations\n")
	}
	for _, id := range in.Standards {
		fmt.Fprintf(&b, "- %s\n", standardPhrase(cat, id))
	}

	if labels := in.Preferences.Labels(); len(labels) > 0 {
		b.WriteString("\nSPECIAL FEATURES:\n")
		for _, l := range labels {
			fmt.Fprintf(&b, "- Include %s\n", preferenceDescriptions[l])
		}
	}

	b.WriteString("\nInclude these sections:\n\n")
	b.WriteString("LESSON TITLE: a short, engaging title\n")
	b.WriteString("LEARNING OBJECTIVES: 2-3 measurable objectives aligned with the standards\n")
	fmt.Fprintf(&b, "MATERIALS NEEDED: a list limited to %s\n", equipmentPhrase(in.EquipmentLevel))
	fmt.Fprintf(&b, "WARM-UP (%d minutes): 2-3 warm-up activities suited to grades %s\n", alloc.WarmUp, in.GradeLevel)
	fmt.Fprintf(&b, "MAIN ACTIVITIES (%d minutes): 2-3 activities. Put each on its own line as \"Name (duration)\" followed by its instructions, with a blank line between activities\n",
		alloc.SkillFocus+alloc.MainActivity)
	fmt.Fprintf(&b, "COOL-DOWN (%d minutes): 2 cool-down activities, including stretching and a reflection question\n", alloc.Closure)
	b.WriteString("ASSESSMENT STRATEGIES: 3 methods covering formative and summative checks\n")
	b.WriteString("MODIFICATIONS: 3 adaptations covering support and extra challenge\n")
	fmt.Fprintf(&b, "SAFETY CONSIDERATIONS: 3-4 points, including %s conditions\n", strings.ToLower(in.Environment.Label()))
	b.WriteString("CROSS-CURRICULAR CONNECTIONS: 2 links to other subjects\n")
	b.WriteString("TAKE-HOME CHALLENGE: 1 optional activity for home\n")

	return b.String()
}

func environmentPhrase(e domain.Environment) string {
	if e == domain.EnvOutdoor {
		return "Outdoor field or playground"
	}
	return "Indoor gymnasium"
}

func equipmentPhrase(t domain.EquipmentTier) string {
	switch t {
	case domain.EquipmentMinimal:
		return "minimal equipment (at most 2 items per activity)"
	case domain.EquipmentFull:
		return "a fully equipped gym"
	default:
		return "standard equipment (at most 5 items per activity)"
	}
}

func standardPhrase(cat *catalog.Catalog, id string) string {
	if cat != nil {
		if s, ok := cat.Standard(id); ok {
			if s.Description != "" {
				return s.Name + " - " + s.Description
			}
			return s.Name
		}
	}
	return id
}
