package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

const rule = "----------------------------------------"

// Text renders a plain-text layout with delimiter lines between lessons.
func Text(p *domain.Playbook) string {
	var b strings.Builder
	m := p.Metadata

	fmt.Fprintf(&b, "%s\n%s\n\n", p.Title, strings.Repeat("=", len(p.Title)))
	fmt.Fprintf(&b, "Grade Level: %s\n", m.GradeLevel)
	fmt.Fprintf(&b, "Duration: %d minutes\n", m.Duration)
	fmt.Fprintf(&b, "Environment: %s\n\n", m.Environment.Label())
	if p.Overview != "" {
		fmt.Fprintf(&b, "Overview:\n%s\n\n", p.Overview)
	}
	textList(&b, "Goals", p.Goals)

	for _, l := range p.Lessons {
		fmt.Fprintf(&b, "%s\nLesson %d: %s\n%s\n", rule, l.Number, l.Title, rule)
		fmt.Fprintf(&b, "\nWarm-up (%d min):\n%s\n", l.WarmUp.Duration, l.WarmUp.Description)
		if len(l.WarmUp.Equipment) > 0 {
			fmt.Fprintf(&b, "Equipment: %s\n", join(l.WarmUp.Equipment))
		}
		fmt.Fprintf(&b, "\nSkill Focus (%d min):\n%s\n", l.SkillFocus.Duration, l.SkillFocus.Description)
		if len(l.SkillFocus.Skills) > 0 {
			fmt.Fprintf(&b, "Skills: %s\n", join(l.SkillFocus.Skills))
		}
		fmt.Fprintf(&b, "\nMain Activity (%d min): %s\n%s\n", l.MainActivity.Duration, l.MainActivity.Name, l.MainActivity.Description)
		if len(l.MainActivity.Rules) > 0 {
			b.WriteString("Rules:\n")
			for _, r := range l.MainActivity.Rules {
				fmt.Fprintf(&b, "- %s\n", r)
			}
		}
		fmt.Fprintf(&b, "\nDifferentiation:\nEasier: %s\nHarder: %s\n", l.Differentiation.Easier, l.Differentiation.Harder)
		fmt.Fprintf(&b, "\nClosure (%d min):\n%s\n", l.Closure.Duration, l.Closure.Description)
		if l.Closure.Reflection != "" {
			fmt.Fprintf(&b, "Reflection: %s\n", l.Closure.Reflection)
		}
		fmt.Fprintf(&b, "\nAssessment:\nFormative: %s\nSummative: %s\n", l.Assessment.Formative, l.Assessment.Summative)
		if len(l.Safety) > 0 {
			b.WriteString("\n")
			textList(&b, "Safety", l.Safety)
		}
		if l.SocialEmotional != "" {
			fmt.Fprintf(&b, "\nSocial-Emotional Learning:\n%s\n", l.SocialEmotional)
		}
		b.WriteString("\n")
	}

	textList(&b, "Materials", p.Materials)
	textList(&b, "Cross-Curricular Connections", p.CrossCurricular)
	if p.TakeHome != "" {
		fmt.Fprintf(&b, "Take-Home Challenge:\n%s\n", p.TakeHome)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func textList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}
