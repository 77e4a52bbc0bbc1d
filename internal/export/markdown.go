package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// Markdown renders the full playbook. Empty optional fields are left out.
func Markdown(p *domain.Playbook) string {
	var b strings.Builder
	m := p.Metadata

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(&b, "- **Grade Level:** %s\n", m.GradeLevel)
	fmt.Fprintf(&b, "- **Duration:** %d minutes\n", m.Duration)
	fmt.Fprintf(&b, "- **Environment:** %s\n", m.Environment.Label())
	fmt.Fprintf(&b, "- **Equipment Level:** %s\n", m.EquipmentLevel)
	if len(m.Standards) > 0 {
		fmt.Fprintf(&b, "- **Standards:** %s\n", join(m.Standards))
	}
	fmt.Fprintf(&b, "- **Source:** %s\n\n", sourceLabel(m))

	if p.Overview != "" {
		fmt.Fprintf(&b, "## Overview\n\n%s\n\n", p.Overview)
	}
	bulletSection(&b, "## Goals", p.Goals)
	bulletSection(&b, "## Materials", p.Materials)

	for _, l := range p.Lessons {
		fmt.Fprintf(&b, "## Lesson %d: %s\n\n", l.Number, l.Title)
		if l.Focus != "" {
			fmt.Fprintf(&b, "*Focus: %s*\n\n", l.Focus)
		}

		fmt.Fprintf(&b, "### Warm-up (%d min)\n\n", l.WarmUp.Duration)
		if l.WarmUp.Name != "" {
			fmt.Fprintf(&b, "**%s**\n\n", l.WarmUp.Name)
		}
		fmt.Fprintf(&b, "%s\n\n", l.WarmUp.Description)
		if len(l.WarmUp.Equipment) > 0 {
			fmt.Fprintf(&b, "**Equipment:** %s\n\n", join(l.WarmUp.Equipment))
		}

		fmt.Fprintf(&b, "### Skill Focus (%d min)\n\n", l.SkillFocus.Duration)
		fmt.Fprintf(&b, "%s\n\n", l.SkillFocus.Description)
		if len(l.SkillFocus.Skills) > 0 {
			fmt.Fprintf(&b, "**Skills:** %s\n\n", join(l.SkillFocus.Skills))
		}

		fmt.Fprintf(&b, "### Main Activity (%d min): %s\n\n", l.MainActivity.Duration, l.MainActivity.Name)
		fmt.Fprintf(&b, "%s\n\n", l.MainActivity.Description)
		bulletSection(&b, "**Rules:**", l.MainActivity.Rules)
		bulletSection(&b, "**Instructions:**", l.MainActivity.Instructions)
		if len(l.MainActivity.Equipment) > 0 {
			fmt.Fprintf(&b, "**Equipment:** %s\n\n", join(l.MainActivity.Equipment))
		}

		b.WriteString("### Differentiation\n\n")
		fmt.Fprintf(&b, "- **Easier:** %s\n", l.Differentiation.Easier)
		fmt.Fprintf(&b, "- **Harder:** %s\n\n", l.Differentiation.Harder)

		fmt.Fprintf(&b, "### Closure (%d min)\n\n", l.Closure.Duration)
		fmt.Fprintf(&b, "%s\n\n", l.Closure.Description)
		if l.Closure.Reflection != "" {
			fmt.Fprintf(&b, "**Reflection:** %s\n\n", l.Closure.Reflection)
		}

		b.WriteString("### Assessment\n\n")
		fmt.Fprintf(&b, "- **Formative:** %s\n", l.Assessment.Formative)
		fmt.Fprintf(&b, "- **Summative:** %s\n\n", l.Assessment.Summative)

		bulletSection(&b, "### Safety Considerations", l.Safety)
		if l.SocialEmotional != "" {
			fmt.Fprintf(&b, "### Social-Emotional Learning\n\n%s\n\n", l.SocialEmotional)
		}
	}

	bulletSection(&b, "## Assessment Strategies", p.Assessments)
	bulletSection(&b, "## Modifications", p.Modifications)
	bulletSection(&b, "## Safety", p.SafetyConsiderations)
	bulletSection(&b, "## Cross-Curricular Connections", p.CrossCurricular)
	if p.TakeHome != "" {
		fmt.Fprintf(&b, "## Take-Home Challenge\n\n%s\n\n", p.TakeHome)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func bulletSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading + "\n\n")
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func sourceLabel(m domain.Metadata) string {
	switch {
	case m.Source == domain.SourceAI && m.Model != "":
		return fmt.Sprintf("AI (%s, %s)", m.Provider, m.Model)
	case m.Source == domain.SourceAI:
		return "AI"
	case m.FallbackReason != "":
		return "Built-in generator (AI fallback: " + m.FallbackReason + ")"
	}
	return "Built-in generator"
}
