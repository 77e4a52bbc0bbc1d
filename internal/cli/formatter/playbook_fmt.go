package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// FormatPlaybookList renders saved playbooks, most recent first, with their
// 1-based position so commands can address them as #n. Positions count the
// full list; keep, when non-nil, hides rows without renumbering.
func FormatPlaybookList(list []*domain.StoredPlaybook, now time.Time, keep func(*domain.StoredPlaybook) bool) string {
	if len(list) == 0 {
		return RenderBox("Saved Playbooks", Dim("No saved playbooks. Run 'peplaybook generate' to create one."))
	}

	headers := []string{"#", "", "ID", "NAME", "GRADE", "LESSONS", "SOURCE", "SAVED"}
	rows := make([][]string, 0, len(list))
	for i, sp := range list {
		if keep != nil && !keep(sp) {
			continue
		}
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			FavoriteMark(sp.Favorite),
			TruncID(sp.ID),
			Bold(Truncate(sp.DisplayName(), 40)),
			string(sp.Metadata.GradeLevel),
			fmt.Sprintf("%d × %dm", len(sp.Lessons), sp.Metadata.Duration),
			SourceBadge(sp.Metadata),
			HumanTimestampFrom(sp.SavedAt, now),
		})
	}
	if len(rows) == 0 {
		return RenderBox("Saved Playbooks", Dim("No playbooks match."))
	}
	return RenderBox("Saved Playbooks", RenderTable(headers, rows))
}

// FormatPlaybookOverview renders the header card: title, unit metadata,
// goals and playbook-wide lists.
func FormatPlaybookOverview(p *domain.Playbook) string {
	md := p.Metadata
	var b strings.Builder

	b.WriteString(Bold(p.Title) + "\n")
	b.WriteString(Dim(p.ID) + "\n\n")

	meta := [][2]string{
		{"Grade", string(md.GradeLevel)},
		{"Session", fmt.Sprintf("%d minutes", md.Duration)},
		{"Unit", fmt.Sprintf("%d lessons, %s", len(p.Lessons), domain.UnitLength(md.Duration))},
		{"Environment", md.Environment.Label()},
		{"Equipment", string(md.EquipmentLevel)},
		{"Standards", standardsLabel(md.Standards)},
		{"Source", SourceBadge(md)},
	}
	if prefs := md.Preferences.Labels(); len(prefs) > 0 {
		meta = append(meta, [2]string{"Style", strings.Join(prefs, ", ")})
	}
	for _, kv := range meta {
		b.WriteString(fmt.Sprintf("%s %s\n", StyleDim.Render(padLabel(kv[0])), kv[1]))
	}
	if len(md.FallbackSections) > 0 {
		b.WriteString(StyleYellow.Render("Built-in content used for: "+strings.Join(md.FallbackSections, ", ")) + "\n")
	}

	if p.Overview != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(72).Render(p.Overview) + "\n")
	}
	writeSection(&b, "Goals", p.Goals)
	writeSection(&b, "Materials", p.Materials)
	writeSection(&b, "Assessments", p.Assessments)
	writeSection(&b, "Modifications", p.Modifications)
	writeSection(&b, "Safety", p.SafetyConsiderations)
	writeSection(&b, "Cross-curricular", p.CrossCurricular)
	if p.TakeHome != "" {
		b.WriteString("\n" + Header("Take home") + "\n" + p.TakeHome + "\n")
	}

	return RenderBox("Playbook", strings.TrimRight(b.String(), "\n"))
}

// FormatLesson renders a single lesson as a bordered card.
func FormatLesson(l domain.LessonBlock) string {
	var b strings.Builder
	b.WriteString(Bold(l.Title) + "\n")
	if l.Focus != "" {
		b.WriteString(Dim("Focus: "+l.Focus) + "\n")
	}

	segment(&b, "warm-up", l.WarmUp.Duration, l.WarmUp.Name, l.WarmUp.Description)
	if len(l.WarmUp.Instructions) > 0 {
		b.WriteString(Bullets(l.WarmUp.Instructions, "    "))
	}

	segment(&b, "skill focus", l.SkillFocus.Duration, strings.Join(l.SkillFocus.Skills, ", "), l.SkillFocus.Description)

	segment(&b, "main activity", l.MainActivity.Duration, l.MainActivity.Name, l.MainActivity.Description)
	if len(l.MainActivity.Rules) > 0 {
		b.WriteString(Bullets(l.MainActivity.Rules, "    "))
	}
	if len(l.MainActivity.Equipment) > 0 {
		b.WriteString("    " + Dim("Equipment: "+strings.Join(l.MainActivity.Equipment, ", ")) + "\n")
	}

	segment(&b, "closure", l.Closure.Duration, "", l.Closure.Description)
	if l.Closure.Reflection != "" {
		b.WriteString("    " + StylePurple.Render("? ") + l.Closure.Reflection + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleGreen.Render("  easier ") + l.Differentiation.Easier + "\n")
	b.WriteString(StyleRed.Render("  harder ") + l.Differentiation.Harder + "\n")
	if l.Assessment.Formative != "" {
		b.WriteString(Dim("  check  ") + l.Assessment.Formative + "\n")
	}
	if len(l.Safety) > 0 {
		b.WriteString(StyleYellow.Render("  safety ") + strings.Join(l.Safety, "; ") + "\n")
	}
	if l.Transition > 0 {
		b.WriteString(Dim(fmt.Sprintf("  + %s for transitions", FormatMinutes(l.Transition))) + "\n")
	}

	return RenderBox(fmt.Sprintf("Lesson %d · %s", l.Number, FormatMinutes(l.Minutes()+l.Transition)),
		strings.TrimRight(b.String(), "\n"))
}

// FormatPlaybook renders the overview card followed by every lesson card.
func FormatPlaybook(p *domain.Playbook) string {
	parts := make([]string, 0, len(p.Lessons)+1)
	parts = append(parts, FormatPlaybookOverview(p))
	for _, l := range p.Lessons {
		parts = append(parts, FormatLesson(l))
	}
	return strings.Join(parts, "\n") + "\n"
}

// FormatStoredPlaybook adds the store fields above the playbook.
func FormatStoredPlaybook(sp *domain.StoredPlaybook) string {
	line := fmt.Sprintf("%s %s  %s  %s",
		FavoriteMark(sp.Favorite), Bold(sp.DisplayName()),
		Tags(sp.Tags), Dim("saved "+HumanTimestamp(sp.SavedAt)))
	return line + "\n" + FormatPlaybook(&sp.Playbook)
}

// FormatSaved is the one-line confirmation after a save.
func FormatSaved(sp *domain.StoredPlaybook) string {
	return fmt.Sprintf("%s Saved %s %s\n", StyleGreen.Render("✔"), Bold(sp.DisplayName()), Dim("("+sp.ID+")"))
}

func segment(b *strings.Builder, label string, minutes int, title, desc string) {
	b.WriteString("\n")
	b.WriteString(SegmentColor(label).Render(fmt.Sprintf("%-14s", strings.ToUpper(label))))
	b.WriteString(Dim(fmt.Sprintf("%4s", FormatMinutes(minutes))))
	if title != "" {
		b.WriteString("  " + Bold(title))
	}
	b.WriteString("\n")
	if desc != "" {
		b.WriteString("    " + desc + "\n")
	}
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + Header(title) + "\n")
	b.WriteString(Bullets(items, ""))
}

func standardsLabel(ids []string) string {
	if len(ids) == 0 {
		return Dim("none (movement foundations)")
	}
	return strings.Join(ids, ", ")
}

func padLabel(s string) string {
	return fmt.Sprintf("%-12s", s)
}
