package formatter

import (
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// FormatStandards lists curriculum standards as a table.
func FormatStandards(standards []domain.Standard) string {
	if len(standards) == 0 {
		return RenderBox("Standards", Dim("No standards in the catalog."))
	}
	headers := []string{"ID", "NAME", "CATEGORY", "GRADES"}
	rows := make([][]string, 0, len(standards))
	for _, s := range standards {
		rows = append(rows, []string{
			StyleGreen.Render(s.ID),
			Bold(Truncate(s.Name, 48)),
			dash(s.Category),
			gradeList(s.GradeLevels),
		})
	}
	return RenderBox("Standards", RenderTable(headers, rows))
}

// FormatActivities lists catalog activities as a table.
func FormatActivities(activities []domain.Activity) string {
	if len(activities) == 0 {
		return RenderBox("Activities", Dim("No activities match."))
	}
	headers := []string{"ID", "NAME", "CATEGORY", "GRADES", "WHERE", "EQUIPMENT"}
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		where := "any"
		if a.Environment != "" {
			where = string(a.Environment)
		}
		equipment := Dim("none")
		if len(a.Equipment) > 0 {
			equipment = Truncate(strings.Join(a.Equipment, ", "), 36)
		}
		rows = append(rows, []string{
			Dim(a.ID),
			Bold(a.Name),
			SegmentColor(categorySegment(a.Category)).Render(string(a.Category)),
			gradeList(a.GradeLevels),
			where,
			equipment,
		})
	}
	return RenderBox("Activities", RenderTable(headers, rows))
}

func categorySegment(c domain.ActivityCategory) string {
	switch c {
	case domain.CategoryWarmup:
		return "warm-up"
	case domain.CategorySkill:
		return "skill focus"
	case domain.CategoryMain, domain.CategoryGame:
		return "main activity"
	case domain.CategoryCooldown:
		return "closure"
	}
	return ""
}

func gradeList(grades []domain.GradeBand) string {
	if len(grades) == 0 {
		return Dim("all")
	}
	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = string(g)
	}
	return strings.Join(parts, " ")
}

func dash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}
