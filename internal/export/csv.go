package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// CSV writes header rows followed by one row per lesson component.
func CSV(p *domain.Playbook) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	m := p.Metadata

	rows := [][]string{
		{"Playbook Title", p.Title},
		{"Grade Level", string(m.GradeLevel)},
		{"Duration", strconv.Itoa(int(m.Duration))},
		{"Environment", string(m.Environment)},
		{"Standards", strings.Join(m.Standards, "; ")},
		{},
		{"Lesson", "Component", "Duration", "Description", "Details"},
	}
	for _, l := range p.Lessons {
		rows = append(rows,
			[]string{fmt.Sprintf("Lesson %d", l.Number), "Warm-up", strconv.Itoa(l.WarmUp.Duration),
				l.WarmUp.Description, join(l.WarmUp.Equipment)},
			[]string{"", "Skill Focus", strconv.Itoa(l.SkillFocus.Duration),
				l.SkillFocus.Description, join(l.SkillFocus.Skills)},
			[]string{"", "Main Activity", strconv.Itoa(l.MainActivity.Duration),
				l.MainActivity.Name, l.MainActivity.Description},
			[]string{"", "Closure", strconv.Itoa(l.Closure.Duration),
				l.Closure.Description, l.Closure.Reflection},
		)
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}
	return buf.Bytes(), nil
}
