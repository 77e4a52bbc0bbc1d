package export

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// Summary is a short body for sharing a playbook by message or email.
func Summary(p *domain.Playbook) string {
	var b strings.Builder
	m := p.Metadata

	fmt.Fprintf(&b, "%s\n\n", p.Title)
	fmt.Fprintf(&b, "%s | %d min | %s | %d lessons\n\n",
		m.GradeLevel, m.Duration, m.Environment.Label(), len(p.Lessons))

	if len(p.Goals) > 0 {
		b.WriteString("Goals:\n")
		for _, g := range p.Goals {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	b.WriteString("Lessons:\n")
	for _, l := range p.Lessons {
		fmt.Fprintf(&b, "%d. %s (%s)\n", l.Number, l.MainActivity.Name, l.Focus)
	}
	return b.String()
}
