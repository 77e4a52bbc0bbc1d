package intelligence

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/llm"
)

// Section names reported by Sections.Missing.
const (
	SectionTitle           = "title"
	SectionObjectives      = "objectives"
	SectionMaterials       = "materials"
	SectionWarmUp          = "warmUp"
	SectionMainActivities  = "mainActivities"
	SectionCoolDown        = "coolDown"
	SectionAssessments     = "assessments"
	SectionModifications   = "modifications"
	SectionSafety          = "safety"
	SectionCrossCurricular = "crossCurricular"
	SectionTakeHome        = "takeHome"
)

// ActivityBlock is one parsed main activity.
type ActivityBlock struct {
	Name        string
	Duration    string
	Description string
}

// Sections holds whatever could be pulled out of a free-text reply. A nil
// field means the section was not found.
type Sections struct {
	Title           *string
	Objectives      []string
	Materials       []string
	WarmUp          []string
	MainActivities  []ActivityBlock
	CoolDown        []string
	Assessments     []string
	Modifications   []string
	Safety          []string
	CrossCurricular []string
	TakeHome        *string
}

// Missing lists the sections that were not found, in prompt order.
func (s Sections) Missing() []string {
	var out []string
	check := func(name string, found bool) {
		if !found {
			out = append(out, name)
		}
	}
	check(SectionTitle, s.Title != nil)
	check(SectionObjectives, s.Objectives != nil)
	check(SectionMaterials, s.Materials != nil)
	check(SectionWarmUp, s.WarmUp != nil)
	check(SectionMainActivities, s.MainActivities != nil)
	check(SectionCoolDown, s.CoolDown != nil)
	check(SectionAssessments, s.Assessments != nil)
	check(SectionModifications, s.Modifications != nil)
	check(SectionSafety, s.Safety != nil)
	check(SectionCrossCurricular, s.CrossCurricular != nil)
	check(SectionTakeHome, s.TakeHome != nil)
	return out
}

// Empty reports whether nothing at all was extracted.
func (s Sections) Empty() bool {
	return len(s.Missing()) == 11
}

// headingRe matches a section heading at the start of a line. Headings may
// carry markdown, numbering ("4.", "a)"), one qualifying word such as
// "needed" or "considerations", and a "(duration)" before the colon.
var headingRe = regexp.MustCompile(`(?i)^\s*(#{1,6}\s*)?(\*\*)?\s*(?:\d+[.)]\s*|[a-z][.)]\s+)?(?:\*\*)?\s*` +
	`(lesson title|title|learning objectives|objectives|materials|warm[- ]?up|main activit(?:y|ies)|` +
	`cool[- ]?down|assessments?|modifications?|safety|cross[- ]curricular|take[- ]home|lesson structure)` +
	`(?:\s+(?:needed|activities|activity|strategies|considerations|connections|challenge))?` +
	`\s*(?:\([^)\n]{0,40}\))?\s*(?:\*\*)?\s*:\s*(?:\*\*)?\s*(.*)$`)

// matchHeading reports whether line opens a section. Inside a section, a
// mixed-case label followed by text ("Modification: use a softer ball") is
// body text; headings there must be upper case or marked up.
func matchHeading(line string, inSection bool) (keyword, rest string, ok bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	keyword, rest = m[3], strings.TrimSpace(m[4])
	marked := m[1] != "" || m[2] != "" || keyword == strings.ToUpper(keyword)
	if inSection && !marked && rest != "" {
		return "", "", false
	}
	return keyword, rest, true
}

var (
	bulletRe   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	activityRe = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)\s*:?$`)
	numberedRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)
)

func sectionKey(heading string) string {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "title"):
		return SectionTitle
	case strings.Contains(h, "objective"):
		return SectionObjectives
	case strings.HasPrefix(h, "materials"):
		return SectionMaterials
	case strings.HasPrefix(h, "warm"):
		return SectionWarmUp
	case strings.HasPrefix(h, "main"):
		return SectionMainActivities
	case strings.HasPrefix(h, "cool"):
		return SectionCoolDown
	case strings.HasPrefix(h, "assessment"):
		return SectionAssessments
	case strings.HasPrefix(h, "modification"):
		return SectionModifications
	case h == "safety":
		return SectionSafety
	case strings.HasPrefix(h, "cross"):
		return SectionCrossCurricular
	case strings.HasPrefix(h, "take"):
		return SectionTakeHome
	}
	return ""
}

// ExtractSections pulls named sections out of a free-text reply. It is a
// best-effort line scanner: a section runs from its heading to the next
// recognised heading. The first occurrence of a heading wins.
func ExtractSections(text string) Sections {
	bodies := make(map[string][]string)
	inline := make(map[string]string)

	current := ""
	for _, line := range strings.Split(llm.CleanText(text), "\n") {
		if keyword, rest, ok := matchHeading(line, current != ""); ok {
			key := sectionKey(keyword)
			if _, seen := bodies[key]; seen && key != "" {
				// Repeated heading: keep appending to the first one.
				current = key
				continue
			}
			current = key
			if key == "" {
				continue
			}
			bodies[key] = []string{}
			if rest != "" {
				inline[key] = rest
			}
			continue
		}
		if current != "" {
			bodies[current] = append(bodies[current], line)
		}
	}

	var s Sections
	if v := single(inline[SectionTitle], bodies[SectionTitle]); v != "" {
		s.Title = &v
	}
	s.Objectives = parseList(inline[SectionObjectives], bodies[SectionObjectives])
	s.Materials = parseList(inline[SectionMaterials], bodies[SectionMaterials])
	s.WarmUp = parseList(inline[SectionWarmUp], bodies[SectionWarmUp])
	s.MainActivities = parseActivities(bodies[SectionMainActivities])
	s.CoolDown = parseList(inline[SectionCoolDown], bodies[SectionCoolDown])
	s.Assessments = parseList(inline[SectionAssessments], bodies[SectionAssessments])
	s.Modifications = parseList(inline[SectionModifications], bodies[SectionModifications])
	s.Safety = parseList(inline[SectionSafety], bodies[SectionSafety])
	s.CrossCurricular = parseList(inline[SectionCrossCurricular], bodies[SectionCrossCurricular])
	if v := single(inline[SectionTakeHome], bodies[SectionTakeHome]); v != "" {
		s.TakeHome = &v
	}
	return s
}

// single returns the inline text after a heading, or the body joined into one
// line.
func single(inline string, body []string) string {
	if v := cleanItem(inline); v != "" {
		return v
	}
	var parts []string
	for _, line := range body {
		if v := cleanItem(line); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// parseList strips bullets and numbering and drops blank lines. It returns nil
// when nothing is left.
func parseList(inline string, body []string) []string {
	var out []string
	if v := cleanItem(inline); v != "" {
		out = append(out, v)
	}
	for _, line := range body {
		if v := cleanItem(line); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseActivities splits a main-activities body into blocks. A block starts
// after a blank line or at a numbered line; its first line is the name with an
// optional "(duration)".
func parseActivities(body []string) []ActivityBlock {
	var blocks [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, cur)
			cur = nil
		}
	}
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if numberedRe.MatchString(line) {
			flush()
		}
		cur = append(cur, line)
	}
	flush()

	var out []ActivityBlock
	for _, block := range blocks {
		name := cleanItem(block[0])
		if name == "" {
			continue
		}
		a := ActivityBlock{Name: name, Duration: "10 minutes"}
		if m := activityRe.FindStringSubmatch(name); m != nil {
			a.Name = strings.TrimSpace(m[1])
			a.Duration = strings.TrimSpace(m[2])
		}
		a.Name = strings.TrimSuffix(a.Name, ":")

		var desc []string
		for _, line := range block[1:] {
			if v := cleanItem(line); v != "" {
				desc = append(desc, v)
			}
		}
		a.Description = strings.Join(desc, " ")
		out = append(out, a)
	}
	return out
}

func cleanItem(s string) string {
	s = bulletRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.TrimLeft(s, "# ")
	return strings.Trim(strings.TrimSpace(s), `"`)
}
