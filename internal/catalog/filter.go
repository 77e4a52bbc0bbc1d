package catalog

import "github.com/alexanderramin/peplaybook/internal/domain"

// Eligible reports whether an activity fits the request: its category is one
// of cats, it lists the grade band, its environment tag matches or is empty,
// and its equipment list fits the tier ceiling.
func Eligible(a domain.Activity, in domain.GeneratorInput, cats ...domain.ActivityCategory) bool {
	if len(cats) > 0 && !hasCategory(cats, a.Category) {
		return false
	}
	if !a.SupportsGrade(in.GradeLevel) {
		return false
	}
	if in.Environment != "" && !a.SupportsEnvironment(in.Environment) {
		return false
	}
	tier := in.EquipmentLevel
	if tier == "" {
		tier = domain.EquipmentStandard
	}
	return tier.Allows(len(a.Equipment))
}

// Filter returns the eligible activities in catalog order.
func (c *Catalog) Filter(in domain.GeneratorInput, cats ...domain.ActivityCategory) []domain.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Activity
	for _, a := range c.activities {
		if Eligible(a, in, cats...) {
			out = append(out, a)
		}
	}
	return out
}

// Query is a browsing filter where every field is optional.
type Query struct {
	Grade       domain.GradeBand
	Environment domain.Environment
	Equipment   domain.EquipmentTier
	Category    domain.ActivityCategory
	Standard    string
}

// Search applies q to the activity list.
func (c *Catalog) Search(q Query) []domain.Activity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Activity
	for _, a := range c.activities {
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if q.Grade != "" && !a.SupportsGrade(q.Grade) {
			continue
		}
		if q.Environment != "" && !a.SupportsEnvironment(q.Environment) {
			continue
		}
		if q.Equipment != "" && !q.Equipment.Allows(len(a.Equipment)) {
			continue
		}
		if q.Standard != "" && !contains(a.Standards, q.Standard) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func hasCategory(cats []domain.ActivityCategory, c domain.ActivityCategory) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
