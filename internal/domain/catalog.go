package domain

// Activity is a reusable catalog entry. An empty Environment means the
// activity works both indoors and outdoors.
type Activity struct {
	ID           string           `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	Category     ActivityCategory `json:"category" yaml:"category"`
	GradeLevels  []GradeBand      `json:"gradeLevels" yaml:"gradeLevels"`
	Environment  Environment      `json:"environment,omitempty" yaml:"environment,omitempty"`
	Equipment    []string         `json:"equipment" yaml:"equipment"`
	Duration     int              `json:"duration,omitempty" yaml:"duration,omitempty"`
	Description  string           `json:"description" yaml:"description"`
	Instructions []string         `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Variations   []string         `json:"variations,omitempty" yaml:"variations,omitempty"`
	Rules        []string         `json:"rules,omitempty" yaml:"rules,omitempty"`
	SafetyNotes  []string         `json:"safetyNotes,omitempty" yaml:"safetyNotes,omitempty"`
	Standards    []string         `json:"standards,omitempty" yaml:"standards,omitempty"`
}

// SupportsGrade reports whether the activity lists the band.
func (a Activity) SupportsGrade(g GradeBand) bool {
	for _, b := range a.GradeLevels {
		if b == g {
			return true
		}
	}
	return false
}

// SupportsEnvironment is true for untagged activities or an exact match.
func (a Activity) SupportsEnvironment(e Environment) bool {
	return a.Environment == "" || a.Environment == e
}

// Standard is a curriculum standard a playbook can address.
type Standard struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	GradeLevels []GradeBand `json:"gradeLevels,omitempty" yaml:"gradeLevels,omitempty"`
}
