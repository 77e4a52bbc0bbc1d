package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/intelligence"
)

// FormatSettings renders every setting key with its current value.
func FormatSettings(s domain.Settings) string {
	var b strings.Builder
	for _, key := range domain.SettingKeys {
		v := s.Value(key)
		if v == "" {
			v = Dim("(unset)")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleBlue.Render(fmt.Sprintf("%-20s", key)), v))
	}
	return RenderBox("Settings", strings.TrimRight(b.String(), "\n"))
}

// FormatAIStatus renders one line describing the AI provider.
func FormatAIStatus(st intelligence.Status) string {
	label := StyleBlue.Render(fmt.Sprintf("%-20s", "ai"))
	if st.Provider == "" {
		return fmt.Sprintf("%s  %s", label, Dim("unavailable"))
	}
	provider := fmt.Sprintf("%s (%s)", st.Provider, st.Model)
	switch {
	case !st.Configured:
		return fmt.Sprintf("%s  %s  %s", label, provider, StyleYellow.Render("no API key"))
	case st.Reachable:
		return fmt.Sprintf("%s  %s  %s", label, provider, StyleGreen.Render("● reachable"))
	default:
		return fmt.Sprintf("%s  %s  %s", label, provider, StyleRed.Render("● unreachable at "+st.Endpoint))
	}
}
