package llm

import "strings"

// CleanText normalizes a free-text completion: line endings become "\n",
// markdown code fences are removed (their contents are kept) and
// surrounding whitespace is trimmed.
func CleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(stripCodeFences(s))
}

// stripCodeFences removes markdown code fences (```markdown ... ``` or ``` ... ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
