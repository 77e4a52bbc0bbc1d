package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer escapes raw HTML in the markdown source.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// AI replies end up in the markdown, so the rendered body is sanitized too.
var sanitizer = bluemonday.UGCPolicy()

var printPage = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; line-height: 1.45; color: #222; }
h1 { border-bottom: 2px solid #2f5d3a; padding-bottom: .3rem; }
h2 { color: #2f5d3a; page-break-after: avoid; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Print renders a standalone, print-ready HTML page.
func Print(p *domain.Playbook) ([]byte, error) {
	var md bytes.Buffer
	if err := mdRenderer.Convert([]byte(Markdown(p)), &md); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	body := sanitizer.SanitizeBytes(md.Bytes())

	var out bytes.Buffer
	err := printPage.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: p.Title,
		Body:  template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering print page: %w", err)
	}
	return out.Bytes(), nil
}
