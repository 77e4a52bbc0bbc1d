// Package export renders playbooks into downloadable documents. Every
// function here is pure: no I/O, no clock.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/peplaybook/internal/domain"
)

// ErrUnknownFormat is returned by Render for a format it does not support.
var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatText     Format = "text"
	FormatPrint    Format = "print"
	FormatJSON     Format = "json"
	FormatSummary  Format = "summary"
)

// Formats lists every supported format.
var Formats = []Format{FormatMarkdown, FormatCSV, FormatText, FormatPrint, FormatJSON, FormatSummary}

// ParseFormat accepts a format name or a common alias ("md", "html", "txt").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "text", "txt":
		return FormatText, nil
	case "print", "html":
		return FormatPrint, nil
	case "json":
		return FormatJSON, nil
	case "summary", "share", "email":
		return FormatSummary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Document is a rendered playbook ready to be written or served.
type Document struct {
	Format      Format
	ContentType string
	Extension   string
	Body        []byte
}

// Filename derives a file name from the playbook title.
func (d Document) Filename(p *domain.Playbook) string {
	base := slugify(p.Title)
	if base == "" {
		base = p.ID
	}
	if base == "" {
		base = "playbook"
	}
	return base + d.Extension
}

// Render formats p.
func Render(p *domain.Playbook, format Format) (Document, error) {
	switch format {
	case FormatMarkdown:
		return Document{format, "text/markdown; charset=utf-8", ".md", []byte(Markdown(p))}, nil
	case FormatCSV:
		body, err := CSV(p)
		if err != nil {
			return Document{}, err
		}
		return Document{format, "text/csv; charset=utf-8", ".csv", body}, nil
	case FormatText:
		return Document{format, "text/plain; charset=utf-8", ".txt", []byte(Text(p))}, nil
	case FormatPrint:
		body, err := Print(p)
		if err != nil {
			return Document{}, err
		}
		return Document{format, "text/html; charset=utf-8", ".html", body}, nil
	case FormatJSON:
		body, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return Document{}, fmt.Errorf("encoding playbook: %w", err)
		}
		return Document{format, "application/json", ".json", body}, nil
	case FormatSummary:
		return Document{format, "text/plain; charset=utf-8", ".txt", []byte(Summary(p))}, nil
	}
	return Document{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	return s
}

func join(items []string) string {
	return strings.Join(items, ", ")
}
