package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlaybook() *domain.Playbook {
	return &testutil.NewTestPlaybook("Throwing Unit").Playbook
}

func TestRender_EveryFormat(t *testing.T) {
	p := testPlaybook()
	want := map[Format]string{
		FormatMarkdown: ".md",
		FormatCSV:      ".csv",
		FormatText:     ".txt",
		FormatPrint:    ".html",
		FormatJSON:     ".json",
		FormatSummary:  ".txt",
	}
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			doc, err := Render(p, f)
			require.NoError(t, err)
			assert.Equal(t, f, doc.Format)
			assert.Equal(t, want[f], doc.Extension)
			assert.NotEmpty(t, doc.ContentType)
			assert.NotEmpty(t, doc.Body)
			assert.Equal(t, "throwing-unit"+want[f], doc.Filename(p))
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(testPlaybook(), Format("docx"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
}

func TestMarkdown_Structure(t *testing.T) {
	md := Markdown(testPlaybook())

	assert.True(t, strings.HasPrefix(md, "# Throwing Unit\n"))
	assert.Contains(t, md, "- **Grade Level:** 3-5")
	assert.Contains(t, md, "## Lesson 1: Lesson 1: Throwing")
	assert.Contains(t, md, "### Main Activity (18 min): Target Toss")
	assert.Contains(t, md, "**Equipment:** beanbags, hula hoops")
	assert.Contains(t, md, "### Social-Emotional Learning")
	assert.Contains(t, md, "## Take-Home Challenge")
}

func TestMarkdown_OmitsEmptyOptionalFields(t *testing.T) {
	p := testPlaybook()
	for i := range p.Lessons {
		p.Lessons[i].Safety = nil
		p.Lessons[i].SocialEmotional = ""
		p.Lessons[i].WarmUp.Equipment = nil
	}
	p.TakeHome = ""
	md := Markdown(p)

	assert.NotContains(t, md, "### Safety Considerations")
	assert.NotContains(t, md, "### Social-Emotional Learning")
	assert.NotContains(t, md, "## Take-Home Challenge")
	assert.Equal(t, 2, strings.Count(md, "**Equipment:**"), "only main activities list equipment")
}

func TestCSV_Rows(t *testing.T) {
	p := testPlaybook()
	body, err := CSV(p)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	// Blank separator lines are skipped by the reader.
	require.Len(t, rows, 6+4*len(p.Lessons))
	assert.Equal(t, []string{"Playbook Title", "Throwing Unit"}, rows[0])
	assert.Equal(t, []string{"Lesson", "Component", "Duration", "Description", "Details"}, rows[5])
	assert.Equal(t, []string{"Lesson 1", "Warm-up", "6", "Move like different animals across the space", "cones"}, rows[6])
	assert.Equal(t, "Closure", rows[9][1])
}

func TestPrint_SanitizedStandalonePage(t *testing.T) {
	p := testPlaybook()
	p.Title = "<script>alert(1)</script> Catch Week"
	p.Lessons[0].MainActivity.Description = `Click <a href="javascript:alert(1)">here</a>`

	body, err := Print(p)
	require.NoError(t, err)
	html := string(body)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<h2>Lesson 1: Lesson 1: Throwing</h2>")
	assert.Contains(t, html, "<li>Stay behind the line</li>")
	assert.NotContains(t, html, "<script>alert")
	assert.NotContains(t, html, "javascript:")
}

func TestText_DelimitedLayout(t *testing.T) {
	txt := Text(testPlaybook())

	assert.Contains(t, txt, "Throwing Unit\n=============\n")
	assert.Equal(t, 4, strings.Count(txt, rule), "two delimiter lines per lesson")
	assert.Contains(t, txt, "Reflection: What helped your aim today?")
}

func TestSummary(t *testing.T) {
	s := Summary(testPlaybook())

	assert.Contains(t, s, "3-5 | 45 min | Indoor | 2 lessons")
	assert.Contains(t, s, "1. Target Toss (Introduction and Exploration)")
}

func TestRender_JSONKeepsFields(t *testing.T) {
	doc, err := Render(testPlaybook(), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(doc.Body, &decoded))
	assert.Equal(t, "Throwing Unit", decoded["title"])
	assert.Contains(t, decoded, "lessons")
	assert.Contains(t, decoded, "metadata")
}

func TestFilename_FallsBackToID(t *testing.T) {
	p := testPlaybook()
	p.Title = "!!!"
	doc := Document{Extension: ".md"}
	assert.Equal(t, p.ID+".md", doc.Filename(p))
}
