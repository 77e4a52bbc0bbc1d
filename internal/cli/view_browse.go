package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/peplaybook/internal/cli/formatter"
	"github.com/alexanderramin/peplaybook/internal/domain"
	"github.com/alexanderramin/peplaybook/internal/service"
)

const (
	browseListWidth = 38
	browseChrome    = 4 // title line, blank line, help line, trailing newline
)

// playbooksLoadedMsg signals that the saved playbook list has been loaded.
type playbooksLoadedMsg struct {
	playbooks []*domain.StoredPlaybook
	err       error
}

// favoriteToggledMsg carries the result of a favorite toggle.
type favoriteToggledMsg struct {
	playbook *domain.StoredPlaybook
	err      error
}

type browseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Preview  key.Binding
	Back     key.Binding
	Filter   key.Binding
	Favorite key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Preview:  key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "read")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Preview, k.Filter, k.Favorite, k.Quit}
}

// browseModel lists saved playbooks beside a scrollable preview of the
// selected one.
type browseModel struct {
	ctx       context.Context
	playbooks service.PlaybookService
	keys      browseKeyMap

	list    []*domain.StoredPlaybook
	cursor  int
	loading bool
	err     error
	status  string

	filtering bool
	filter    string

	reading  bool
	preview  viewport.Model
	shownID  string
	width    int
	height   int
	quitting bool
}

func newBrowseModel(ctx context.Context, playbooks service.PlaybookService) *browseModel {
	return &browseModel{
		ctx:       ctx,
		playbooks: playbooks,
		keys:      defaultBrowseKeys(),
		loading:   true,
		preview:   viewport.New(80, 20),
		width:     120,
		height:    24,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load()
}

func (m *browseModel) load() tea.Cmd {
	ctx, svc := m.ctx, m.playbooks
	return func() tea.Msg {
		list, err := svc.List(ctx)
		return playbooksLoadedMsg{playbooks: list, err: err}
	}
}

func (m *browseModel) toggleFavorite(sp *domain.StoredPlaybook) tea.Cmd {
	ctx, svc := m.ctx, m.playbooks
	id, fav := sp.ID, !sp.Favorite
	return func() tea.Msg {
		updated, err := svc.SetFavorite(ctx, id, fav)
		return favoriteToggledMsg{playbook: updated, err: err}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case playbooksLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.list = msg.playbooks
		m.clampCursor()
		m.refreshPreview()
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		if msg.playbook.Favorite {
			m.status = "★ " + msg.playbook.DisplayName()
		} else {
			m.status = "Unstarred " + msg.playbook.DisplayName()
		}
		for i, sp := range m.list {
			if sp.ID == msg.playbook.ID {
				m.list[i] = msg.playbook
			}
		}
		m.shownID = ""
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (msg.String() == "ctrl+c" || !m.filtering) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		if m.reading {
			return m.updateReading(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Preview):
		if len(visible) > 0 {
			m.reading = true
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
	case key.Matches(msg, m.keys.Back):
		m.filter = ""
		m.cursor = 0
	case key.Matches(msg, m.keys.Favorite):
		if sp := m.selected(); sp != nil {
			return m, m.toggleFavorite(sp)
		}
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()
	}
	m.refreshPreview()
	return m, nil
}

func (m *browseModel) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Preview) {
		m.reading = false
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	}
	m.cursor = 0
	m.refreshPreview()
	return m, nil
}

// visible returns the playbooks matching the filter by name, title or tag.
func (m *browseModel) visible() []*domain.StoredPlaybook {
	if m.filter == "" {
		return m.list
	}
	lf := strings.ToLower(m.filter)
	var out []*domain.StoredPlaybook
	for _, sp := range m.list {
		if strings.Contains(strings.ToLower(sp.DisplayName()), lf) ||
			strings.Contains(strings.ToLower(sp.Title), lf) ||
			strings.Contains(strings.ToLower(strings.Join(sp.Tags, " ")), lf) {
			out = append(out, sp)
		}
	}
	return out
}

func (m *browseModel) selected() *domain.StoredPlaybook {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return nil
	}
	return visible[m.cursor]
}

func (m *browseModel) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *browseModel) resize() {
	m.preview.Width = max(20, m.width-browseListWidth-2)
	m.preview.Height = max(5, m.height-browseChrome)
	m.shownID = ""
	m.refreshPreview()
}

// refreshPreview loads the selected playbook into the viewport when the
// selection changed.
func (m *browseModel) refreshPreview() {
	sp := m.selected()
	if sp == nil {
		m.shownID = ""
		m.preview.SetContent(formatter.Dim("Nothing selected."))
		return
	}
	if sp.ID == m.shownID {
		return
	}
	m.shownID = sp.ID
	m.preview.SetContent(formatter.FormatStoredPlaybook(sp))
	m.preview.GotoTop()
}

func (m *browseModel) View() string {
	if m.quitting {
		return ""
	}
	if m.loading {
		return "\n  " + formatter.Dim("Loading playbooks...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error())
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(fmt.Sprintf("SAVED PLAYBOOKS (%d)", len(m.list))))
	if m.status != "" {
		b.WriteString("  " + formatter.Dim(m.status))
	}
	b.WriteString("\n\n")

	listPane := lipgloss.NewStyle().Width(browseListWidth).Render(m.listView())
	previewStyle := lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).PaddingLeft(1)
	if m.reading {
		previewStyle = previewStyle.BorderForeground(formatter.ColorHeader)
	} else {
		previewStyle = previewStyle.BorderForeground(formatter.ColorDim)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewStyle.Render(m.preview.View())))
	b.WriteString("\n" + m.helpView())
	return b.String()
}

func (m *browseModel) listView() string {
	var b strings.Builder
	if m.filtering || m.filter != "" {
		cursor := ""
		if m.filtering {
			cursor = "█"
		}
		b.WriteString(formatter.StyleYellow.Render("/") + " " + m.filter + cursor + "\n\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		if len(m.list) == 0 {
			b.WriteString(formatter.Dim("No saved playbooks."))
		} else {
			b.WriteString(formatter.Dim("No playbooks match."))
		}
		return b.String()
	}

	for i, sp := range visible {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, formatter.FavoriteMark(sp.Favorite),
			nameStyle.Render(formatter.Truncate(sp.DisplayName(), browseListWidth-6))))
		b.WriteString(fmt.Sprintf("     %s\n", formatter.Dim(fmt.Sprintf("%s · %d×%dm · %s",
			sp.Metadata.GradeLevel, len(sp.Lessons), sp.Metadata.Duration, formatter.HumanTimestamp(sp.SavedAt)))))
	}
	return b.String()
}

func (m *browseModel) helpView() string {
	bindings := m.keys.help()
	if m.reading {
		bindings = []key.Binding{
			key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "scroll")),
			m.keys.Back,
			m.keys.Quit,
		}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, formatter.StyleBlue.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}
