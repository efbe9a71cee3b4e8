// Package tui implements the interactive review dashboard.
package tui

import (
	"github.com/Veraticus/polyreview/internal/analytics"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Panel identifies which part of the dashboard receives navigation keys.
type Panel int

const (
	PanelLanguages Panel = iota
	PanelReviews
)

// Model holds the dashboard state. The full data set never changes; every
// selection change recomputes the filtered view from it.
type Model struct {
	theme     themes.Theme
	all       *analytics.Aggregator
	view      *analytics.Aggregator
	selected  map[string]bool
	help      help.Model
	source    string
	languages []model.LanguageCount
	reviews   table.Model
	keymap    KeyMap
	cursor    int
	width     int
	height    int
	focus     Panel
	quitting  bool
}

// New creates a dashboard over rows with every language selected.
func New(rows []model.EnrichedReview, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	all := analytics.New(rows)
	languages := all.LanguageDistribution()
	selected := make(map[string]bool, len(languages))
	for _, l := range languages {
		selected[l.Language] = true
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		theme:     cfg.Theme,
		all:       all,
		selected:  selected,
		help:      h,
		source:    cfg.Source,
		languages: languages,
		keymap:    DefaultKeyMap(),
		width:     cfg.Width,
		height:    cfg.Height,
		focus:     PanelLanguages,
		reviews: table.New(
			table.WithColumns(reviewColumns(cfg.Width)),
			table.WithHeight(reviewTableHeight(cfg.Height)),
		),
	}
	m.reviews.SetStyles(tableStyles(cfg.Theme))
	m.recompute()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
		if m.focus == PanelReviews {
			var cmd tea.Cmd
			m.reviews, cmd = m.reviews.Update(msg)
			return m, cmd
		}
		m.handleLanguageKeys(msg)
	}
	return m, nil
}

// handleGlobalKeys handles keys that work in either panel.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.handleResize()
		return nil, true
	case key.Matches(msg, m.keymap.NextPanel):
		m.switchPanel()
		return nil, true
	case key.Matches(msg, m.keymap.SelectAll):
		m.selectAll(true)
		return nil, true
	case key.Matches(msg, m.keymap.DeselectAll):
		m.selectAll(false)
		return nil, true
	}
	return nil, false
}

func (m *Model) handleLanguageKeys(msg tea.KeyMsg) {
	last := len(m.languages) - 1
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < last {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = max(last, 0)
	case key.Matches(msg, m.keymap.Toggle):
		m.toggle(m.cursor)
	}
}

func (m *Model) switchPanel() {
	if m.focus == PanelLanguages {
		m.focus = PanelReviews
		m.reviews.Focus()
		return
	}
	m.focus = PanelLanguages
	m.reviews.Blur()
}

func (m *Model) toggle(i int) {
	if i < 0 || i >= len(m.languages) {
		return
	}
	code := m.languages[i].Language
	m.selected[code] = !m.selected[code]
	m.recompute()
}

func (m *Model) selectAll(on bool) {
	for _, l := range m.languages {
		m.selected[l.Language] = on
	}
	m.recompute()
}

// recompute rebuilds the filtered view and the inspector rows.
func (m *Model) recompute() {
	m.view = m.all.Filter(m.Selected())
	m.reviews.SetRows(reviewRows(m.view.Rows()))
	m.reviews.SetCursor(0)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	m.help.Width = m.width
	m.reviews.SetColumns(reviewColumns(m.width))
	m.reviews.SetHeight(reviewTableHeight(m.height))
}

// Selected returns the selected language codes, most common first.
func (m Model) Selected() []string {
	var codes []string
	for _, l := range m.languages {
		if m.selected[l.Language] {
			codes = append(codes, l.Language)
		}
	}
	return codes
}

// Summary returns totals over the reviews in the selected languages.
func (m Model) Summary() model.Summary {
	return m.view.Summary()
}

// Filtered returns the aggregator behind the current view.
func (m Model) Filtered() *analytics.Aggregator {
	return m.view
}

// Focus returns the panel receiving navigation keys.
func (m Model) Focus() Panel {
	return m.focus
}

func reviewColumns(width int) []table.Column {
	const fixed = 8 + 6 + 10 + 8
	flex := (width - fixed - 6) / 2
	if flex < 20 {
		flex = 20
	}
	return []table.Column{
		{Title: "Product", Width: 8},
		{Title: "Lang", Width: 6},
		{Title: "Sentiment", Width: 10},
		{Title: "Text", Width: flex},
		{Title: "Translation", Width: flex},
	}
}

func reviewTableHeight(height int) int {
	h := height / 3
	if h < 5 {
		h = 5
	}
	return h
}

func reviewRows(rows []model.EnrichedReview) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			r.Review.Value(model.ColumnProductID),
			r.OriginalLang,
			string(r.SentimentLabel),
			r.Text,
			r.TranslatedText,
		})
	}
	return out
}

func tableStyles(theme themes.Theme) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	s.Selected = theme.Selected
	return s
}
