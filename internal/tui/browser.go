// Terminal pattern browser following The Elm Architecture:
// model holds all state, Update reacts to messages, View renders a string.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"patternforge/internal/catalog"
)

// browserState represents which screen is showing.
type browserState int

const (
	stateList   browserState = iota // pattern list with filtering
	stateDetail                     // one pattern rendered as markdown
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// patternItem implements list.Item for a catalog pattern.
type patternItem struct {
	pattern catalog.Pattern
}

func (i patternItem) Title() string { return i.pattern.Name }

func (i patternItem) Description() string {
	parts := []string{}
	if i.pattern.Maturity != "" {
		parts = append(parts, i.pattern.Maturity)
	}
	if i.pattern.Category != "" {
		parts = append(parts, i.pattern.Category)
	}
	desc := strings.Join(parts, " · ")
	if i.pattern.Description != "" {
		if desc != "" {
			desc += " — "
		}
		desc += i.pattern.Description
	}
	return desc
}

func (i patternItem) FilterValue() string { return i.pattern.Name }

// Browser is the bubbletea model for the catalog browser.
type Browser struct {
	state    browserState
	menu     list.Model
	renderer *glamour.TermRenderer
	detail   string
	current  string
	err      error

	width  int
	height int
}

// NewBrowser builds the browser model from a parsed catalog.
func NewBrowser(cat *catalog.Catalog) (*Browser, error) {
	items := make([]list.Item, 0, len(cat.Order))
	for _, name := range cat.Order {
		if p := cat.Patterns[name]; p != nil {
			items = append(items, patternItem{pattern: *p})
		}
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Pattern Catalog"
	menu.SetShowStatusBar(false)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}

	return &Browser{menu: menu, renderer: renderer}, nil
}

// Init is called once when the program starts.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update reacts to key presses and window resizes.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.menu.SetSize(maxInt(0, msg.Width-4), maxInt(0, msg.Height-6))
		return b, nil

	case tea.KeyMsg:
		// While the list filter is typing, every key belongs to it.
		if b.state == stateList && b.menu.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "ctrl+c":
			return b, tea.Quit
		case "q":
			if b.state == stateList {
				return b, tea.Quit
			}
			b.state = stateList
			return b, nil
		case "esc":
			if b.state == stateDetail {
				b.state = stateList
				return b, nil
			}
		case "enter":
			if b.state == stateList {
				return b.openSelected()
			}
		}
	}

	if b.state == stateList {
		var cmd tea.Cmd
		b.menu, cmd = b.menu.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *Browser) openSelected() (tea.Model, tea.Cmd) {
	item, ok := b.menu.SelectedItem().(patternItem)
	if !ok {
		return b, nil
	}
	rendered, err := b.renderer.Render(PatternMarkdown(item.pattern))
	if err != nil {
		b.err = err
		return b, nil
	}
	b.err = nil
	b.current = item.pattern.Name
	b.detail = rendered
	b.state = stateDetail
	return b, nil
}

// View renders the current screen.
func (b *Browser) View() string {
	switch b.state {
	case stateDetail:
		header := headerStyle.Render(b.current)
		footer := footerStyle.Render("Esc → back    q → list    Ctrl+C → quit")
		return lipgloss.JoinVertical(lipgloss.Left, header, b.detail, footer)
	default:
		sections := []string{b.menu.View()}
		if b.err != nil {
			sections = append(sections, errStyle.Render(b.err.Error()))
		}
		sections = append(sections, footerStyle.Render("Enter → view pattern    / → filter    q → quit"))
		return strings.Join(sections, "\n")
	}
}

// PatternMarkdown reassembles a pattern as a standalone markdown document.
func PatternMarkdown(p catalog.Pattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.Maturity != "" {
		fmt.Fprintf(&b, "**Maturity**: %s\n\n", p.Maturity)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "**Description**: %s\n\n", p.Description)
	}
	if len(p.RelatedPatterns) > 0 {
		fmt.Fprintf(&b, "**Related Patterns**: %s\n\n", strings.Join(p.RelatedPatterns, ", "))
	}
	if impl := strings.TrimSpace(p.Implementation); impl != "" {
		b.WriteString(impl)
		b.WriteString("\n")
	}
	if anti := strings.TrimSpace(p.AntiPattern); anti != "" {
		fmt.Fprintf(&b, "\n## Anti-pattern\n\n%s\n", anti)
	}
	return b.String()
}

// Run launches the browser over the given catalog and blocks until quit.
func Run(cat *catalog.Catalog) error {
	model, err := NewBrowser(cat)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
