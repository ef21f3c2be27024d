package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickItem is one selectable candidate.
type pickItem struct {
	ID     string
	Name   string
	Detail string
}

// pickModel is the bubbletea model for interactive candidate selection.
// Candidates whose name or detail contains the initial query sort first.
type pickModel struct {
	Title  string
	Items  []pickItem
	Cursor int
	Height int
	Offset int
	Picked *pickItem
}

func newPickModel(title, query string, items []pickItem) pickModel {
	sorted := make([]pickItem, 0, len(items))
	var rest []pickItem
	q := strings.ToLower(strings.TrimSpace(query))
	for _, item := range items {
		if q != "" && (strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Detail), q)) {
			sorted = append(sorted, item)
		} else {
			rest = append(rest, item)
		}
	}
	return pickModel{
		Title:  title,
		Items:  append(sorted, rest...),
		Height: 15,
	}
}

func (m pickModel) Init() tea.Cmd {
	return nil
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			item := m.Items[m.Cursor]
			m.Picked = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m pickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}

	for i := m.Offset; i < end; i++ {
		item := m.Items[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := cursor + style.Render(item.Name)
		if item.ID != "" {
			line += " " + listDimStyle.Render(item.ID)
		}
		if item.Detail != "" {
			line += " " + listDimStyle.Render(item.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.Items) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d of %d candidates", end-m.Offset, len(m.Items))))
	}
	return b.String()
}
