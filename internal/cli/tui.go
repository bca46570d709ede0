package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LabelPicker - Interactive label selection
// =============================================================================

// LabelPicker is the bubbletea model for choosing a subset of labels.
type LabelPicker struct {
	Labels    []string
	Chosen    []bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewLabelPicker creates a picker over labels with nothing chosen.
func NewLabelPicker(labels []string) LabelPicker {
	return LabelPicker{
		Labels: labels,
		Chosen: make([]bool, len(labels)),
		Height: 15,
	}
}

// Selected returns the chosen labels in their original order.
func (m LabelPicker) Selected() []string {
	out := make([]string, 0, len(m.Labels))
	for i, l := range m.Labels {
		if m.Chosen[i] {
			out = append(out, l)
		}
	}
	return out
}

func (m LabelPicker) count() int {
	n := 0
	for _, c := range m.Chosen {
		if c {
			n++
		}
	}
	return n
}

func (m LabelPicker) Init() tea.Cmd {
	return nil
}

func (m LabelPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Labels)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "x":
			if len(m.Chosen) > 0 {
				m.Chosen = toggled(m.Chosen, m.Cursor)
			}
		case "a":
			all := m.count() < len(m.Labels)
			chosen := make([]bool, len(m.Chosen))
			for i := range chosen {
				chosen[i] = all
			}
			m.Chosen = chosen
		case "enter":
			if m.count() == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

// toggled flips chosen[i] in a copy, so earlier models stay unchanged.
func toggled(chosen []bool, i int) []bool {
	out := append([]bool(nil), chosen...)
	out[i] = !out[i]
	return out
}

func (m LabelPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Labels"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Labels))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Chosen[i] {
			box = "[x]"
		}
		rows = append(rows, []string{cursor, box, m.Labels[i]})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Labels) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if m.Chosen[idx] {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected · [%d/%d]", m.count(), m.Cursor+1, len(m.Labels))))

	return b.String()
}
