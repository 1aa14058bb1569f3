package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/franzenjb/fourcolor/pkg/coloring"
	"github.com/franzenjb/fourcolor/pkg/engine"
	"github.com/franzenjb/fourcolor/pkg/graph"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ColoringModel - Interactive coloring editor
// =============================================================================

// SaveFunc persists the engine and returns the session ID it was saved under.
type SaveFunc func(e *engine.Engine) (string, error)

// ColoringModel is the bubbletea model for editing a coloring by hand.
//
// Digit keys assign a color to the node under the cursor, "a" runs the next
// algorithm in turn, and every change goes through the engine so undo and
// redo cover manual and automatic edits alike.
type ColoringModel struct {
	Engine *engine.Engine
	Save   SaveFunc

	// SavedID is the last session ID returned by Save.
	SavedID string

	nodes      []graph.Node
	algorithms []string
	next       int
	cursor     int
	offset     int
	height     int
	message    string
	failed     bool
}

// NewColoringModel creates an editor over an engine that already has a
// graph loaded. save may be nil to disable saving.
func NewColoringModel(e *engine.Engine, save SaveFunc) ColoringModel {
	g := graphOf(e)
	nodes := make([]graph.Node, 0, len(g.Nodes))
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			nodes = append(nodes, n)
		}
	}
	return ColoringModel{
		Engine:     e,
		Save:       save,
		nodes:      nodes,
		algorithms: coloring.Names(),
		height:     15,
	}
}

func (m ColoringModel) Init() tea.Cmd {
	return nil
}

func (m ColoringModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message, m.failed = "", false
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "a":
			m.autoColor()
		case "u":
			if _, ok := m.Engine.Undo(); !ok {
				m.message = "Nothing to undo"
			}
		case "r":
			if _, ok := m.Engine.Redo(); !ok {
				m.message = "Nothing to redo"
			}
		case "x":
			m.Engine.Reset()
			m.message = "Coloring cleared"
		case "backspace", "delete", "-":
			m.assign(-1)
		case "s":
			m.save()
		default:
			if d, err := strconv.Atoi(key); err == nil && len(key) == 1 {
				m.assign(d)
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m *ColoringModel) assign(color int) {
	if len(m.nodes) == 0 {
		return
	}
	id := m.nodes[m.cursor].ID
	if _, err := m.Engine.AssignColor(id, color); err != nil {
		m.message, m.failed = err.Error(), true
	}
}

func (m *ColoringModel) autoColor() {
	name := m.algorithms[m.next%len(m.algorithms)]
	m.next++
	a, err := m.Engine.ComputeColoring(coloring.Options{Algorithm: name})
	switch {
	case err != nil:
		m.message, m.failed = err.Error(), true
	case a.Exhausted:
		m.message, m.failed = fmt.Sprintf("%s ran out of search budget", name), true
	case !a.Valid:
		m.message, m.failed = fmt.Sprintf("%s found no coloring within the budget", name), true
	default:
		m.message = fmt.Sprintf("%s used %d colors", name, a.Chromatic)
	}
}

func (m *ColoringModel) save() {
	if m.Save == nil {
		m.message, m.failed = "Saving is not available", true
		return
	}
	id, err := m.Save(m.Engine)
	if err != nil {
		m.message, m.failed = "Save failed: "+err.Error(), true
		return
	}
	m.SavedID = id
	m.message = "Saved session " + id
}

func (m ColoringModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Color Map"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  0-9 color  ⌫ clear  a auto  u undo  r redo  x reset  s save  q quit"))
	b.WriteString("\n\n")

	a := m.Engine.Current()
	conflicted := make(map[string]bool)
	conflicts := m.Engine.Conflicts()
	for _, c := range conflicts {
		conflicted[c.A], conflicted[c.B] = true, true
	}

	end := min(m.offset+m.height, len(m.nodes))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		color, hex := "-", ""
		if c, ok := a.Color(n.ID); ok {
			color, hex = strconv.Itoa(c), a.Hex(n.ID)
		}
		mark := ""
		if conflicted[n.ID] {
			mark = "!"
		}
		rows = append(rows, []string{cursor, n.ID, n.DisplayLabel(), color, swatch(hex), mark})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Label", "Color", "", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.offset + row
			if idx >= len(m.nodes) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 5 {
				return base.Foreground(colorRed).Bold(true)
			}
			if idx == m.cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	status := "incomplete"
	switch {
	case len(conflicts) > 0:
		status = fmt.Sprintf("%d conflicts", len(conflicts))
	case a.Valid:
		status = "valid"
	}
	snaps, cur := m.Engine.History()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d colors · %s · history %d/%d · [%d/%d]",
		a.Chromatic, status, cur+1, len(snaps), m.cursor+1, len(m.nodes))))
	b.WriteString("\n")

	if m.message != "" {
		if m.failed {
			b.WriteString(listErrorStyle.Render("  " + m.message))
		} else {
			b.WriteString(StyleSuccess.Render("  " + m.message))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// graphOf returns the engine's loaded graph in serialization form.
func graphOf(e *engine.Engine) graph.Graph {
	return graph.FromAdjacency(e.Graph())
}
