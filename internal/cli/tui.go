package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/mountviz/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// BrowseModel - Interactive server browser
// =============================================================================

// ServerRow is one server in the browser with the mounts it backs.
type ServerRow struct {
	Name       string
	Category   graph.Category
	Partitions []string
	Mounts     []MountRow
}

// MountRow is one mount directory served by a server.
type MountRow struct {
	Dir   string
	Usage string
}

// BrowseModel is the bubbletea model for browsing servers and mounts.
type BrowseModel struct {
	Rows        []ServerRow
	ShowCompute bool
	Cursor      int
	Offset      int
	Height      int
	Selected    *ServerRow
}

// NewBrowseModel lists the server nodes of g, file servers first.
func NewBrowseModel(g *graph.Graph) BrowseModel {
	var servers, compute []ServerRow
	for _, n := range g.Nodes() {
		if n.Kind != graph.KindServer {
			continue
		}
		row := ServerRow{Name: n.ID, Category: g.Category(n.ID), Partitions: n.Partitions}
		for _, dir := range g.Neighbors(n.ID) {
			m := MountRow{Dir: dir}
			if mn, ok := g.Node(dir); ok && mn.Usage != nil {
				m.Usage = fmt.Sprintf("%d%% of %s", mn.Usage.Capacity, humanize.IBytes(mn.Usage.Size))
			}
			row.Mounts = append(row.Mounts, m)
		}
		if row.Category == graph.CategoryFileServer {
			servers = append(servers, row)
		} else {
			compute = append(compute, row)
		}
	}
	return BrowseModel{Rows: append(servers, compute...), Height: 12}
}

// visible returns the rows shown with the current filter.
func (m BrowseModel) visible() []ServerRow {
	if m.ShowCompute {
		return m.Rows
	}
	var out []ServerRow
	for _, r := range m.Rows {
		if r.Category == graph.CategoryFileServer {
			out = append(out, r)
		}
	}
	return out
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	rows := m.visible()
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
			if m.Cursor < len(rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "c":
			m.ShowCompute = !m.ShowCompute
			m.Cursor, m.Offset = 0, 0
		case "enter":
			if len(rows) == 0 {
				return m, nil
			}
			sel := rows[m.Cursor]
			m.Selected = &sel
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder
	rows := m.visible()

	b.WriteString(StyleTitle.Render("Automount Servers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  c toggle compute nodes  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  no servers"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(rows))
	var cells [][]string
	for i := m.Offset; i < end; i++ {
		r := rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		parts := strings.Join(r.Partitions, ",")
		if parts == "" {
			parts = "—"
		}
		cells = append(cells, []string{cursor, r.Name, string(r.Category), fmt.Sprint(len(r.Mounts)), parts})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Server", "Category", "Mounts", "Partitions").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(rows) {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle().Foreground(colorGray)
			if col == 1 || col == 2 {
				style = categoryStyle(rows[idx].Category)
			}
			if idx == m.Cursor {
				style = style.Bold(true)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))
	b.WriteString("\n\n")
	b.WriteString(mountList(rows[m.Cursor]))

	return b.String()
}

// mountList renders the mounts of one server.
func mountList(r ServerRow) string {
	var b strings.Builder
	b.WriteString(StyleValue.Render(r.Name))
	if len(r.Mounts) == 0 {
		b.WriteString(listDimStyle.Render(" backs no mounts"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")
	for _, mnt := range r.Mounts {
		line := "  " + StyleDim.Render(iconArrow) + " " + categoryStyle(graph.CategoryMount).Render(mnt.Dir)
		if mnt.Usage != "" {
			line += "  " + listDimStyle.Render(mnt.Usage)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
