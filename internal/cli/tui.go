package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/jsontree"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listBorderStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browseCommand creates the browse command for exploring a diagram.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [file.json|file.diagram.json|-]",
		Short: "Explore a JSON document's diagram in the terminal",
		Long: `Explore a JSON document's diagram in the terminal.

Nodes are listed as a collapsible tree coloured by data type; the footer
shows the selected node's path, type and computed position. A file ending in
.diagram.json is read as a saved layout instead of being laid out again.

Keys: ↑/↓ (j/k) move, → / enter expand, ← collapse, e expand all,
c collapse all, q quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE:              func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], c.options(cmd, &flags))
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options) error {
	d, err := c.loadDiagram(ctx, input, opts)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(NewBrowseModel(d),
		tea.WithContext(ctx),
		tea.WithOutput(c.Stdout),
		tea.WithAltScreen(),
	)
	_, err = prog.Run()
	return err
}

// loadDiagram reads a saved .diagram.json as is and lays out anything else.
func (c *CLI) loadDiagram(ctx context.Context, input string, opts pipeline.Options) (graph.Diagram, error) {
	if input != stdinArg && strings.HasSuffix(input, diagramExt) {
		d, err := graph.ReadDiagramFile(input)
		if err != nil {
			return graph.Diagram{}, err
		}
		if err := graph.Validate(d); err != nil {
			return graph.Diagram{}, fmt.Errorf("%s: %w", input, err)
		}
		return d, nil
	}

	data, err := c.readInput(input)
	if err != nil {
		return graph.Diagram{}, err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return graph.Diagram{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return runner.Layout(ctx, data, opts)
}

// =============================================================================
// BrowseModel - Interactive diagram tree
// =============================================================================

// browseRow is one visible line of the tree.
type browseRow struct {
	id    string
	depth int
}

// BrowseModel is the bubbletea model for the diagram tree browser.
type BrowseModel struct {
	nodes    map[string]graph.Node
	children map[string][]string
	parent   map[string]string
	root     string
	expanded map[string]bool
	rows     []browseRow
	extentX  float64
	extentY  float64

	Cursor int
	Height int
	Offset int
}

// NewBrowseModel creates a browser over d with the root expanded.
func NewBrowseModel(d graph.Diagram) BrowseModel {
	m := BrowseModel{
		nodes:    make(map[string]graph.Node, len(d.Nodes)),
		children: make(map[string][]string),
		parent:   make(map[string]string, len(d.Edges)),
		expanded: make(map[string]bool),
		Height:   20,
	}
	m.extentX, m.extentY = d.Bounds()
	for _, n := range d.Nodes {
		m.nodes[n.ID] = n
	}
	for _, e := range d.Edges {
		m.children[e.Source] = append(m.children[e.Source], e.Target)
		m.parent[e.Target] = e.Source
	}
	for _, n := range d.Nodes {
		if _, ok := m.parent[n.ID]; !ok {
			m.root = n.ID
			break
		}
	}
	if m.root != "" {
		m.expanded[m.root] = true
	}
	m.rebuild()
	return m
}

// Selected returns the id of the node under the cursor.
func (m BrowseModel) Selected() string {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.Cursor].id
}

// Visible returns the ids of the currently listed nodes in order.
func (m BrowseModel) Visible() []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.id
	}
	return ids
}

func (m *BrowseModel) rebuild() {
	m.rows = m.rows[:0]
	if m.root == "" {
		return
	}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		m.rows = append(m.rows, browseRow{id: id, depth: depth})
		if !m.expanded[id] {
			return
		}
		for _, child := range m.children[id] {
			walk(child, depth+1)
		}
	}
	walk(m.root, 0)
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

// moveTo places the cursor on id if it is visible.
func (m *BrowseModel) moveTo(id string) {
	for i, r := range m.rows {
		if r.id == id {
			m.Cursor = i
			return
		}
	}
}

func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *BrowseModel) setAll(expanded bool) {
	for id := range m.children {
		m.expanded[id] = expanded
	}
	m.expanded[m.root] = true
	m.rebuild()
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		id := m.Selected()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.rows)-1, 0)
		case "right", "l", "enter", " ":
			if len(m.children[id]) > 0 && id != m.root {
				m.expanded[id] = !m.expanded[id] || msg.String() == "right" || msg.String() == "l"
				m.rebuild()
				m.moveTo(id)
			}
		case "left", "h":
			if m.expanded[id] && id != m.root {
				m.expanded[id] = false
				m.rebuild()
				m.moveTo(id)
			} else if p, ok := m.parent[id]; ok {
				m.moveTo(p)
			}
		case "e":
			m.setAll(true)
			m.moveTo(id)
		case "c":
			m.setAll(false)
			m.Cursor = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	m.scroll()
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("jsonviz"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d nodes · extent %s×%s", len(m.nodes),
		jsontree.FormatNumber(m.extentX), jsontree.FormatNumber(m.extentY))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  →/⏎ expand  ← collapse  e/c all  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	var lines []string
	for i := m.Offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.Cursor))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	if n, ok := m.nodes[m.Selected()]; ok {
		b.WriteString(listBorderStyle.Render(m.renderDetail(n)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

func (m BrowseModel) renderRow(r browseRow, selected bool) string {
	n := m.nodes[r.id]

	cursor := "  "
	if selected {
		cursor = listSelectedStyle.Render("▸ ")
	}

	marker := "  "
	if kids := m.children[r.id]; len(kids) > 0 {
		if m.expanded[r.id] {
			marker = listDimStyle.Render("▾ ")
		} else {
			marker = listDimStyle.Render("▸ ")
		}
	} else if n.IsContainer() {
		marker = listDimStyle.Render("· ")
	}

	style := typeStyle(n.Data.DataType)
	if selected {
		style = style.Bold(true)
	}

	var label string
	switch {
	case n.IsMerged():
		label = listDimStyle.Render(*n.Data.KeyPart) + style.Render(*n.Data.ValuePart)
	case n.IsContainer():
		label = style.Render(n.Data.Label) + listDimStyle.Render(containerSummary(n, len(m.children[r.id])))
	default:
		label = style.Render(n.Data.Label)
	}

	return cursor + strings.Repeat("  ", r.depth) + marker + label
}

func (m BrowseModel) renderDetail(n graph.Node) string {
	lines := []string{
		StyleValue.Render(n.ID),
		listDimStyle.Render("type ") + typeStyle(n.Data.DataType).Render(n.Data.DataType),
		listDimStyle.Render(fmt.Sprintf("position (%s, %s)",
			jsontree.FormatNumber(n.Position.X), jsontree.FormatNumber(n.Position.Y))),
	}
	if n.Data.FullText != nil {
		lines = append(lines, listDimStyle.Render("text ")+StyleValue.Render(*n.Data.FullText))
	}
	return strings.Join(lines, "\n")
}

func containerSummary(n graph.Node, count int) string {
	if n.Data.DataType == string(jsontree.TypeArray) {
		return fmt.Sprintf(" [%d]", count)
	}
	return fmt.Sprintf(" {%d}", count)
}
