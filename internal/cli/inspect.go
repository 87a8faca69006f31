package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tdvisu/pkg/document"
	"github.com/matzehuels/tdvisu/pkg/timeline"
)

// List styles
var (
	listSelectedStyle = fg(colorCyan).Bold(true)
	listNormalStyle   = fg(colorWhite)
	listDimStyle      = fg(colorDim)
	detailStyle       = lipgloss.NewStyle().PaddingLeft(4)
)

// inspectCommand creates the inspect command for browsing a timeline.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document.json>",
		Short: "Browse a document's timeline",
		Long: `Browse the timeline of a document step by step: the bags visited and
joined, their labels and the solution table shown at every step.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSON,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if len(doc.Timeline) == 0 {
				printInfo("Timeline is empty")
				return nil
			}
			p := tea.NewProgram(NewTimelineModel(doc), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// TimelineModel - Interactive timeline browser
// =============================================================================

// TimelineModel is the bubbletea model for browsing timeline steps.
type TimelineModel struct {
	Doc    *document.Document
	Cursor int
	Height int
	Offset int
}

// NewTimelineModel creates a timeline model positioned at the first step.
func NewTimelineModel(doc *document.Document) TimelineModel {
	return TimelineModel{Doc: doc, Height: 15}
}

func (m TimelineModel) Init() tea.Cmd {
	return nil
}

func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	last := len(m.Doc.Timeline) - 1
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < last {
				m.Cursor++
			}
		case "g", "home":
			m.Cursor = 0
		case "G", "end":
			m.Cursor = last
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *TimelineModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TimelineModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Timeline"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Doc.Timeline))
	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		line := fmt.Sprintf("%3d  %s", i+1, m.stepTitle(m.Doc.Timeline[i]))
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(listNormalStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}

	detail := detailStyle.Render(m.detail(m.Doc.Timeline[m.Cursor]))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), detail))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc.Timeline))))

	return b.String()
}

func (m TimelineModel) stepTitle(s timeline.Step) string {
	td := m.Doc.TreeDec
	switch {
	case s.IsJoin():
		return td.JoinName(s.Bags[0], s.Bags[1])
	case s.Solution != nil:
		return td.SolName(s.Bag())
	default:
		return td.BagName(s.Bag())
	}
}

// detail renders the bags of a step and the solution table it shows.
func (m TimelineModel) detail(s timeline.Step) string {
	var b strings.Builder
	for _, id := range s.Bags {
		bag, ok := m.Doc.Bag(id)
		if !ok {
			continue
		}
		b.WriteString(StyleHighlight.Render(m.Doc.TreeDec.BagName(id)))
		b.WriteString("\n")
		for _, l := range bag.Labels {
			b.WriteString(StyleDim.Render(l))
			b.WriteString("\n")
		}
	}
	if s.Solution == nil {
		return b.String()
	}

	sol := s.Solution
	if sol.Top != "" {
		b.WriteString("\n" + StyleValue.Render(sol.Top) + "\n")
	}
	b.WriteString(solutionTable(sol.Table).Render())
	if sol.Bottom != "" {
		b.WriteString("\n" + StyleNumber.Render(sol.Bottom))
	}
	return b.String()
}

func solutionTable(t timeline.Table) *table.Table {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]string, len(r))
		for j, v := range r {
			cells[j] = strconv.FormatInt(v, 10)
		}
		rows[i] = cells
	}

	headerStyle := fg(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(fg(colorDim)).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})
}
