package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/errors"
	geoio "github.com/matzehuels/geodome/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Browse the stacks of a layout interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := geoio.ImportLayout(args[0])
			if err != nil {
				return err
			}
			if len(l.Stacks) == 0 {
				return errors.New(errors.ErrCodeInvalidInput,
					"layout %s has no stacks; run '%s stack' first", args[0], appName)
			}
			_, err = tea.NewProgram(NewStackBrowserModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// StackBrowserModel - Interactive stack browser
// =============================================================================

// StackBrowserModel is the bubbletea model for browsing the stacks of a
// layout. The upper table lists the stacks, the lower one the members of
// the stack under the cursor.
type StackBrowserModel struct {
	Layout *geoio.Layout
	Cursor int
	Height int
	Offset int

	regions map[int]geoio.LayoutRegion
}

// NewStackBrowserModel creates a stack browser for l.
func NewStackBrowserModel(l *geoio.Layout) StackBrowserModel {
	regions := make(map[int]geoio.LayoutRegion, len(l.Regions))
	for _, r := range l.Regions {
		regions[r.ID] = r
	}
	return StackBrowserModel{Layout: l, Height: 8, regions: regions}
}

func (m StackBrowserModel) Init() tea.Cmd {
	return nil
}

func (m StackBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Layout.Stacks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Layout.Stacks)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		// Leave room for the member table below the stack list.
		m.Height = max(msg.Height/3, 3)
	}
	return m, nil
}

func (m StackBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stacks"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  run %s", m.Layout.RunID)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layout.Stacks))
	for i := m.Offset; i < end; i++ {
		s := m.Layout.Stacks[i]
		line := fmt.Sprintf("stack %-3d %2d regions  %4d fields  height %.1f",
			i, len(s.Members), m.fields(i), s.Height)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.Layout.Stacks) > 0 {
		b.WriteString("\n")
		b.WriteString(m.memberTable())
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layout.Stacks))))
	return b.String()
}

// memberTable renders the members of the stack under the cursor.
func (m StackBrowserModel) memberTable() string {
	s := m.Layout.Stacks[m.Cursor]
	overflow := make(map[int]bool, len(m.Layout.Stats.Overflows))
	for _, id := range m.Layout.Stats.Overflows {
		overflow[id] = true
	}

	rows := make([][]string, len(s.Members))
	for i, mem := range s.Members {
		r := m.regions[mem.Region]
		n := mem.Normal
		rows[i] = []string{
			strconv.Itoa(mem.Region),
			fmt.Sprintf("%.1f", mem.Offset),
			strconv.Itoa(len(r.Fields)),
			strconv.Itoa(r.Vertices),
			fmt.Sprintf("%+.2f %+.2f %+.2f", n[0], n[1], n[2]),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Region", "Offset", "Fields", "Vertices", "Print direction").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(s.Members) && overflow[s.Members[row].Region] {
				return StyleWarning
			}
			if col == 1 {
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

// fields returns the number of fields in stack i.
func (m StackBrowserModel) fields(i int) int {
	n := 0
	for _, mem := range m.Layout.Stacks[i].Members {
		n += len(m.regions[mem.Region].Fields)
	}
	return n
}
