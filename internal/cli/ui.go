package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	geoio "github.com/matzehuels/geodome/pkg/io"
)

// Terminal palette (ANSI 256).
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by the commands and the inspect browser.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorTeal)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// marker is the coloured glyph that prefixes a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorAmber)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// say prints one status line to stdout.
func (m marker) say(body lipgloss.Style, format string, args []any) {
	fmt.Println(m.style.Render(m.glyph) + " " + body.Render(fmt.Sprintf(format, args...)))
}

var plain = lipgloss.NewStyle()

func printSuccess(format string, args ...any) { markSuccess.say(plain, format, args) }
func printError(format string, args ...any)   { markError.say(plain, format, args) }
func printWarning(format string, args ...any) { markWarning.say(StyleWarning, format, args) }
func printInfo(format string, args ...any)    { markInfo.say(plain, format, args) }

// printDetail prints an indented, muted line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printStats prints partition statistics on a single line.
func printStats(l *geoio.Layout, cached bool) {
	parts := []string{
		fmt.Sprintf("%d regions", len(l.Regions)),
		fmt.Sprintf("smallest %d", l.Stats.Smallest),
	}
	if len(l.Stacks) > 0 {
		parts = append(parts, fmt.Sprintf("%d stacks", len(l.Stacks)))
	}
	if l.Stats.Trials > 1 {
		parts = append(parts, fmt.Sprintf("%d/%d trials kept", l.Stats.Trials-l.Stats.Discarded, l.Stats.Trials))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + statusStyle.Render(status))

	if n := len(l.Stats.Overflows); n > 0 {
		printWarning("%d regions overflow the printable volume: %v", n, l.Stats.Overflows)
	}
}

// printStackTable prints one row per stack.
func printStackTable(l *geoio.Layout) {
	if len(l.Stacks) == 0 {
		return
	}
	sizes := make(map[int]int, len(l.Regions))
	for _, r := range l.Regions {
		sizes[r.ID] = len(r.Fields)
	}

	rows := make([][]string, len(l.Stacks))
	for i, s := range l.Stacks {
		ids := make([]string, len(s.Members))
		fields := 0
		for j, m := range s.Members {
			ids[j] = strconv.Itoa(m.Region)
			fields += sizes[m.Region]
		}
		rows[i] = []string{strconv.Itoa(i), strings.Join(ids, " "), strconv.Itoa(fields), fmt.Sprintf("%.1f", s.Height)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stack", "Regions", "Fields", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0 || col == 3:
				return StyleNumber
			default:
				return StyleValue
			}
		})
	fmt.Println(t.Render())
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
