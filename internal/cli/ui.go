package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/deiva0304/BUDS-Crochet/pkg/stitch"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// stitchColors tint stitch names in terminal output.
var stitchColors = map[stitch.Type]lipgloss.Color{
	stitch.Chain:      lipgloss.Color("180"),
	stitch.Single:     lipgloss.Color("117"),
	stitch.HalfDouble: lipgloss.Color("150"),
	stitch.Double:     lipgloss.Color("214"),
	stitch.Slip:       lipgloss.Color("250"),
}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleRowLabel = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Pattern Output
// =============================================================================

// printCounts prints pattern statistics on a single line.
func printCounts(rows, stitches int) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%d rows · %d stitches", rows, stitches)))
}

// styleWritten highlights the "Row N:" labels of written instructions.
func styleWritten(written string) string {
	lines := strings.Split(strings.TrimRight(written, "\n"), "\n")
	for i, line := range lines {
		if label, rest, ok := strings.Cut(line, ":"); ok {
			lines[i] = styleRowLabel.Render(label+":") + rest
		}
	}
	return strings.Join(lines, "\n")
}

// stitchTable renders the stitch catalog.
func stitchTable() string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	types := stitch.Selectable()
	rows := make([][]string, len(types))
	for i, t := range types {
		rows[i] = []string{
			t.Name(),
			t.Code(),
			fmt.Sprintf("%g", t.Height()),
			fmt.Sprintf("%d", t.TurningChains()),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stitch", "Code", "Height", "Turning ch").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 && row < len(types) {
				return lipgloss.NewStyle().Foreground(stitchColors[types[row]])
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
