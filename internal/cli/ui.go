package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/format"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failed lookups.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
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

	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconCatalog = "◆"
	iconSkipped = "—"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Annotation Tables
// =============================================================================

// annotationTable renders annotations as a bordered table. Lines are shown
// 1-based.
func annotationTable(anns []annotate.Annotation) string {
	rows := make([][]string, 0, len(anns))
	for _, a := range anns {
		rows = append(rows, []string{
			strconv.Itoa(a.Line + 1),
			annotationName(a),
			a.Specifier,
			annotationLabel(a),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Line", "Dependency", "Specifier", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			a := anns[row]
			switch {
			case col == 0:
				return StyleDim
			case a.Skipped:
				return StyleDim
			case col == 3 && a.Size.Failed():
				return StyleError
			case col == 3:
				return StyleNumber
			}
			return StyleValue
		}).
		Render()
}

func annotationName(a annotate.Annotation) string {
	if a.FromCatalog {
		return a.Name + " " + iconCatalog
	}
	return a.Name
}

func annotationLabel(a annotate.Annotation) string {
	if a.Skipped {
		return iconSkipped
	}
	return a.Label
}

// printAnnotations writes the annotation table and a one-line total.
func printAnnotations(w io.Writer, anns []annotate.Annotation) {
	if len(anns) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No dependencies found"))
		return
	}
	fmt.Fprintln(w, annotationTable(anns))
	fmt.Fprintln(w, summaryLine(anns))
}

// summaryLine totals the successful lookups in anns.
func summaryLine(anns []annotate.Annotation) string {
	var size, gzip int64
	var sized, failed, skipped int
	for _, a := range anns {
		switch {
		case a.Skipped:
			skipped++
		case a.Size.Failed():
			failed++
		default:
			sized++
			size += a.Size.Size
			gzip += a.Size.Gzip
		}
	}

	parts := []string{
		fmt.Sprintf("%d sized", sized),
		"total " + format.SizeLabel(size, gzip),
	}
	if failed > 0 {
		parts = append(parts, StyleError.Render(fmt.Sprintf("%d failed", failed)))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// statsLine renders a coordinator snapshot on one line.
func statsLine(s sizes.Stats) string {
	return StyleDim.Render(fmt.Sprintf(
		"limit %d · running %d · waiting %d · sizes %d · links %d · failures %d",
		s.Limit, s.Running, s.Waiting, s.Sizes, s.Links, s.Failures,
	))
}
