package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors, ANSI 256.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

const iconArrow = "→"

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	StyleTitle     = fg(colorCyan).Bold(true)
	StyleHighlight = fg(colorCyan)
	StyleDim       = fg(colorDim)
	StyleValue     = fg(colorWhite)
	StyleNumber    = fg(colorCyan)
	StyleWarning   = fg(colorYellow)

	styleIconSpinner = fg(colorCyan)
	styleKey         = fg(colorGray).Width(12)
	styleCommand     = fg(colorBlue)
)

// uiOut receives all status output.
var uiOut io.Writer = os.Stdout

// status is the leading marker of a one-line message. body styles the
// message itself; the zero Style leaves it as is.
type status struct {
	icon  string
	style lipgloss.Style
	body  lipgloss.Style
}

var (
	statusSuccess = status{icon: "✓", style: fg(colorGreen)}
	statusError   = status{icon: "✗", style: fg(colorRed)}
	statusWarning = status{icon: "!", style: fg(colorYellow), body: StyleWarning}
	statusInfo    = status{icon: "›", style: fg(colorGray)}
)

func (s status) line(format string, args ...any) string {
	return s.style.Render(s.icon) + " " + s.body.Render(fmt.Sprintf(format, args...))
}

func (s status) print(format string, args ...any) {
	fmt.Fprintln(uiOut, s.line(format, args...))
}

func printSuccess(format string, args ...any) { statusSuccess.print(format, args...) }
func printError(format string, args ...any)   { statusError.print(format, args...) }
func printWarning(format string, args ...any) { statusWarning.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printSeries prints the file range of one rendered frame series,
// e.g. out/TDStep1..12.svg.
func printSeries(folder, name string, frames int) {
	switch frames {
	case 0:
	case 1:
		printFile(filepath.Join(folder, name+"1.svg"))
	default:
		printFile(filepath.Join(folder, fmt.Sprintf("%s1..%d.svg", name, frames)))
	}
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints the size of a document on one line.
func printStats(bags, steps, graphs int) {
	parts := []string{fmt.Sprintf("%d bags", bags), fmt.Sprintf("%d steps", steps)}
	if graphs > 0 {
		parts = append(parts, fmt.Sprintf("%d graphs", graphs))
	}
	printDotted(dimAll(parts)...)
}

// printCacheStats prints how many frames came from the render cache.
func printCacheStats(hits, misses int64) {
	if hits+misses == 0 {
		return
	}
	printDotted(
		fg(colorGreen).Render(fmt.Sprintf("%d cached", hits)),
		fg(colorGray).Render(fmt.Sprintf("%d rendered", misses)),
	)
}

func dimAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = StyleDim.Render(p)
	}
	return out
}

// printDotted joins already styled parts with dim separators.
func printDotted(parts ...string) {
	fmt.Fprintln(uiOut, dottedLine(parts...))
}

func dottedLine(parts ...string) string {
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(uiOut) }
