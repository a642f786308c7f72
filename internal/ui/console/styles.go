package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

const (
	checkMark = "[OK]"
	crossMark = "[!!]"
	warnMark  = "[??]"
	infoMark  = "[..]"
)

// styles are bound to the renderer of one writer so that color output is
// only produced when that writer is a terminal.
type styles struct {
	info     lipgloss.Style
	success  lipgloss.Style
	warning  lipgloss.Style
	failure  lipgloss.Style
	status   lipgloss.Style
	progress lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	border   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		info:     r.NewStyle().Foreground(colorWhite),
		success:  r.NewStyle().Foreground(colorGreen),
		warning:  r.NewStyle().Foreground(colorYellow),
		failure:  r.NewStyle().Foreground(colorRed).Bold(true),
		status:   r.NewStyle().Foreground(colorBlue),
		progress: r.NewStyle().Foreground(colorDim),
		header:   r.NewStyle().Bold(true).Foreground(colorBlue).Padding(0, 1),
		cell:     r.NewStyle().Padding(0, 1),
		border:   r.NewStyle().Foreground(colorDim),
	}
}
