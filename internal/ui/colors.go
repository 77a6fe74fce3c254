package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/airlift/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a heading line.
func Title(s string) string {
	return styles.title.Render(s)
}

// Help renders secondary explanatory text.
func Help(s string) string {
	return styles.help.Render(s)
}

// RenderUpdate styles a cycle update message by outcome severity: additions
// in green, catalog failures in red, misses in orange, the rest muted.
func RenderUpdate(update tasks.CycleUpdate) string {
	switch update.Outcome {
	case tasks.Added:
		return styles.ok.Render(update.Message)
	case tasks.CatalogDown, tasks.AppendFailed:
		return styles.err.Render(update.Message)
	case tasks.NoMatch, tasks.SourceFailed:
		return styles.warn.Render(update.Message)
	default:
		return styles.help.Render(update.Message)
	}
}
