package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deusflow/pronews/internal/dashboard"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	captionStyle = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	urgentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	labelStyles = map[string]lipgloss.Style{
		"green": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		"red":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		"gray":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
	}
)

// FormatDisplay renders a pass for the terminal, one headline per block.
func FormatDisplay(d dashboard.Display) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("🚨 Pro Trader Market News"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("━", 40))
	b.WriteString("\n\n")

	for _, e := range d.Errors {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error processing %q: %s", e.Title, e.Message)))
		b.WriteString("\n")
	}

	for _, r := range d.Records {
		b.WriteString(formatRecord(r))
	}

	if d.Empty {
		b.WriteString("No matching news right now.\n")
	} else {
		b.WriteString(fmt.Sprintf("Showing %d matching headlines.\n", d.Count))
	}
	return b.String()
}

func formatRecord(r dashboard.DisplayRecord) string {
	var b strings.Builder

	style, ok := labelStyles[r.Color]
	if !ok {
		style = labelStyles["gray"]
	}
	b.WriteString(style.Render(fmt.Sprintf("%s %s", r.Sentiment, r.Marker())))
	if r.Urgent {
		b.WriteString(" " + urgentStyle.Render("🚨 URGENT"))
	}
	b.WriteString(" " + r.Title + "\n")
	b.WriteString("  " + r.URL + "\n")
	b.WriteString(captionStyle.Render(fmt.Sprintf("  %s · %s · %s", r.Category, r.Source, r.Timestamp)))
	b.WriteString("\n\n")
	return b.String()
}

// WriteDisplay prints a pass to w.
func WriteDisplay(w io.Writer, d dashboard.Display) error {
	_, err := io.WriteString(w, FormatDisplay(d))
	return err
}
