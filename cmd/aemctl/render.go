package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, labelStyle.Render(strings.Repeat("─", max(len(title), 20))))
}

func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label+":"), value)
}

// markdown renders md for the terminal; plain output is returned unchanged.
func markdown(md string, plain bool) string {
	if plain {
		return md
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
