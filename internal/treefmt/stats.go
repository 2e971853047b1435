package treefmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"modtree/internal/tree"
)

type statRow struct {
	label string
	value int
	warn  bool // подсвечивать ненулевое значение
}

func statRows(st tree.Stats) []statRow {
	return []statRow{
		{label: "files", value: st.Files},
		{label: "parses", value: st.FileParses},
		{label: "rounds", value: st.Rounds},
		{label: "modules", value: st.Modules},
		{label: "tokens", value: st.Tokens},
		{label: "nodes", value: st.Structural},
		{label: "arena bytes", value: st.ArenaBytes},
		{label: "names", value: st.Names},
		{label: "paths", value: st.Paths},
		{label: "scopes", value: st.Scopes},
		{label: "macro calls", value: st.Macros},
		{label: "parse errors", value: st.ParseErrors, warn: true},
		{label: "duplicates", value: st.Duplicates, warn: true},
		{label: "malformed", value: st.Malformed, warn: true},
		{label: "unresolved", value: st.Unresolved, warn: true},
	}
}

// Stats prints a two-column summary under title.
func Stats(w io.Writer, title string, st tree.Stats, opts Options) error {
	rows := statRows(st)
	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, len(r.label))
	}

	var b strings.Builder
	if !opts.Color {
		fmt.Fprintf(&b, "%s\n", title)
		for _, r := range rows {
			fmt.Fprintf(&b, "  %-*s %d\n", labelWidth, r.label, r.value)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyle := lipgloss.NewStyle().Width(labelWidth + 1).PaddingLeft(2).Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	labels := make([]string, len(rows))
	values := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = labelStyle.Render(r.label)
		style := valueStyle
		if r.warn && r.value > 0 {
			style = warnStyle
		}
		values[i] = style.Render(strconv.Itoa(r.value))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, labels...),
		" ",
		lipgloss.JoinVertical(lipgloss.Left, values...),
	)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
