package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"derivefmt/internal/driver"
)

const statusWidth = 10

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	statusStyles = map[driver.Status]lipgloss.Style{
		driver.StatusDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		driver.StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		driver.StatusWorking: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}

	stageVerbs = map[driver.Stage]string{
		driver.StageRead:    "reading",
		driver.StageReorder: "sorting",
		driver.StageVerify:  "verifying",
		driver.StageWrite:   "writing",
		driver.StageRustfmt: "rustfmt",
	}
)

// label is the word shown in the status column.
func (f fileState) label() string {
	if f.status == driver.StatusWorking {
		if verb, ok := stageVerbs[f.stage]; ok {
			return verb
		}
	}
	return string(f.status)
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	rows := m.rows()
	for _, i := range rows {
		f := m.files[i]
		style, ok := statusStyles[f.status]
		if !ok {
			style = dimStyle
		}
		fmt.Fprintf(&b, "  %s %s\n", style.Render(fmt.Sprintf("%*s", statusWidth, f.label())), truncate(f.path, nameWidth))
	}
	if hidden := len(m.files) - len(rows); hidden > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  +%d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) header() string {
	h := m.title
	if verb, ok := stageVerbs[m.phase]; ok {
		h += " (" + verb + ")"
	}
	h += fmt.Sprintf("  %d/%d", m.finishedCount(), len(m.files))
	if m.failed > 0 {
		h += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

// rows picks what the list shows: failures first, then the most recently
// touched files, then queued ones in input order.
func (m *progressModel) rows() []int {
	if len(m.files) <= maxRows {
		out := make([]int, len(m.files))
		for i := range out {
			out[i] = i
		}
		return out
	}
	seen := make(map[int]bool, maxRows)
	out := make([]int, 0, maxRows)
	add := func(i int) {
		if len(out) < maxRows && !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for i, f := range m.files {
		if f.status == driver.StatusError {
			add(i)
		}
	}
	for j := len(m.recent) - 1; j >= 0; j-- {
		add(m.recent[j])
	}
	for i := range m.files {
		add(i)
	}
	return out
}

// truncate cuts value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
