// Package ui renders live progress of a multi-root build.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"modtree/internal/buildpipeline"
)

const labelWidth = 10

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusFg   = map[buildpipeline.Status]lipgloss.Color{
		buildpipeline.StatusQueued:  "7",
		buildpipeline.StatusWorking: "6",
		buildpipeline.StatusDone:    "2",
		buildpipeline.StatusError:   "1",
	}
)

// rootState is what the view knows about one root.
type rootState struct {
	path    string
	stage   buildpipeline.Stage
	status  buildpipeline.Status
	elapsed time.Duration // итог; заполняется финальным событием
	err     error
}

func (r rootState) finished() bool {
	return r.status == buildpipeline.StatusDone || r.status == buildpipeline.StatusError
}

// label is the word in the status column.
func (r rootState) label() string {
	if r.status != buildpipeline.StatusWorking {
		return string(r.status)
	}
	switch r.stage {
	case buildpipeline.StageParse:
		return "parsing"
	case buildpipeline.StageExpand:
		return "expanding"
	case buildpipeline.StageSnapshot:
		return "saving"
	}
	return string(r.stage)
}

// fraction is the share of the root's work already behind it.
func (r rootState) fraction() float64 {
	if r.finished() {
		return 1
	}
	if r.status != buildpipeline.StatusWorking {
		return 0
	}
	for i, st := range buildpipeline.Stages {
		if st == r.stage {
			return (float64(i) + 0.5) / float64(len(buildpipeline.Stages))
		}
	}
	return 0
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	roots   []rootState
	byPath  map[string]int
	width   int
	closed  bool
}

type (
	eventMsg  buildpipeline.Event
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model that follows the events of a
// buildpipeline run over roots and quits once events is closed.
func NewProgressModel(title string, roots []string, events <-chan buildpipeline.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6")))),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		roots:   make([]rootState, len(roots)),
		byPath:  make(map[string]int, len(roots)),
		width:   80,
	}
	for i, root := range roots {
		m.roots[i] = rootState{path: root, status: buildpipeline.StatusQueued}
		m.byPath[root] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.roots) == 0 {
		return ""
	}
	var b strings.Builder
	done := 0
	for _, r := range m.roots {
		if r.finished() {
			done++
		}
	}
	head := fmt.Sprintf("%s: %d/%d roots", m.title, done, len(m.roots))
	if !m.closed {
		head = m.spinner.View() + " " + head
	}
	b.WriteString(titleStyle.Render(head))
	b.WriteString("\n\n")

	pathWidth := max(m.width-labelWidth-16, 20)
	for _, r := range m.roots {
		status := lipgloss.NewStyle().Foreground(statusFg[r.status]).Render(fmt.Sprintf("%*s", labelWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s", status, runewidth.FillRight(truncate(r.path, pathWidth), pathWidth))
		switch {
		case r.err != nil:
			b.WriteString(" " + dimStyle.Render(truncate(r.err.Error(), 40)))
		case r.finished():
			b.WriteString(" " + dimStyle.Render(r.elapsed.Round(time.Millisecond).String()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// next waits for one pipeline event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	i, ok := m.byPath[ev.Root]
	if !ok {
		return nil
	}
	r := &m.roots[i]
	r.status = ev.Status
	if ev.Stage != "" {
		r.stage = ev.Stage
	}
	if r.finished() {
		r.elapsed, r.err = ev.Elapsed, ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.roots) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range m.roots {
		total += r.fraction()
	}
	return total / float64(len(m.roots))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
