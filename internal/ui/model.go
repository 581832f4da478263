// Package ui renders live per-file progress of a formatting run.
package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"derivefmt/internal/driver"
)

// rows of the file list; the rest is folded into a "+N more" line
const maxRows = 12

// weight of a stage in the overall bar while a file is inside it
var stageWeight = map[driver.Stage]float64{
	driver.StageRead:    0.1,
	driver.StageReorder: 0.4,
	driver.StageVerify:  0.7,
	driver.StageWrite:   0.9,
}

type fileState struct {
	path   string
	stage  driver.Stage
	status driver.Status
}

func (f fileState) finished() bool {
	return f.status == driver.StatusDone || f.status == driver.StatusError
}

type progressModel struct {
	title string
	// run-wide stage, e.g. rustfmt after all files are sorted
	phase  driver.Stage
	events <-chan driver.Event

	files  []fileState
	byPath map[string]int
	// indexes of files in the order they last changed, newest last
	recent []int
	failed int

	spinner spinner.Model
	bar     progress.Model
	width   int
	done    bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel follows events until the channel is closed, then quits.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		files:   make([]fileState, len(files)),
		byPath:  make(map[string]int, len(files)),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6")))),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		width:   80,
	}
	for i, path := range files {
		m.files[i] = fileState{path: path, status: driver.StatusQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next blocks on the event channel.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev and animates the bar towards the new total.
// Events without a file move the run-wide phase.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == driver.StatusWorking {
			m.phase = ev.Stage
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	f := &m.files[i]
	if f.status != driver.StatusError && ev.Status == driver.StatusError {
		m.failed++
	}
	f.stage, f.status = ev.Stage, ev.Status
	m.touch(i)
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) touch(i int) {
	for j, k := range m.recent {
		if k == i {
			m.recent = append(m.recent[:j], m.recent[j+1:]...)
			break
		}
	}
	m.recent = append(m.recent, i)
}

func (m *progressModel) percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	var sum float64
	for _, f := range m.files {
		if f.finished() {
			sum++
			continue
		}
		if f.status == driver.StatusWorking {
			sum += stageWeight[f.stage]
		}
	}
	return sum / float64(len(m.files))
}

func (m *progressModel) finishedCount() int {
	n := 0
	for _, f := range m.files {
		if f.finished() {
			n++
		}
	}
	return n
}
