// Package ui renders driver progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"liveweave/internal/driver"
)

// row is one source file of the workspace.
type row struct {
	path   string
	module string // filled from the first event naming it
	label  string
	stage  driver.Stage
	failed bool
	final  bool
}

// weight is the share of a row's work finished once a stage is reached.
var weight = [...]float64{
	driver.StageLoad:     0.1,
	driver.StageParse:    0.4,
	driver.StageRegister: 0.6,
	driver.StageExpand:   0.8,
}

var working = [...]string{
	driver.StageLoad:     "loading",
	driver.StageParse:    "parsing",
	driver.StageRegister: "registering",
	driver.StageExpand:   "expanding",
}

var finished = [...]string{
	driver.StageLoad:     "loaded",
	driver.StageParse:    "parsed",
	driver.StageRegister: "registered",
	driver.StageExpand:   "done",
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = map[string]lipgloss.Style{
		"done":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"error":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"queued": lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
	busyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

type progressModel struct {
	title  string
	events <-chan driver.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []row
	byPath map[string]int
	pass   string // label of the last pipeline-wide event
	width  int
	closed bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders workspace
// progress. files are the paths events will refer to; the model quits when
// events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	return newProgressModel(title, files, events)
}

func newProgressModel(title string, files []string, events <-chan driver.Event) *progressModel {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:   make([]row, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		m.rows[i] = row{path: f, label: "queued"}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next)
}

// next blocks for the following driver event.
func (m *progressModel) next() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return closedMsg{}
	}
	return eventMsg(ev)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next)
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.closed {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent updates the row named by ev and returns the bar animation.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := labelFor(ev)
	if ev.File == "" {
		if label != "" {
			m.pass = label
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok || label == "" {
		return nil
	}
	r := &m.rows[i]
	if ev.Module != "" {
		r.module = ev.Module
	}
	r.label = label
	r.stage = ev.Stage
	r.failed = ev.Status == driver.StatusError
	r.final = r.failed || (ev.Stage == driver.StageExpand && ev.Status == driver.StatusDone)
	return m.bar.SetPercent(m.percent())
}

func labelFor(ev driver.Event) string {
	if int(ev.Stage) >= len(working) {
		return ""
	}
	switch ev.Status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusWorking:
		return working[ev.Stage]
	case driver.StatusDone:
		return finished[ev.Stage]
	case driver.StatusError:
		return "error"
	}
	return ""
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		switch {
		case r.final:
			sum++
		case r.label != "queued":
			sum += weight[r.stage]
		}
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.pass != "" {
		header = fmt.Sprintf("%s (%s)", header, m.pass)
	}
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spin.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header) + "\n\n")
	nameWidth := max(m.width-16, 20)
	var done, failed int
	for _, r := range m.rows {
		st, ok := labelStyle[r.label]
		if !ok {
			st = busyStyle
		}
		name := r.path
		if r.module != "" {
			name = r.module + " " + dimStyle.Render(truncate(r.path, max(nameWidth-runewidth.StringWidth(r.module)-1, 8)))
		} else {
			name = truncate(name, nameWidth)
		}
		fmt.Fprintf(&b, "  %s %s\n", st.Render(fmt.Sprintf("%12s", r.label)), name)
		if r.final {
			done++
		}
		if r.failed {
			failed++
		}
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d/%d modules, %d failed", done, len(m.rows), failed)))
	return b.String()
}

// truncate cuts value to width terminal cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
