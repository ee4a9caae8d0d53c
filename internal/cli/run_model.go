package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zenalexa/autoeval/internal/cli/formatter"
	"github.com/zenalexa/autoeval/internal/runner"
)

// logTail is how many recent log lines the run view keeps on screen.
const logTail = 12

type progressMsg runner.ProgressEvent
type logMsg runner.LogEvent
type completedMsg runner.Summary
type faultMsg string

// channelSink forwards engine notifications onto the model's event
// channel as bubbletea messages.
type channelSink struct {
	events chan tea.Msg
}

func (s *channelSink) Progress(event runner.ProgressEvent) { s.events <- progressMsg(event) }
func (s *channelSink) Log(event runner.LogEvent)           { s.events <- logMsg(event) }
func (s *channelSink) Completed(summary runner.Summary)    { s.events <- completedMsg(summary) }
func (s *channelSink) Fault(message string)                { s.events <- faultMsg(message) }

// runModel renders one evaluation run: a spinner while discovering,
// then a progress bar plus a log tail until completion.
type runModel struct {
	spin      spinner.Model
	events    chan tea.Msg
	overrides string

	current int
	total   int
	lastItem string

	logs []string

	done    bool
	fault   string
	summary runner.Summary
}

func newRunModel(events chan tea.Msg, overrides string) runModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	return runModel{spin: s, events: events, overrides: overrides}
}

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.events))
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// No cancellation mid-run: keys only dismiss the finished view.
		if m.done {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case progressMsg:
		m.current = msg.Current
		m.total = msg.Total
		mark := ""
		if msg.Overridden {
			mark = formatter.Dim(" [min passing]")
		}
		m.lastItem = fmt.Sprintf("%s %s — %s%s",
			formatter.StatusIndicator(msg.Status), msg.Course, msg.Teacher, mark)
		return m, waitForEvent(m.events)

	case logMsg:
		line := formatter.LogStyle(msg.Kind).Render(msg.Message)
		m.logs = append(m.logs, line)
		if len(m.logs) > logTail {
			m.logs = m.logs[len(m.logs)-logTail:]
		}
		return m, waitForEvent(m.events)

	case completedMsg:
		m.done = true
		m.summary = runner.Summary(msg)
		return m, tea.Quit

	case faultMsg:
		m.done = true
		m.fault = string(msg)
		return m, tea.Quit
	}
	return m, nil
}

func (m runModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.Header("Course evaluation"))
	b.WriteString("\n")
	if m.overrides != "" {
		b.WriteString(formatter.Dim("override teachers: "+m.overrides) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.fault != "":
		b.WriteString(formatter.StyleRed.Render("✗ "+m.fault) + "\n")
	case m.done:
		b.WriteString(formatter.RenderProgress(1, 30) + "\n\n")
		b.WriteString(formatter.StyleGreen.Render(fmt.Sprintf(
			"Done: %d submitted, %d skipped, %d failed.",
			m.summary.Succeeded, m.summary.Skipped, m.summary.Failed)) + "\n")
	case m.total == 0:
		b.WriteString(m.spin.View() + formatter.Dim(" discovering pending evaluations…") + "\n")
	default:
		pct := float64(m.current) / float64(m.total)
		b.WriteString(fmt.Sprintf("%s  %s\n", formatter.RenderProgress(pct, 30),
			formatter.Dim(fmt.Sprintf("%d/%d", m.current, m.total))))
		b.WriteString(m.lastItem + "\n")
	}

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(m.logs, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}
