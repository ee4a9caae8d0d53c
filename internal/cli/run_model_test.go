package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenalexa/autoeval/internal/domain"
	"github.com/zenalexa/autoeval/internal/runner"
)

func TestChannelSink_ForwardsEvents(t *testing.T) {
	events := make(chan tea.Msg, 4)
	sink := &channelSink{events: events}

	sink.Progress(runner.ProgressEvent{Current: 1, Total: 2})
	sink.Log(runner.LogEvent{Kind: domain.LogInfo, Message: "hello"})
	sink.Completed(runner.Summary{State: domain.RunCompleted})
	sink.Fault("boom")

	assert.IsType(t, progressMsg{}, <-events)
	assert.IsType(t, logMsg{}, <-events)
	assert.IsType(t, completedMsg{}, <-events)
	assert.Equal(t, faultMsg("boom"), <-events)
}

func TestRunModel_ProgressAndLogs(t *testing.T) {
	events := make(chan tea.Msg, 1)
	m := newRunModel(events, "张三")

	updated, cmd := m.Update(progressMsg{
		Current: 1, Total: 3, Course: "数据结构", Teacher: "张三",
		Overridden: true, Status: domain.ItemSucceeded,
	})
	m = updated.(runModel)
	require.NotNil(t, cmd, "the model must keep draining the event channel")
	assert.Equal(t, 1, m.current)
	assert.Equal(t, 3, m.total)

	updated, cmd = m.Update(logMsg{Kind: domain.LogSuccess, Message: "submitted 数据结构"})
	m = updated.(runModel)
	require.NotNil(t, cmd)
	require.Len(t, m.logs, 1)

	view := m.View()
	assert.Contains(t, view, "数据结构")
	assert.Contains(t, view, "张三")
	assert.Contains(t, view, "1/3")
}

func TestRunModel_LogTailBounded(t *testing.T) {
	m := newRunModel(make(chan tea.Msg, 1), "")
	for i := 0; i < logTail+5; i++ {
		updated, _ := m.Update(logMsg{Kind: domain.LogInfo, Message: "line"})
		m = updated.(runModel)
	}
	assert.Len(t, m.logs, logTail)
}

func TestRunModel_CompletionQuits(t *testing.T) {
	m := newRunModel(make(chan tea.Msg, 1), "")

	updated, cmd := m.Update(completedMsg{State: domain.RunCompleted, Total: 2, Succeeded: 2})
	m = updated.(runModel)
	assert.True(t, m.done)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	assert.Contains(t, m.View(), "2 submitted")
}

func TestRunModel_FaultQuits(t *testing.T) {
	m := newRunModel(make(chan tea.Msg, 1), "")

	updated, cmd := m.Update(faultMsg("session expired, please log in again"))
	m = updated.(runModel)
	assert.True(t, m.done)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	assert.Contains(t, m.View(), "session expired")
}

func TestRunModel_KeysIgnoredMidRun(t *testing.T) {
	m := newRunModel(make(chan tea.Msg, 1), "")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(runModel)
	assert.Nil(t, cmd, "no cancellation while the run is active")

	updated, _ = m.Update(completedMsg{State: domain.RunCompleted})
	m = updated.(runModel)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
