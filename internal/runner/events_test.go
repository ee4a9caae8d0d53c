package runner

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zenalexa/autoeval/internal/domain"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	sink.Log(LogEvent{Kind: domain.LogInfo, Message: "task: 春季评教"})
	sink.Progress(ProgressEvent{
		Current: 1, Total: 2, Course: "数据结构", Teacher: "张三",
		Overridden: true, Status: domain.ItemSucceeded,
	})
	sink.Progress(ProgressEvent{
		Current: 2, Total: 2, Course: "操作系统", Teacher: "李四",
		Status: domain.ItemSkipped,
	})
	sink.Completed(Summary{State: domain.RunCompleted, Total: 2, Succeeded: 1, Skipped: 1})

	out := buf.String()
	assert.Contains(t, out, "task: 春季评教")
	assert.Contains(t, out, "[1/2] 数据结构 — 张三: succeeded [override]")
	assert.Contains(t, out, "[2/2] 操作系统 — 李四: skipped")
	assert.Contains(t, out, "done: 1 submitted, 1 skipped, 0 failed")
}

func TestWriterSink_Fault(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)
	sink.Fault("no active evaluation task")
	assert.Equal(t, "error: no active evaluation task\n", buf.String())
}
