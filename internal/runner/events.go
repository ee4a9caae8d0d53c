package runner

import (
	"fmt"
	"io"
	"sync"

	"github.com/zenalexa/autoeval/internal/domain"
)

// ProgressEvent is emitted once per review item, in strict item order.
type ProgressEvent struct {
	Current    int
	Total      int
	Course     string
	Teacher    string
	Overridden bool
	Status     domain.ItemStatus
}

// LogEvent is one line of run output for the presentation layer.
type LogEvent struct {
	Kind    domain.LogKind
	Message string
}

// Summary describes a finished run.
type Summary struct {
	State     domain.RunState
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// Sink is the presentation boundary. The engine pushes notifications
// through it and never reads anything back; implementations must not
// block for long since they run on the engine worker.
type Sink interface {
	Progress(event ProgressEvent)
	Log(event LogEvent)
	Completed(summary Summary)
	Fault(message string)
}

// NoopSink discards all notifications.
type NoopSink struct{}

func (NoopSink) Progress(ProgressEvent) {}
func (NoopSink) Log(LogEvent)           {}
func (NoopSink) Completed(Summary)      {}
func (NoopSink) Fault(string)           {}

// WriterSink renders notifications as plain lines, for non-interactive
// runs and logs.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a Sink writing plain text to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Progress(event ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mark := ""
	if event.Overridden {
		mark = " [override]"
	}
	fmt.Fprintf(s.w, "[%d/%d] %s — %s: %s%s\n",
		event.Current, event.Total, event.Course, event.Teacher, event.Status, mark)
}

func (s *WriterSink) Log(event LogEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s: %s\n", event.Kind, event.Message)
}

func (s *WriterSink) Completed(summary Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "done: %d submitted, %d skipped, %d failed\n",
		summary.Succeeded, summary.Skipped, summary.Failed)
}

func (s *WriterSink) Fault(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "error: %s\n", message)
}
