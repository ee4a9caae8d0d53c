package portal

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single portal request.
type CallEvent struct {
	Endpoint  string
	Method    string
	Status    int
	LatencyMs int64
	Err       error
}

// Observer receives events about portal calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes portal call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if event.Err != nil {
		status = "err:" + event.Err.Error()
	}
	fmt.Fprintf(o.w, "[%s] portal_call endpoint=%s method=%s http_status=%d latency_ms=%d status=%s\n",
		ts, event.Endpoint, event.Method, event.Status, event.LatencyMs, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
