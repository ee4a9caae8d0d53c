// Package runner drives a full evaluation run: discovery, answer
// selection, and the retrying submission loop, reporting every step to
// a Sink. One run at a time; all work happens on a single background
// worker so event order matches item order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/zenalexa/autoeval/internal/domain"
	"github.com/zenalexa/autoeval/internal/portal"
	"github.com/zenalexa/autoeval/internal/strategy"
)

// ErrRunActive is returned by Start while a run is already evaluating.
var ErrRunActive = errors.New("a run is already in progress")

// Portal is the slice of the portal client the pipeline needs. The
// concrete *portal.Client satisfies it; tests substitute fakes.
type Portal interface {
	Login(ctx context.Context, username, password string) error
	ListTasks(ctx context.Context) ([]domain.Task, error)
	Questionnaires(ctx context.Context, taskID string) ([]portal.QuestionnaireRef, error)
	ConfirmPattern(ctx context.Context, ref portal.QuestionnaireRef) error
	ReviewItems(ctx context.Context, ref portal.QuestionnaireRef) ([]domain.ReviewItem, error)
	Topic(ctx context.Context, item domain.ReviewItem) (*portal.TopicForm, error)
	Submit(ctx context.Context, form *portal.TopicForm, picks map[string]string) error
}

// History records run outcomes for the local audit store. It is
// write-only from the pipeline's perspective: nothing here feeds back
// into skip or answer decisions.
type History interface {
	CreateRun(ctx context.Context, run *domain.RunRecord) error
	FinishRun(ctx context.Context, run *domain.RunRecord) error
	AddOutcome(ctx context.Context, outcome *domain.ItemOutcome) error
}

// NoopHistory discards all records.
type NoopHistory struct{}

func (NoopHistory) CreateRun(context.Context, *domain.RunRecord) error    { return nil }
func (NoopHistory) FinishRun(context.Context, *domain.RunRecord) error    { return nil }
func (NoopHistory) AddOutcome(context.Context, *domain.ItemOutcome) error { return nil }

// RunRequest is the start command issued by the presentation layer.
type RunRequest struct {
	Policy    domain.Policy
	Overrides domain.OverrideSet

	// Seed fixes the random policy's source when non-zero.
	Seed int64
}

// Service is the engine surface exposed to the presentation layer.
type Service interface {
	// Login authenticates the underlying session.
	Login(ctx context.Context, username, password string) error

	// GetTaskInfo surfaces the first discovered task, or nil when the
	// service has no active task.
	GetTaskInfo(ctx context.Context) (*domain.Task, error)

	// Start launches the evaluation worker and returns immediately.
	// A second Start while a run is active returns ErrRunActive.
	Start(ctx context.Context, req RunRequest) error

	// Wait blocks until the current run reaches a terminal state.
	Wait()
}

type service struct {
	portal  Portal
	sink    Sink
	history History
	cfg     Config
	newRun  func() string

	mu     sync.Mutex
	active bool
	wg     sync.WaitGroup
}

// NewService wires the pipeline. sink and history may be nil.
func NewService(p Portal, sink Sink, history History, cfg Config, newRunID func() string) Service {
	if sink == nil {
		sink = NoopSink{}
	}
	if history == nil {
		history = NoopHistory{}
	}
	if newRunID == nil {
		newRunID = func() string { return fmt.Sprintf("run-%d", time.Now().UnixNano()) }
	}
	return &service{portal: p, sink: sink, history: history, cfg: cfg, newRun: newRunID}
}

func (s *service) Login(ctx context.Context, username, password string) error {
	return s.portal.Login(ctx, username, password)
}

func (s *service) GetTaskInfo(ctx context.Context) (*domain.Task, error) {
	tasks, err := s.portal.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

func (s *service) Start(ctx context.Context, req RunRequest) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrRunActive
	}
	s.active = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.active = false
			s.mu.Unlock()
		}()
		s.run(ctx, req)
	}()
	return nil
}

func (s *service) Wait() { s.wg.Wait() }

// run executes the whole state machine on the worker goroutine.
func (s *service) run(ctx context.Context, req RunRequest) {
	record := &domain.RunRecord{
		ID:        s.newRun(),
		Policy:    req.Policy,
		StartedAt: time.Now().UTC(),
		State:     domain.RunDiscovering,
	}

	task, items, ok := s.discover(ctx, record)
	if !ok {
		s.finish(ctx, record, domain.RunAborted)
		return
	}
	record.TaskID = task.ID
	record.TaskName = task.Name
	record.Total = len(items)

	if len(items) == 0 {
		s.sink.Log(LogEvent{Kind: domain.LogInfo, Message: "nothing to evaluate"})
		s.sink.Completed(Summary{State: domain.RunCompleted})
		s.finish(ctx, record, domain.RunCompleted)
		return
	}

	record.State = domain.RunEvaluating
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for i, item := range items {
		status, detail, aborted := s.evaluateItem(ctx, item, req, rng)
		if aborted {
			s.sink.Fault("session expired, please log in again")
			s.finish(ctx, record, domain.RunAborted)
			return
		}

		overridden := req.Overrides.Contains(item.Teacher)
		switch status {
		case domain.ItemSucceeded:
			record.Succeeded++
			s.sink.Log(LogEvent{Kind: domain.LogSuccess,
				Message: fmt.Sprintf("submitted %s — %s", item.Course, item.Teacher)})
		case domain.ItemSkipped:
			record.Skipped++
			s.sink.Log(LogEvent{Kind: domain.LogInfo,
				Message: fmt.Sprintf("already evaluated, skipping %s — %s", item.Course, item.Teacher)})
		case domain.ItemFailed:
			record.Failed++
			s.sink.Log(LogEvent{Kind: domain.LogError,
				Message: fmt.Sprintf("failed %s — %s: %s", item.Course, item.Teacher, detail)})
		}

		s.sink.Progress(ProgressEvent{
			Current:    i + 1,
			Total:      len(items),
			Course:     item.Course,
			Teacher:    item.Teacher,
			Overridden: overridden,
			Status:     status,
		})
		s.recordOutcome(ctx, record.ID, i+1, item, status, overridden, detail)

		if status != domain.ItemSkipped && i < len(items)-1 {
			s.pause(ctx, s.cfg.ItemDelay)
		}
	}

	s.sink.Completed(Summary{
		State:     domain.RunCompleted,
		Total:     record.Total,
		Succeeded: record.Succeeded,
		Skipped:   record.Skipped,
		Failed:    record.Failed,
	})
	s.finish(ctx, record, domain.RunCompleted)
}

// discover runs the task → questionnaires → review items sequence.
// Per-questionnaire failures are reported and skipped; only a total
// absence of task data aborts the run.
func (s *service) discover(ctx context.Context, record *domain.RunRecord) (domain.Task, []domain.ReviewItem, bool) {
	if err := s.history.CreateRun(ctx, record); err != nil {
		s.sink.Log(LogEvent{Kind: domain.LogWarning,
			Message: fmt.Sprintf("history unavailable: %v", err)})
	}

	tasks, err := s.portal.ListTasks(ctx)
	if err != nil {
		s.sink.Fault(faultMessage(err))
		return domain.Task{}, nil, false
	}
	if len(tasks) == 0 {
		s.sink.Fault("no active evaluation task")
		return domain.Task{}, nil, false
	}
	task := tasks[0]
	s.sink.Log(LogEvent{Kind: domain.LogInfo, Message: fmt.Sprintf("task: %s", task.Name)})

	refs, err := s.portal.Questionnaires(ctx, task.ID)
	if err != nil {
		s.sink.Fault(faultMessage(err))
		return domain.Task{}, nil, false
	}

	var items []domain.ReviewItem
	var failures int
	for qi, ref := range refs {
		if qi > 0 {
			s.pause(ctx, s.cfg.ItemDelay)
		}
		if err := s.portal.ConfirmPattern(ctx, ref); err != nil {
			if errors.Is(err, portal.ErrSessionLost) {
				s.sink.Fault("session expired, please log in again")
				return domain.Task{}, nil, false
			}
			s.sink.Log(LogEvent{Kind: domain.LogWarning,
				Message: fmt.Sprintf("questionnaire %s: %v", ref.Wjmc, err)})
		}
		s.pause(ctx, s.cfg.ItemDelay)

		batch, err := s.portal.ReviewItems(ctx, ref)
		if err != nil {
			if errors.Is(err, portal.ErrSessionLost) {
				s.sink.Fault("session expired, please log in again")
				return domain.Task{}, nil, false
			}
			failures++
			s.sink.Log(LogEvent{Kind: domain.LogError,
				Message: fmt.Sprintf("questionnaire %s: %v", ref.Wjmc, err)})
			continue
		}
		items = append(items, batch...)
	}

	if len(items) == 0 && failures == len(refs) && len(refs) > 0 {
		s.sink.Fault("discovery returned no usable data")
		return domain.Task{}, nil, false
	}
	return task, items, true
}

// evaluateItem handles one review item end to end and returns its
// outcome. aborted is true only when the session was lost, which is a
// run-level fault.
func (s *service) evaluateItem(ctx context.Context, item domain.ReviewItem, req RunRequest, rng *rand.Rand) (status domain.ItemStatus, detail string, aborted bool) {
	if item.AlreadyEvaluated {
		return domain.ItemSkipped, "", false
	}

	form, err := s.portal.Topic(ctx, item)
	if err != nil {
		if errors.Is(err, portal.ErrSessionLost) {
			return domain.ItemFailed, "", true
		}
		return domain.ItemFailed, fmt.Sprintf("loading questionnaire: %v", err), false
	}

	override := req.Overrides.Contains(item.Teacher)
	selections, err := strategy.SelectAnswers(form.Questionnaire, req.Policy, override, rng)
	if err != nil {
		// Bad questionnaire data; retrying cannot help.
		return domain.ItemFailed, err.Error(), false
	}
	picks := strategy.Picks(selections)

	var lastErr error
	for attempt := 0; attempt < s.cfg.SubmitAttempts; attempt++ {
		if attempt > 0 {
			s.pause(ctx, backoff(s.cfg.RetryBase, attempt, rng))
		}
		err := s.portal.Submit(ctx, form, picks)
		if err == nil {
			return domain.ItemSucceeded, "", false
		}
		if errors.Is(err, portal.ErrSessionLost) {
			return domain.ItemFailed, "", true
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return domain.ItemFailed, fmt.Sprintf("submit failed after %d attempts: %v", s.cfg.SubmitAttempts, lastErr), false
}

func (s *service) recordOutcome(ctx context.Context, runID string, seq int, item domain.ReviewItem, status domain.ItemStatus, overridden bool, detail string) {
	outcome := &domain.ItemOutcome{
		RunID:      runID,
		Seq:        seq,
		Course:     item.Course,
		Teacher:    item.Teacher,
		Status:     status,
		Overridden: overridden,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.history.AddOutcome(ctx, outcome); err != nil {
		s.sink.Log(LogEvent{Kind: domain.LogWarning,
			Message: fmt.Sprintf("history unavailable: %v", err)})
	}
}

func (s *service) finish(ctx context.Context, record *domain.RunRecord, state domain.RunState) {
	record.State = state
	now := time.Now().UTC()
	record.FinishedAt = &now
	if err := s.history.FinishRun(ctx, record); err != nil {
		s.sink.Log(LogEvent{Kind: domain.LogWarning,
			Message: fmt.Sprintf("history unavailable: %v", err)})
	}
}

func (s *service) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// backoff returns the exponential delay before retry number attempt
// (1-based), with ±25% jitter.
func backoff(base time.Duration, attempt int, rng *rand.Rand) time.Duration {
	d := base << (attempt - 1)
	jitter := 0.75 + rng.Float64()*0.5
	return time.Duration(float64(d) * jitter)
}

// faultMessage maps engine errors to the short operator-facing strings
// the presentation layer shows.
func faultMessage(err error) string {
	switch {
	case errors.Is(err, portal.ErrSessionLost), errors.Is(err, portal.ErrNotAuthenticated):
		return "session expired, please log in again"
	case errors.Is(err, portal.ErrProtocolMismatch):
		return "the evaluation site changed; an update is needed"
	case errors.Is(err, portal.ErrUnreachable):
		return "network problem reaching the evaluation service"
	default:
		return fmt.Sprintf("discovery failed: %v", err)
	}
}
