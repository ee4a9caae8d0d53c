package domain

import "time"

// Task is one evaluation campaign. Immutable once fetched within a run.
type Task struct {
	ID     string
	Name   string
	Begins string
	Ends   string
}

// Option is a single selectable answer with its score value.
// Higher score = more favorable.
type Option struct {
	ID         string
	Label      string
	Score      float64
	Selectable bool
}

// Question holds the options of one questionnaire entry, ordered as the
// server returned them after the score sort (highest first).
type Question struct {
	ID       string
	Type     string
	IsChoice bool
	Options  []Option
}

// SelectableOptions returns the options that may be chosen, preserving order.
func (q Question) SelectableOptions() []Option {
	out := make([]Option, 0, len(q.Options))
	for _, o := range q.Options {
		if o.Selectable {
			out = append(out, o)
		}
	}
	return out
}

// Questionnaire is the ordered question set for one (task, course, teacher).
type Questionnaire struct {
	ID        string
	Name      string
	Questions []Question
}

// ChoiceQuestions returns the scored single-choice questions in order.
func (q Questionnaire) ChoiceQuestions() []Question {
	out := make([]Question, 0, len(q.Questions))
	for _, qu := range q.Questions {
		if qu.IsChoice {
			out = append(out, qu)
		}
	}
	return out
}

// ReviewItem is the unit of work: one pending or completed (course,
// teacher) evaluation. Already-evaluated items are kept so the pipeline
// can count and report them; they are never submitted.
type ReviewItem struct {
	Course           string
	Teacher          string
	QuestionnaireID  string
	AlreadyEvaluated bool

	// Routing fields echoed back to the service on topic fetch and submit.
	Routing map[string]string
}

// OverrideSet holds teacher names that are always scored with the
// minimum passing policy. Immutable for the duration of a run.
type OverrideSet map[string]struct{}

// NewOverrideSet builds an OverrideSet from teacher names, ignoring blanks.
func NewOverrideSet(names []string) OverrideSet {
	set := make(OverrideSet, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether teacher is an override target (exact match).
func (s OverrideSet) Contains(teacher string) bool {
	_, ok := s[teacher]
	return ok
}

// Names returns the override teachers in unspecified order.
func (s OverrideSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}

// RunRecord is the persisted summary of one evaluation run.
type RunRecord struct {
	ID         string
	TaskID     string
	TaskName   string
	Policy     Policy
	StartedAt  time.Time
	FinishedAt *time.Time
	State      RunState
	Total      int
	Succeeded  int
	Skipped    int
	Failed     int
}

// ItemOutcome is the persisted outcome of one review item within a run.
type ItemOutcome struct {
	ID         string
	RunID      string
	Seq        int
	Course     string
	Teacher    string
	Status     ItemStatus
	Overridden bool
	Detail     string
	CreatedAt  time.Time
}
