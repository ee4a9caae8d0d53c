package domain

// Policy selects how answers are generated for a questionnaire.
type Policy string

const (
	PolicyMaxScore   Policy = "good"
	PolicyRandomTopN Policy = "random"
	PolicyMinPassing Policy = "worst_passing"
)

// ValidPolicies is the canonical set of accepted policy strings.
var ValidPolicies = map[string]bool{
	string(PolicyMaxScore):   true,
	string(PolicyRandomTopN): true,
	string(PolicyMinPassing): true,
}

type RunState string

const (
	RunIdle          RunState = "idle"
	RunAuthenticated RunState = "authenticated"
	RunDiscovering   RunState = "discovering"
	RunEvaluating    RunState = "evaluating"
	RunCompleted     RunState = "completed"
	RunAborted       RunState = "aborted"
)

// ItemStatus is the per-item outcome of one submission attempt.
type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

// LogKind classifies log notifications sent to the event sink.
type LogKind string

const (
	LogSuccess LogKind = "success"
	LogError   LogKind = "error"
	LogInfo    LogKind = "info"
	LogWarning LogKind = "warning"
)
