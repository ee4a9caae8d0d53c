package repository

import (
	"context"

	"github.com/zenalexa/autoeval/internal/domain"
)

// RunRepo persists run summaries and per-item outcomes. It is an audit
// log: the engine writes it during a run and the history command reads
// it afterwards; nothing in the engine's decisions depends on it.
type RunRepo interface {
	CreateRun(ctx context.Context, run *domain.RunRecord) error
	FinishRun(ctx context.Context, run *domain.RunRecord) error
	AddOutcome(ctx context.Context, outcome *domain.ItemOutcome) error
	ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error)
	ListOutcomes(ctx context.Context, runID string) ([]*domain.ItemOutcome, error)
}
