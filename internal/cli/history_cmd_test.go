package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenalexa/autoeval/internal/domain"
)

type fakeRunRepo struct {
	runs     []*domain.RunRecord
	outcomes map[string][]*domain.ItemOutcome
}

func (f *fakeRunRepo) CreateRun(context.Context, *domain.RunRecord) error    { return nil }
func (f *fakeRunRepo) FinishRun(context.Context, *domain.RunRecord) error    { return nil }
func (f *fakeRunRepo) AddOutcome(context.Context, *domain.ItemOutcome) error { return nil }

func (f *fakeRunRepo) ListRuns(_ context.Context, limit int) ([]*domain.RunRecord, error) {
	if limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeRunRepo) ListOutcomes(_ context.Context, runID string) ([]*domain.ItemOutcome, error) {
	return f.outcomes[runID], nil
}

func TestHistoryCmd_ListsRuns(t *testing.T) {
	finished := time.Date(2026, 6, 10, 9, 3, 0, 0, time.UTC)
	repo := &fakeRunRepo{
		runs: []*domain.RunRecord{{
			ID:         "run-1",
			TaskName:   "春季评教",
			Policy:     domain.PolicyRandomTopN,
			StartedAt:  finished.Add(-3 * time.Minute),
			FinishedAt: &finished,
			State:      domain.RunCompleted,
			Total:      3, Succeeded: 2, Skipped: 1,
		}},
	}

	var out bytes.Buffer
	app := &App{History: repo, Out: &out}
	root := NewRootCmd(app)
	root.SetArgs([]string{"history"})
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "春季评教")
	assert.Contains(t, out.String(), "run-1")
	assert.Contains(t, out.String(), "2 ok / 1 skipped / 0 failed")
}

func TestHistoryCmd_ListsOutcomes(t *testing.T) {
	repo := &fakeRunRepo{
		outcomes: map[string][]*domain.ItemOutcome{
			"run-1": {
				{Seq: 1, Course: "数据结构", Teacher: "张三", Status: domain.ItemSucceeded, Overridden: true},
				{Seq: 2, Course: "操作系统", Teacher: "李四", Status: domain.ItemFailed, Detail: "submit failed"},
			},
		},
	}

	var out bytes.Buffer
	app := &App{History: repo, Out: &out}
	root := NewRootCmd(app)
	root.SetArgs([]string{"history", "--run", "run-1"})
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "数据结构")
	assert.Contains(t, out.String(), "[min passing]")
	assert.Contains(t, out.String(), "submit failed")
}

func TestHistoryCmd_EmptyHistory(t *testing.T) {
	var out bytes.Buffer
	app := &App{History: &fakeRunRepo{}, Out: &out}
	root := NewRootCmd(app)
	root.SetArgs([]string{"history"})
	root.SetOut(&out)
	root.SetErr(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "No runs recorded yet.")
}
