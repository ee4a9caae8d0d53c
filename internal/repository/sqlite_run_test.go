package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenalexa/autoeval/internal/domain"
	"github.com/zenalexa/autoeval/internal/testutil"
)

func TestSQLiteRunRepo_RunRoundTrip(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	started := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	run := &domain.RunRecord{
		ID:        "run-1",
		Policy:    domain.PolicyRandomTopN,
		StartedAt: started,
		State:     domain.RunDiscovering,
	}
	require.NoError(t, repo.CreateRun(ctx, run))

	finished := started.Add(3 * time.Minute)
	run.TaskID = "rw-1"
	run.TaskName = "春季评教"
	run.State = domain.RunCompleted
	run.FinishedAt = &finished
	run.Total = 5
	run.Succeeded = 3
	run.Skipped = 1
	run.Failed = 1
	require.NoError(t, repo.FinishRun(ctx, run))

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "rw-1", got.TaskID)
	assert.Equal(t, "春季评教", got.TaskName)
	assert.Equal(t, domain.PolicyRandomTopN, got.Policy)
	assert.Equal(t, domain.RunCompleted, got.State)
	assert.True(t, got.StartedAt.Equal(started))
	require.NotNil(t, got.FinishedAt)
	assert.True(t, got.FinishedAt.Equal(finished))
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 3, got.Succeeded)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, 1, got.Failed)
}

func TestSQLiteRunRepo_ListRuns_NewestFirst(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-old", "run-mid", "run-new"} {
		run := &domain.RunRecord{
			ID:        id,
			Policy:    domain.PolicyMaxScore,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			State:     domain.RunCompleted,
		}
		require.NoError(t, repo.CreateRun(ctx, run))
	}

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-mid", runs[1].ID)
}

func TestSQLiteRunRepo_OutcomeRoundTrip(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	run := &domain.RunRecord{
		ID:        "run-1",
		Policy:    domain.PolicyMaxScore,
		StartedAt: time.Now().UTC(),
		State:     domain.RunEvaluating,
	}
	require.NoError(t, repo.CreateRun(ctx, run))

	created := time.Date(2026, 6, 10, 9, 1, 0, 0, time.UTC)
	outcomes := []*domain.ItemOutcome{
		{RunID: "run-1", Seq: 1, Course: "数据结构", Teacher: "张三", Status: domain.ItemSkipped, CreatedAt: created},
		{RunID: "run-1", Seq: 2, Course: "操作系统", Teacher: "李四", Status: domain.ItemSucceeded, Overridden: true, CreatedAt: created},
		{RunID: "run-1", Seq: 3, Course: "编译原理", Teacher: "王五", Status: domain.ItemFailed, Detail: "submit failed", CreatedAt: created},
	}
	for _, o := range outcomes {
		require.NoError(t, repo.AddOutcome(ctx, o))
		assert.NotEmpty(t, o.ID, "an id is assigned when missing")
	}

	got, err := repo.ListOutcomes(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, 1, got[0].Seq)
	assert.Equal(t, domain.ItemSkipped, got[0].Status)
	assert.True(t, got[1].Overridden)
	assert.Equal(t, "submit failed", got[2].Detail)
	assert.Equal(t, "王五", got[2].Teacher)
}

func TestSQLiteRunRepo_ListOutcomes_ScopedToRun(t *testing.T) {
	repo := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	for _, id := range []string{"run-a", "run-b"} {
		require.NoError(t, repo.CreateRun(ctx, &domain.RunRecord{
			ID: id, Policy: domain.PolicyMaxScore, StartedAt: now, State: domain.RunCompleted,
		}))
	}
	require.NoError(t, repo.AddOutcome(ctx, &domain.ItemOutcome{
		RunID: "run-a", Seq: 1, Course: "c", Teacher: "t", Status: domain.ItemSucceeded, CreatedAt: now,
	}))

	got, err := repo.ListOutcomes(ctx, "run-b")
	require.NoError(t, err)
	assert.Empty(t, got)
}
