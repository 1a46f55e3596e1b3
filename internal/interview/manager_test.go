package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm/llmtest"
)

func TestManager_Lifecycle(t *testing.T) {
	client := &llmtest.Client{Default: "Next?"}
	m := NewManager(assistant.New(client))
	ctx := context.Background()

	_, err := m.Answer(ctx, job.ID, "hello")
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	first, err := m.Start(ctx, job, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	v, err := m.Answer(ctx, job.ID, "answer")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Turn)

	second, err := m.Start(ctx, job, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, second.Turn)
	assert.Equal(t, 1, m.Len())

	_, err = m.Finish(job.ID)
	assert.Error(t, err)

	assert.True(t, m.Abandon(job.ID))
	assert.False(t, m.Abandon(job.ID))
	_, err = m.Get(job.ID)
	assert.ErrorAs(t, err, &stateErr)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	client := &llmtest.Client{Default: "Q?"}
	m := NewManager(assistant.New(client))
	ctx := context.Background()

	_, err := m.Start(ctx, job, nil)
	require.NoError(t, err)
	_, err = m.Start(ctx, db.JobPosting{ID: 99, Title: "Other"}, nil)
	require.NoError(t, err)

	_, err = m.Answer(ctx, job.ID, "answer")
	require.NoError(t, err)

	other, err := m.Get(99)
	require.NoError(t, err)
	assert.Equal(t, 1, other.View().Turn)
}

func TestManager_FailedStartKeepsPrevious(t *testing.T) {
	client := llmtest.New("Q1?").Push("", errors.New("down"))
	m := NewManager(assistant.New(client))
	ctx := context.Background()

	first, err := m.Start(ctx, job, nil)
	require.NoError(t, err)

	_, err = m.Start(ctx, job, nil)
	require.Error(t, err)

	s, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, s.ID())
}

func TestManager_Report(t *testing.T) {
	client := llmtest.New("Q1?", "Q2?", goodReport)
	m := NewManager(assistant.New(client))
	ctx := context.Background()

	_, err := m.Start(ctx, job, nil)
	require.NoError(t, err)
	_, err = m.Report(ctx, job.ID)
	assert.Error(t, err)

	_, err = m.Answer(ctx, job.ID, "answer")
	require.NoError(t, err)
	_, err = m.Finish(job.ID)
	require.NoError(t, err)

	report, err := m.Report(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, report.Positive)
}
