package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm/llmtest"
)

const goodReport = `{"scores": {"technical_accuracy": 80, "communication_clarity": 90, "star_format_adherence": 70, "cultural_fit": 100}, "feedback_points": {"strengths": ["clear"], "improvements": ["metrics"]}}`

var job = db.JobPosting{ID: 3, Title: "SRE", Company: "Acme"}

func newSession(client *llmtest.Client) *Session {
	return NewSession(job, assistant.New(client))
}

func questions(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Question %d?", i+1)
	}
	return out
}

func TestSession_FullInterview(t *testing.T) {
	client := llmtest.New(questions(MaxQuestions)...)
	s := newSession(client)
	ctx := context.Background()

	v, err := s.Start(ctx, &db.Profile{ResumeText: "resume"})
	require.NoError(t, err)
	assert.Equal(t, StateInProgress, v.State)
	assert.Equal(t, 1, v.Turn)
	assert.Equal(t, "Question 1?", v.Question)

	for i := 1; i < MaxQuestions; i++ {
		v, err = s.SubmitAnswer(ctx, fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
		assert.Equal(t, StateInProgress, v.State)
		assert.Equal(t, i+1, v.Turn)
		assert.Equal(t, fmt.Sprintf("Question %d?", i+1), v.Question)
	}
	callsBefore := client.CallCount()
	assert.Equal(t, MaxQuestions, callsBefore)

	v, err = s.SubmitAnswer(ctx, "final answer")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, v.State)
	assert.True(t, v.Completed)
	assert.Empty(t, v.Question)
	assert.Len(t, v.History, 2*MaxQuestions)
	assert.Equal(t, callsBefore, client.CallCount(), "no question requested after the last answer")

	_, err = s.SubmitAnswer(ctx, "one more")
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, StateCompleted, stateErr.State)

	client.Push(goodReport, nil)
	report, err := s.Report(ctx)
	require.NoError(t, err)
	for _, score := range []int{
		report.Scores.TechnicalAccuracy,
		report.Scores.CommunicationClarity,
		report.Scores.StarFormatAdherence,
		report.Scores.CulturalFit,
	} {
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
	assert.Equal(t, 85.0, report.Average)
	assert.True(t, report.Positive)

	// cached
	again, err := s.Report(ctx)
	require.NoError(t, err)
	assert.Same(t, report, again)
	assert.Equal(t, MaxQuestions+1, client.CallCount())
}

func TestSession_StartFailureStaysNotStarted(t *testing.T) {
	s := newSession(llmtest.New().Push("", errors.New("provider down")))

	v, err := s.Start(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, StateNotStarted, v.State)
	assert.Empty(t, v.History)

	_, err = s.SubmitAnswer(context.Background(), "hello")
	var stateErr *StateError
	assert.ErrorAs(t, err, &stateErr)
}

func TestSession_AnswerFailureRollsBack(t *testing.T) {
	client := llmtest.New("Q1?").Push("", errors.New("provider down")).Push("Q2?", nil)
	s := newSession(client)
	ctx := context.Background()

	_, err := s.Start(ctx, nil)
	require.NoError(t, err)

	v, err := s.SubmitAnswer(ctx, "my answer")
	var upErr *assistant.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Len(t, v.History, 1)
	assert.Equal(t, 1, v.Turn)
	assert.Equal(t, "Q1?", v.Question)

	v, err = s.SubmitAnswer(ctx, "my answer")
	require.NoError(t, err)
	assert.Len(t, v.History, 3)
	assert.Equal(t, 2, v.Turn)
}

func TestSession_EmptyAnswer(t *testing.T) {
	client := llmtest.New("Q1?")
	s := newSession(client)
	_, err := s.Start(context.Background(), nil)
	require.NoError(t, err)

	_, err = s.SubmitAnswer(context.Background(), "   ")
	var vErr *assistant.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 1, client.CallCount())
}

func TestSession_Finish(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		_, err := newSession(llmtest.New()).Finish()
		var stateErr *StateError
		assert.ErrorAs(t, err, &stateErr)
	})

	t.Run("needs an answer", func(t *testing.T) {
		s := newSession(llmtest.New("Q1?"))
		_, err := s.Start(context.Background(), nil)
		require.NoError(t, err)

		_, err = s.Finish()
		var stateErr *StateError
		assert.ErrorAs(t, err, &stateErr)
		assert.Equal(t, StateInProgress, s.State())
	})

	t.Run("early finish", func(t *testing.T) {
		s := newSession(llmtest.New("Q1?", "Q2?"))
		ctx := context.Background()
		_, err := s.Start(ctx, nil)
		require.NoError(t, err)
		_, err = s.SubmitAnswer(ctx, "answer")
		require.NoError(t, err)

		v, err := s.Finish()
		require.NoError(t, err)
		assert.Equal(t, StateCompleted, v.State)

		v, err = s.Finish()
		require.NoError(t, err)
		assert.True(t, v.Completed)
	})
}

func TestSession_ReportRequiresCompletion(t *testing.T) {
	s := newSession(llmtest.New("Q1?"))
	_, err := s.Report(context.Background())
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)

	_, err = s.Start(context.Background(), nil)
	require.NoError(t, err)
	_, err = s.Report(context.Background())
	assert.ErrorAs(t, err, &stateErr)
}

func TestSession_ReportParseFailure(t *testing.T) {
	client := llmtest.New("Q1?", "Q2?", "You did fine.")
	s := newSession(client)
	ctx := context.Background()
	_, _ = s.Start(ctx, nil)
	_, _ = s.SubmitAnswer(ctx, "answer")
	_, err := s.Finish()
	require.NoError(t, err)

	report, err := s.Report(ctx)
	require.NoError(t, err)
	assert.True(t, report.ParseFailed)
	assert.Equal(t, 50.0, report.Average)
	assert.False(t, report.Positive)
}

func TestSession_RestartResets(t *testing.T) {
	client := llmtest.New("Q1?", "Q2?", "Fresh Q1?")
	s := newSession(client)
	ctx := context.Background()
	_, _ = s.Start(ctx, nil)
	_, _ = s.SubmitAnswer(ctx, "answer")

	v, err := s.Start(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Turn)
	assert.Len(t, v.History, 1)
	assert.Equal(t, "Fresh Q1?", v.Question)
}

func TestSession_ConcurrentAnswers(t *testing.T) {
	client := &llmtest.Client{Default: "Next?"}
	s := newSession(client)
	ctx := context.Background()
	_, err := s.Start(ctx, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.SubmitAnswer(ctx, "answer")
		}()
	}
	wg.Wait()

	v := s.View()
	assert.Equal(t, StateCompleted, v.State)
	assert.Len(t, v.History, 2*MaxQuestions)
}
