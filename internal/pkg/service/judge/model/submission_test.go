package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
)

func TestNewSubmission(t *testing.T) {
	t.Parallel()
	now := time.Now()

	s := model.NewSubmission(model.SubmitRequest{
		ProblemID:  123,
		SourceCode: "print(42)",
		Language:   model.LanguagePython,
	}, "alice", "Two Sum", now)

	assert.Equal(t, model.StatusJudging, s.SubmitStatus)
	assert.False(t, s.IsFinished())
	assert.False(t, s.IsSolved())
	assert.Equal(t, "Two Sum", s.ProblemTitle)
	assert.Equal(t, now, s.SubmitTime)
	assert.Nil(t, s.RuntimeMs)
	assert.Nil(t, s.MemoryKb)
}

func TestSubmission_UpdateStatus(t *testing.T) {
	t.Parallel()

	runtimeMs, memoryKb := 120, 20480
	s := model.NewSubmission(model.SubmitRequest{ProblemID: 1, SourceCode: "x", Language: model.LanguageJava}, "alice", "T", time.Now())

	// Runtime metrics are kept only for accepted solutions
	s.UpdateStatus(model.StatusWrongAnswer, &runtimeMs, &memoryKb)
	assert.True(t, s.IsFinished())
	assert.False(t, s.IsSolved())
	assert.Nil(t, s.RuntimeMs)
	assert.Nil(t, s.MemoryKb)

	s.UpdateStatus(model.StatusAccepted, &runtimeMs, &memoryKb)
	assert.True(t, s.IsSolved())
	assert.Equal(t, &runtimeMs, s.RuntimeMs)
	assert.Equal(t, &memoryKb, s.MemoryKb)
}

func TestSubmitStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, model.StatusJudging.IsTerminal())
	for _, s := range model.AllStatuses() {
		if s == model.StatusJudging {
			continue
		}
		assert.True(t, s.IsTerminal(), s.String())
	}
	assert.False(t, model.SubmitStatus("UNKNOWN").IsValid())
	assert.True(t, model.StatusAccepted.IsValid())
}

func TestStreamKey(t *testing.T) {
	t.Parallel()

	n := model.ProgressNotification{SubmissionID: 7, Username: "alice", SubmitStatus: model.StatusJudging}
	assert.Equal(t, model.StreamKey{Username: "alice", SubmissionID: 7}, n.StreamKey())
	assert.Equal(t, "alice:7", n.StreamKey().String())
	assert.False(t, n.IsTerminal())
}
