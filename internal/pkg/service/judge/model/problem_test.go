package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
)

func testCreateRequest() model.ProblemCreateRequest {
	return model.ProblemCreateRequest{
		Title:         "Two Sum",
		Description:   "Find two numbers that add up to the target.",
		TimeLimitSec:  2,
		MemoryLimitMb: 256,
	}
}

func testCaseURLs(n int) []model.TestCaseURL {
	out := make([]model.TestCaseURL, n)
	for i := range out {
		out[i] = model.TestCaseURL{InputURL: "in", OutputURL: "out"}
	}
	return out
}

func TestNewProblem(t *testing.T) {
	t.Parallel()
	now := time.Now()

	p, err := model.NewProblem(testCreateRequest(), "alice", now)
	require.NoError(t, err)
	assert.Equal(t, model.ProblemStatusDraft, p.Status)
	assert.True(t, p.IsDraft())
	assert.Equal(t, int64(0), p.Number)
	assert.Equal(t, 0, p.SubmitCount)
	assert.Equal(t, "alice", p.AuthorUsername)
	assert.Equal(t, now, p.LastModified)
}

func TestNewProblem_LimitValidation(t *testing.T) {
	t.Parallel()
	now := time.Now()

	req := testCreateRequest()
	req.TimeLimitSec = 11
	_, err := model.NewProblem(req, "alice", now)
	require.Error(t, err)
	assert.Equal(t, "the time limit must be greater than 0 and at most 10 seconds", err.Error())

	req = testCreateRequest()
	req.MemoryLimitMb = 64
	_, err = model.NewProblem(req, "alice", now)
	require.Error(t, err)
	assert.Equal(t, "the memory limit must be between 128 and 512 MB", err.Error())
}

func TestProblem_MakePublic(t *testing.T) {
	t.Parallel()

	p, err := model.NewProblem(testCreateRequest(), "alice", time.Now())
	require.NoError(t, err)
	p.TestCaseURLs = testCaseURLs(10)

	require.NoError(t, p.MakePublic(7))
	assert.Equal(t, model.ProblemStatusPublic, p.Status)
	assert.Equal(t, int64(7), p.Number)

	// Publishing twice is refused
	err = p.MakePublic(8)
	require.Error(t, err)
	assert.Equal(t, int64(7), p.Number)
}

func TestProblem_MakePublic_InsufficientTestCases(t *testing.T) {
	t.Parallel()

	p, err := model.NewProblem(testCreateRequest(), "alice", time.Now())
	require.NoError(t, err)
	p.TestCaseURLs = testCaseURLs(9)

	err = p.MakePublic(1)
	require.Error(t, err)
	var typed model.InsufficientTestCasesError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, 9, typed.Count)
	assert.True(t, p.IsDraft())
}

func TestProblem_AcceptSubmit(t *testing.T) {
	t.Parallel()

	p, err := model.NewProblem(testCreateRequest(), "alice", time.Now())
	require.NoError(t, err)
	p.TestCaseURLs = testCaseURLs(10)

	// A draft can be submitted to by the author, the counter is not incremented
	require.NoError(t, p.AcceptSubmit())
	assert.Equal(t, 0, p.SubmitCount)

	require.NoError(t, p.MakePublic(1))
	require.NoError(t, p.AcceptSubmit())
	require.NoError(t, p.AcceptSubmit())
	assert.Equal(t, 2, p.SubmitCount)
}

func TestProblem_ModifyDraft(t *testing.T) {
	t.Parallel()
	now := time.Now()

	p, err := model.NewProblem(testCreateRequest(), "alice", now)
	require.NoError(t, err)

	modified := now.Add(time.Hour)
	require.NoError(t, p.ModifyDraft(model.ProblemDraftModifyRequest{
		Title:         "Three Sum",
		Description:   "Find three numbers.",
		TimeLimitSec:  3,
		MemoryLimitMb: 512,
	}, modified))
	assert.Equal(t, "Three Sum", p.Title)
	assert.Equal(t, modified, p.LastModified)

	p.TestCaseURLs = testCaseURLs(10)
	require.NoError(t, p.MakePublic(1))
	err = p.ModifyDraft(model.ProblemDraftModifyRequest{
		Title:         "Four Sum",
		Description:   "Find four numbers.",
		TimeLimitSec:  3,
		MemoryLimitMb: 512,
	}, modified)
	require.Error(t, err)
	assert.Equal(t, "Three Sum", p.Title)
}
