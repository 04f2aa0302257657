package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svcerrors "github.com/algomarket/problem-service/internal/pkg/service/common/errors"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
)

func TestMemoryProblemRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemoryProblemRepository()

	draft := model.Problem{Title: "Two Sum", AuthorUsername: "alice", Status: model.ProblemStatusDraft}
	require.NoError(t, repo.Save(ctx, &draft))
	assert.Equal(t, int64(1), draft.ID)

	public := model.Problem{Title: "Three Sum", AuthorUsername: "alice", Status: model.ProblemStatusPublic, Number: 7}
	require.NoError(t, repo.Save(ctx, &public))
	assert.Equal(t, int64(2), public.ID)

	// Ownership check
	_, err := repo.GetByIDAndAuthor(ctx, draft.ID, "bob")
	if assert.Error(t, err) {
		assert.Equal(t, 404, svcerrors.HTTPCodeFrom(err))
		assert.Equal(t, `problem "1" not found in the repository`, err.Error())
	}
	found, err := repo.GetByIDAndAuthor(ctx, draft.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", found.Title)

	// Highest assigned public number
	max, err := repo.MaxProblemNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), max)

	// Title uniqueness, the problem itself is excluded
	exists, err := repo.ExistsTitleExcept(ctx, "Two Sum", draft.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = repo.ExistsTitleExcept(ctx, "Two Sum", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// A public problem cannot be deleted
	err = repo.DeleteDraft(ctx, public.ID, "alice")
	if assert.Error(t, err) {
		assert.Equal(t, 409, svcerrors.HTTPCodeFrom(err))
	}
	require.NoError(t, repo.DeleteDraft(ctx, draft.ID, "alice"))
	_, err = repo.Get(ctx, draft.ID)
	assert.Error(t, err)
}

func TestMemorySubmissionRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemorySubmissionRepository()

	for _, s := range []model.Submission{
		{ProblemID: 1, Username: "alice", Language: model.LanguageJava},
		{ProblemID: 1, Username: "bob", Language: model.LanguageJava},
		{ProblemID: 2, Username: "alice", Language: model.LanguagePython},
		{ProblemID: 1, Username: "alice", Language: model.LanguagePython},
	} {
		submission := s
		require.NoError(t, repo.Save(ctx, &submission))
	}

	_, err := repo.Get(ctx, 999)
	if assert.Error(t, err) {
		assert.Equal(t, 404, svcerrors.HTTPCodeFrom(err))
	}

	// Only the user's submissions of the problem, ordered by the id
	submissions, err := repo.ListByProblemAndUser(ctx, 1, "alice")
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, model.LanguageJava, submissions[0].Language)
	assert.Equal(t, model.LanguagePython, submissions[1].Language)
}
