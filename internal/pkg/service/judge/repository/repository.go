// Package repository defines persistence boundaries of the domain aggregates.
//
// The relational persistence itself lives in an external service,
// the package provides interfaces and an in-memory implementation
// used by tests and the local development mode.
package repository

import (
	"context"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
)

// ProblemRepository persists problem aggregates.
type ProblemRepository interface {
	// Save inserts a new problem, assigning the ID, or updates an existing one.
	Save(ctx context.Context, problem *model.Problem) error
	// Get returns the problem or the ResourceNotFoundError.
	Get(ctx context.Context, id int64) (model.Problem, error)
	// GetByIDAndAuthor returns the problem only if it is owned by the author, otherwise the ResourceNotFoundError.
	GetByIDAndAuthor(ctx context.Context, id int64, authorUsername string) (model.Problem, error)
	// MaxProblemNumber returns the highest assigned public problem number, 0 when no problem is public.
	MaxProblemNumber(ctx context.Context) (int64, error)
	// ExistsTitleExcept reports whether another problem uses the title.
	ExistsTitleExcept(ctx context.Context, title string, exceptID int64) (bool, error)
	// DeleteDraft removes the author's draft, a public problem cannot be deleted.
	DeleteDraft(ctx context.Context, id int64, authorUsername string) error
}

// SubmissionRepository persists submission aggregates.
type SubmissionRepository interface {
	// Save inserts a new submission, assigning the ID, or updates an existing one.
	Save(ctx context.Context, submission *model.Submission) error
	// Get returns the submission or the ResourceNotFoundError.
	Get(ctx context.Context, id int64) (model.Submission, error)
	// ListByProblemAndUser returns all user's submissions of the problem.
	ListByProblemAndUser(ctx context.Context, problemID int64, username string) ([]model.Submission, error)
}
