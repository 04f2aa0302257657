package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"

	svcerrors "github.com/algomarket/problem-service/internal/pkg/service/common/errors"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type memoryProblemRepository struct {
	lock   sync.RWMutex
	nextID int64
	items  map[int64]model.Problem
}

// NewMemoryProblemRepository creates an in-memory problem repository.
func NewMemoryProblemRepository() ProblemRepository {
	return &memoryProblemRepository{nextID: 1, items: make(map[int64]model.Problem)}
}

func (r *memoryProblemRepository) Save(_ context.Context, problem *model.Problem) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if problem.ID == 0 {
		problem.ID = r.nextID
		r.nextID++
	}
	r.items[problem.ID] = *problem
	return nil
}

func (r *memoryProblemRepository) Get(_ context.Context, id int64) (model.Problem, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	problem, found := r.items[id]
	if !found {
		return model.Problem{}, svcerrors.NewResourceNotFoundError("problem", strconv.FormatInt(id, 10), "repository")
	}
	return problem, nil
}

func (r *memoryProblemRepository) GetByIDAndAuthor(ctx context.Context, id int64, authorUsername string) (model.Problem, error) {
	problem, err := r.Get(ctx, id)
	if err != nil {
		return model.Problem{}, err
	}
	if problem.AuthorUsername != authorUsername {
		return model.Problem{}, svcerrors.NewResourceNotFoundError("problem", strconv.FormatInt(id, 10), "repository")
	}
	return problem, nil
}

func (r *memoryProblemRepository) MaxProblemNumber(_ context.Context) (int64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	var max int64
	for _, problem := range r.items {
		if problem.Number > max {
			max = problem.Number
		}
	}
	return max, nil
}

func (r *memoryProblemRepository) ExistsTitleExcept(_ context.Context, title string, exceptID int64) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, problem := range r.items {
		if problem.Title == title && problem.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryProblemRepository) DeleteDraft(ctx context.Context, id int64, authorUsername string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	problem, found := r.items[id]
	if !found || problem.AuthorUsername != authorUsername {
		return svcerrors.NewResourceNotFoundError("problem", strconv.FormatInt(id, 10), "repository")
	}
	if !problem.IsDraft() {
		return svcerrors.NewInvalidStateError(errors.Errorf(`the problem "%d" is public, it cannot be deleted`, id))
	}
	delete(r.items, id)
	return nil
}

type memorySubmissionRepository struct {
	lock   sync.RWMutex
	nextID int64
	items  map[int64]model.Submission
}

// NewMemorySubmissionRepository creates an in-memory submission repository.
func NewMemorySubmissionRepository() SubmissionRepository {
	return &memorySubmissionRepository{nextID: 1, items: make(map[int64]model.Submission)}
}

func (r *memorySubmissionRepository) Save(_ context.Context, submission *model.Submission) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if submission.ID == 0 {
		submission.ID = r.nextID
		r.nextID++
	}
	r.items[submission.ID] = *submission
	return nil
}

func (r *memorySubmissionRepository) Get(_ context.Context, id int64) (model.Submission, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	submission, found := r.items[id]
	if !found {
		return model.Submission{}, svcerrors.NewResourceNotFoundError("submission", strconv.FormatInt(id, 10), "repository")
	}
	return submission, nil
}

func (r *memorySubmissionRepository) ListByProblemAndUser(_ context.Context, problemID int64, username string) ([]model.Submission, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	out := make([]model.Submission, 0)
	for _, submission := range r.items {
		if submission.ProblemID == problemID && submission.Username == username {
			out = append(out, submission)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
