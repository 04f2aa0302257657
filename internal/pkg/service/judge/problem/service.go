// Package problem provides problem draft management and the guarded publication operation.
package problem

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/algomarket/problem-service/internal/pkg/log"
	"github.com/algomarket/problem-service/internal/pkg/service/common/distlock"
	svcerrors "github.com/algomarket/problem-service/internal/pkg/service/common/errors"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
	"github.com/algomarket/problem-service/internal/pkg/validator"
)

type dependencies interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Validator() validator.Validator
	ProblemRepository() repository.ProblemRepository
	SubmissionRepository() repository.SubmissionRepository
	DistributedLockProvider() *distlock.Provider
}

// Service manages problem drafts and their publication.
type Service struct {
	config      Config
	logger      log.Logger
	clock       clockwork.Clock
	validator   validator.Validator
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	locks       *distlock.Provider
}

func NewService(d dependencies, cfg Config) *Service {
	return &Service{
		config:      cfg,
		logger:      d.Logger().WithComponent("problem"),
		clock:       d.Clock(),
		validator:   d.Validator(),
		problems:    d.ProblemRepository(),
		submissions: d.SubmissionRepository(),
		locks:       d.DistributedLockProvider(),
	}
}

// Create stores a new problem draft.
func (s *Service) Create(ctx context.Context, req model.ProblemCreateRequest, authorUsername string) (model.Problem, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return model.Problem{}, svcerrors.NewBadRequestError(err)
	}
	if err := s.checkDuplicateTitle(ctx, req.Title, 0); err != nil {
		return model.Problem{}, err
	}

	problem, err := model.NewProblem(req, authorUsername, s.clock.Now())
	if err != nil {
		return model.Problem{}, svcerrors.NewBadRequestError(err)
	}

	if err := s.problems.Save(ctx, &problem); err != nil {
		return model.Problem{}, err
	}
	s.logger.Infof(ctx, `created problem draft "%d" by author "%s"`, problem.ID, authorUsername)
	return problem, nil
}

// SaveDraftChanges modifies the author's draft,
// titles of the user's submissions are kept in sync.
func (s *Service) SaveDraftChanges(ctx context.Context, problemID int64, req model.ProblemDraftModifyRequest, authorUsername string) (model.Problem, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return model.Problem{}, svcerrors.NewBadRequestError(err)
	}
	if err := s.checkDuplicateTitle(ctx, req.Title, problemID); err != nil {
		return model.Problem{}, err
	}

	problem, err := s.problems.GetByIDAndAuthor(ctx, problemID, authorUsername)
	if err != nil {
		return model.Problem{}, err
	}

	if err := problem.ModifyDraft(req, s.clock.Now()); err != nil {
		return model.Problem{}, svcerrors.NewInvalidStateError(err)
	}

	submissions, err := s.submissions.ListByProblemAndUser(ctx, problemID, authorUsername)
	if err != nil {
		return model.Problem{}, err
	}
	for i := range submissions {
		submissions[i].ProblemTitle = req.Title
		if err := s.submissions.Save(ctx, &submissions[i]); err != nil {
			return model.Problem{}, err
		}
	}

	if err := s.problems.Save(ctx, &problem); err != nil {
		return model.Problem{}, err
	}
	return problem, nil
}

// MakePublic publishes the author's draft, the next problem number is assigned
// under the cluster-wide publication lock.
func (s *Service) MakePublic(ctx context.Context, problemID int64, authorUsername string) (err error) {
	_, release, err := distlock.Acquire(ctx, s.locks, s.logger, PublicationLockName, s.config.LockWaitTimeout)
	if err != nil {
		var lockErr distlock.LockAcquisitionError
		if errors.As(err, &lockErr) {
			return svcerrors.NewInvalidStateError(err)
		}
		return err
	}
	defer release()

	problem, err := s.problems.GetByIDAndAuthor(ctx, problemID, authorUsername)
	if err != nil {
		return err
	}

	maxNumber, err := s.problems.MaxProblemNumber(ctx)
	if err != nil {
		return err
	}

	submissions, err := s.submissions.ListByProblemAndUser(ctx, problemID, authorUsername)
	if err != nil {
		return err
	}

	if err := publish(authorUsername, &problem, submissions, maxNumber); err != nil {
		var insufficient InsufficientSolvedLanguagesError
		if errors.As(err, &insufficient) {
			return svcerrors.NewUnprocessableContentError(err)
		}
		var testCases model.InsufficientTestCasesError
		if errors.As(err, &testCases) {
			return svcerrors.NewUnprocessableContentError(err)
		}
		return svcerrors.NewInvalidStateError(err)
	}

	if err := s.problems.Save(ctx, &problem); err != nil {
		return err
	}

	s.logger.Infof(ctx, `published problem "%d" with number "%d"`, problem.ID, problem.Number)
	return nil
}

// RemoveDraft deletes the author's draft.
func (s *Service) RemoveDraft(ctx context.Context, problemID int64, authorUsername string) error {
	return s.problems.DeleteDraft(ctx, problemID, authorUsername)
}

func (s *Service) checkDuplicateTitle(ctx context.Context, title string, exceptID int64) error {
	exists, err := s.problems.ExistsTitleExcept(ctx, title, exceptID)
	if err != nil {
		return err
	}
	if exists {
		return svcerrors.NewResourceAlreadyExistsError("problemTitle", title, "repository")
	}
	return nil
}
