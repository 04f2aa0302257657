// Package submission provides the submit operation with the transactional outbox hand-off.
package submission

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/algomarket/problem-service/internal/pkg/log"
	svcerrors "github.com/algomarket/problem-service/internal/pkg/service/common/errors"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/outbox"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
	"github.com/algomarket/problem-service/internal/pkg/validator"
)

type dependencies interface {
	Logger() log.Logger
	Clock() clockwork.Clock
	Validator() validator.Validator
	ProblemRepository() repository.ProblemRepository
	SubmissionRepository() repository.SubmissionRepository
	OutboxDispatcher() *outbox.Dispatcher
}

// Service accepts submissions and hands them to the grading queue through the outbox.
type Service struct {
	logger      log.Logger
	clock       clockwork.Clock
	validator   validator.Validator
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	dispatcher  *outbox.Dispatcher
}

func NewService(d dependencies) *Service {
	return &Service{
		logger:      d.Logger().WithComponent("submission"),
		clock:       d.Clock(),
		validator:   d.Validator(),
		problems:    d.ProblemRepository(),
		submissions: d.SubmissionRepository(),
		dispatcher:  d.OutboxDispatcher(),
	}
}

// Submit stores a new submission together with its outbox record
// and then dispatches the submitted event to the grading queue.
// A dispatch failure is not surfaced, the retry sweep is the safety net.
func (s *Service) Submit(ctx context.Context, req model.SubmitRequest, username string) (model.Submission, error) {
	if err := s.validator.Validate(ctx, req); err != nil {
		return model.Submission{}, svcerrors.NewBadRequestError(err)
	}

	problem, err := s.problems.Get(ctx, req.ProblemID)
	if err != nil {
		return model.Submission{}, err
	}

	if err := problem.AcceptSubmit(); err != nil {
		return model.Submission{}, svcerrors.NewUnprocessableContentError(err)
	}
	if err := s.problems.Save(ctx, &problem); err != nil {
		return model.Submission{}, err
	}

	submission := model.NewSubmission(req, username, problem.Title, s.clock.Now())
	if err := s.submissions.Save(ctx, &submission); err != nil {
		return model.Submission{}, err
	}

	event := model.SubmittedEvent{
		SubmissionID:  submission.ID,
		ProblemID:     problem.ID,
		Username:      username,
		SourceCode:    req.SourceCode,
		Language:      req.Language,
		TimeLimitSec:  problem.TimeLimitSec,
		MemoryLimitMb: problem.MemoryLimitMb,
	}

	// The record must be durable together with the submission,
	// dispatch happens only after both writes are done
	if err := s.dispatcher.RecordPending(ctx, event); err != nil {
		return model.Submission{}, err
	}
	s.dispatcher.DispatchAfterCommit(ctx, event)

	s.logger.Infof(ctx, `accepted submission "%d" of problem "%d" by "%s"`, submission.ID, problem.ID, username)
	return submission, nil
}

// FinishSubmission stores the final grading result.
func (s *Service) FinishSubmission(ctx context.Context, event model.JudgedEvent) error {
	if err := s.validator.Validate(ctx, event); err != nil {
		return svcerrors.NewBadRequestError(err)
	}

	submission, err := s.submissions.Get(ctx, event.SubmissionID)
	if err != nil {
		return err
	}

	submission.UpdateStatus(event.SubmitStatus, event.RuntimeMs, event.MemoryKb)
	return s.submissions.Save(ctx, &submission)
}

// Get returns the submission.
func (s *Service) Get(ctx context.Context, id int64) (model.Submission, error) {
	return s.submissions.Get(ctx, id)
}
