package progress

import (
	"context"
	"strconv"

	"github.com/algomarket/problem-service/internal/pkg/log"
	svcerrors "github.com/algomarket/problem-service/internal/pkg/service/common/errors"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
	"github.com/algomarket/problem-service/internal/pkg/service/judge/repository"
	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

type serviceDeps interface {
	Logger() log.Logger
	SubmissionRepository() repository.SubmissionRepository
	ProgressRouter() *Router
	ProgressRegistry() *Registry
	ProgressBridge() *Bridge
}

// Service orchestrates progress streaming:
// it validates the stream request, opens the client stream and arms the channel subscription.
type Service struct {
	logger      log.Logger
	submissions repository.SubmissionRepository
	registry    *Registry
	bridge      *Bridge
}

func NewService(d serviceDeps) *Service {
	s := &Service{
		logger:      d.Logger().WithComponent("progress"),
		submissions: d.SubmissionRepository(),
		registry:    d.ProgressRegistry(),
		bridge:      d.ProgressBridge(),
	}

	// All routed notifications flow through the service to the client streams
	d.ProgressRouter().Subscribe(s.handleNotification)

	return s
}

// SubscribeSubmissionProgress validates that the submission is streamable
// and returns the live stream of its progress notifications.
func (s *Service) SubscribeSubmissionProgress(ctx context.Context, username string, submissionID int64) (*Stream, error) {
	submission, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Username != username {
		return nil, svcerrors.NewResourceNotFoundError("submission", strconv.FormatInt(submissionID, 10), "repository")
	}
	if submission.IsFinished() {
		return nil, svcerrors.NewInvalidStateError(errors.Errorf(`the submission "%d" is already graded, status "%s"`, submissionID, submission.SubmitStatus))
	}

	stream, err := s.registry.GetOrCreate(ctx, model.StreamKey{Username: username, SubmissionID: submissionID})
	if err != nil {
		return nil, err
	}

	s.logger.Infof(ctx, `starting progress subscription for submission "%d"`, submissionID)
	if err := s.bridge.Subscribe(ctx, submissionID); err != nil {
		return nil, err
	}

	return stream, nil
}

// handleNotification pushes a routed notification to the matching stream.
// A terminal status also tears down the stream and the channel subscription,
// the inactivity timer is only the fallback path.
func (s *Service) handleNotification(ctx context.Context, notification model.ProgressNotification) {
	key := notification.StreamKey()
	s.registry.Push(ctx, key, notification)

	if notification.IsTerminal() {
		s.registry.Complete(ctx, key, notification.SubmitStatus)
		s.bridge.Unsubscribe(ctx, notification.SubmissionID)
	}
}
