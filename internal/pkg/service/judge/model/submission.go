package model

import (
	"time"
)

// Submission is one attempt to solve a problem.
type Submission struct {
	ID           int64        `json:"id"`
	ProblemID    int64        `json:"problemId"`
	ProblemTitle string       `json:"problemTitle"`
	Username     string       `json:"username"`
	SourceCode   string       `json:"sourceCode"`
	Language     Language     `json:"language"`
	SubmitStatus SubmitStatus `json:"submitStatus"`
	SubmitTime   time.Time    `json:"submitTime"`
	RuntimeMs    *int         `json:"runtimeMs,omitempty"`
	MemoryKb     *int         `json:"memoryKb,omitempty"`
}

// SubmitRequest contains fields of a new submission.
type SubmitRequest struct {
	ProblemID  int64    `json:"problemId" validate:"required"`
	SourceCode string   `json:"sourceCode" validate:"required"`
	Language   Language `json:"language" validate:"required"`
}

// NewSubmission creates a submission in the judging state.
func NewSubmission(req SubmitRequest, username, problemTitle string, now time.Time) Submission {
	return Submission{
		ProblemID:    req.ProblemID,
		ProblemTitle: problemTitle,
		Username:     username,
		SourceCode:   req.SourceCode,
		Language:     req.Language,
		SubmitStatus: StatusJudging,
		SubmitTime:   now,
	}
}

// UpdateStatus sets the grading result, runtime and memory are kept only for accepted solutions.
func (s *Submission) UpdateStatus(status SubmitStatus, runtimeMs, memoryKb *int) {
	s.SubmitStatus = status
	if status == StatusAccepted {
		s.RuntimeMs = runtimeMs
		s.MemoryKb = memoryKb
	} else {
		s.RuntimeMs = nil
		s.MemoryKb = nil
	}
}

// IsSolved returns true for an accepted submission.
func (s *Submission) IsSolved() bool {
	return s.SubmitStatus == StatusAccepted
}

// IsFinished returns true when the grading has ended.
func (s *Submission) IsFinished() bool {
	return s.SubmitStatus.IsTerminal()
}
