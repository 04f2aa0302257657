package model

import (
	"fmt"
	"time"
)

// AggregateTypeSubmission tags outbox records created by the submit operation.
const AggregateTypeSubmission = "Submission"

// SubmittedEvent is dispatched to the grading queue when a submission is created.
type SubmittedEvent struct {
	SubmissionID  int64    `json:"submissionId" validate:"required"`
	ProblemID     int64    `json:"problemId" validate:"required"`
	Username      string   `json:"username" validate:"required"`
	SourceCode    string   `json:"sourceCode" validate:"required"`
	Language      Language `json:"language" validate:"required"`
	TimeLimitSec  float64  `json:"timeLimitSec" validate:"required,gt=0,lte=10"`
	MemoryLimitMb int      `json:"memoryLimitMb" validate:"required,min=128,max=512"`
}

// AggregateID returns the deduplication identity of the event.
func (e SubmittedEvent) AggregateID() string {
	return fmt.Sprintf("%d", e.SubmissionID)
}

// JudgedEvent carries the final grading result of a submission.
type JudgedEvent struct {
	SubmissionID int64        `json:"submissionId" validate:"required"`
	SubmitStatus SubmitStatus `json:"submitStatus" validate:"required"`
	RuntimeMs    *int         `json:"runtimeMs,omitempty"`
	MemoryKb     *int         `json:"memoryKb,omitempty"`
}

// ProgressNotification is one judge progress update, received over the broadcast channel
// and delivered to the client stream.
type ProgressNotification struct {
	SubmissionID    int64        `json:"submissionId" validate:"required"`
	Username        string       `json:"username" validate:"required"`
	SubmitStatus    SubmitStatus `json:"submitStatus" validate:"required"`
	ProgressPercent int          `json:"progressPercent" validate:"min=0,max=100"`
	CurrentTest     int          `json:"currentTest"`
	TotalTest       int          `json:"totalTest"`
	Timestamp       time.Time    `json:"timeStamp"`
	RuntimeMs       *int         `json:"runtimeMs,omitempty"`
	MemoryKb        *int         `json:"memoryKb,omitempty"`
}

// StreamKey identifies the client stream the notification belongs to.
func (n ProgressNotification) StreamKey() StreamKey {
	return StreamKey{Username: n.Username, SubmissionID: n.SubmissionID}
}

// IsTerminal returns true if the notification carries a final status.
func (n ProgressNotification) IsTerminal() bool {
	return n.SubmitStatus.IsTerminal()
}

// StreamKey is the identity of a client progress stream.
type StreamKey struct {
	Username     string
	SubmissionID int64
}

func (k StreamKey) String() string {
	return fmt.Sprintf("%s:%d", k.Username, k.SubmissionID)
}
