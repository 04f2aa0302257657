// Package model contains value types of the judge pipeline.
package model

// SubmitStatus is the state of a submission in the grading pipeline.
type SubmitStatus string

const (
	StatusJudging             SubmitStatus = "JUDGING"
	StatusAccepted            SubmitStatus = "ACCEPTED"
	StatusWrongAnswer         SubmitStatus = "WRONG_ANSWER"
	StatusCompileError        SubmitStatus = "COMPILE_ERROR"
	StatusRuntimeError        SubmitStatus = "RUNTIME_ERROR"
	StatusMemoryLimitExceeded SubmitStatus = "MEMORY_LIMIT_EXCEEDED"
	StatusTimeLimitExceeded   SubmitStatus = "TIME_LIMIT_EXCEEDED"
)

// AllStatuses returns all known statuses.
func AllStatuses() []SubmitStatus {
	return []SubmitStatus{
		StatusJudging,
		StatusAccepted,
		StatusWrongAnswer,
		StatusCompileError,
		StatusRuntimeError,
		StatusMemoryLimitExceeded,
		StatusTimeLimitExceeded,
	}
}

// IsValid returns true for a known status value.
func (s SubmitStatus) IsValid() bool {
	for _, v := range AllStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further progress notification is expected after the status.
func (s SubmitStatus) IsTerminal() bool {
	return s != StatusJudging
}

func (s SubmitStatus) String() string {
	return string(s)
}
