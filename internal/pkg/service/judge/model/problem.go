package model

import (
	"strings"
	"time"

	"github.com/algomarket/problem-service/internal/pkg/utils/errors"
)

// ProblemStatus is the publication state of a problem.
type ProblemStatus string

const (
	ProblemStatusDraft  ProblemStatus = "DRAFT"
	ProblemStatusPublic ProblemStatus = "PUBLIC"
)

// MinTestCases is the minimum number of grading test cases required to accept submissions.
const MinTestCases = 10

// InsufficientTestCasesError is returned when a problem does not have enough grading test cases.
type InsufficientTestCasesError struct {
	Count int
}

func (e InsufficientTestCasesError) Error() string {
	return errors.Errorf("the problem requires at least %d grading test cases, found %d", MinTestCases, e.Count).Error()
}

// ExampleTestCase is a public sample shown in the problem statement.
type ExampleTestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// TestCaseURL points to an uploaded grading input/output pair in the object storage.
type TestCaseURL struct {
	InputURL  string `json:"inputUrl"`
	OutputURL string `json:"outputUrl"`
}

// Problem is a coding problem, created as a draft and later published with an assigned number.
type Problem struct {
	ID               int64             `json:"id"`
	Number           int64             `json:"number"`
	Title            string            `json:"title"`
	AuthorUsername   string            `json:"authorUsername"`
	Description      string            `json:"description"`
	SubmitCount      int               `json:"submitCount"`
	Status           ProblemStatus     `json:"status"`
	TimeLimitSec     float64           `json:"timeLimitSec"`
	MemoryLimitMb    int               `json:"memoryLimitMb"`
	ExampleTestCases []ExampleTestCase `json:"exampleTestCases,omitempty"`
	TestCaseURLs     []TestCaseURL     `json:"testCaseUrls,omitempty"`
	LastModified     time.Time         `json:"lastModified"`
}

// ProblemCreateRequest contains fields of a new problem draft.
type ProblemCreateRequest struct {
	Title            string            `json:"title" validate:"required,max=100"`
	Description      string            `json:"description" validate:"required"`
	TimeLimitSec     float64           `json:"timeLimitSec" validate:"required,gt=0,lte=10"`
	MemoryLimitMb    int               `json:"memoryLimitMb" validate:"required,min=128,max=512"`
	ExampleTestCases []ExampleTestCase `json:"exampleTestCases,omitempty"`
	TestCaseURLs     []TestCaseURL     `json:"testCaseUrls,omitempty"`
}

// NewProblem creates a problem draft, the number is assigned on publication.
func NewProblem(req ProblemCreateRequest, authorUsername string, now time.Time) (Problem, error) {
	if err := validateTimeLimit(req.TimeLimitSec); err != nil {
		return Problem{}, err
	}
	if err := validateMemoryLimit(req.MemoryLimitMb); err != nil {
		return Problem{}, err
	}
	return Problem{
		Title:            req.Title,
		AuthorUsername:   authorUsername,
		Description:      req.Description,
		TimeLimitSec:     req.TimeLimitSec,
		MemoryLimitMb:    req.MemoryLimitMb,
		ExampleTestCases: req.ExampleTestCases,
		TestCaseURLs:     req.TestCaseURLs,
		SubmitCount:      0,
		Status:           ProblemStatusDraft,
		LastModified:     now,
	}, nil
}

// IsDraft returns true if the problem has not been published yet.
func (p *Problem) IsDraft() bool {
	return p.Status == ProblemStatusDraft
}

// AcceptSubmit validates that the problem can be submitted to
// and increments the public submissions counter.
func (p *Problem) AcceptSubmit() error {
	if err := p.validateTestCaseCount(); err != nil {
		return err
	}
	if p.Status == ProblemStatusPublic {
		p.SubmitCount++
	}
	return nil
}

// MakePublic flips the draft to the public state and assigns the problem number.
func (p *Problem) MakePublic(number int64) error {
	if p.Status == ProblemStatusPublic {
		return errors.Errorf(`the problem "%d" is already public`, p.ID)
	}
	if strings.TrimSpace(p.Title) == "" || len(p.Title) > 100 {
		return errors.New("the problem title must have 1 to 100 characters")
	}
	if strings.TrimSpace(p.Description) == "" {
		return errors.New("the problem description must be set")
	}
	if err := p.validateTestCaseCount(); err != nil {
		return err
	}

	p.Status = ProblemStatusPublic
	p.Number = number
	return nil
}

// ProblemDraftModifyRequest contains modified fields of a problem draft.
type ProblemDraftModifyRequest struct {
	Title            string            `json:"title" validate:"required,max=100"`
	Description      string            `json:"description" validate:"required"`
	TimeLimitSec     float64           `json:"timeLimitSec" validate:"required,gt=0,lte=10"`
	MemoryLimitMb    int               `json:"memoryLimitMb" validate:"required,min=128,max=512"`
	ExampleTestCases []ExampleTestCase `json:"exampleTestCases,omitempty"`
	TestCaseURLs     []TestCaseURL     `json:"testCaseUrls,omitempty"`
}

// ModifyDraft replaces the draft content, only a draft can be modified.
func (p *Problem) ModifyDraft(req ProblemDraftModifyRequest, now time.Time) error {
	if p.Status != ProblemStatusDraft {
		return errors.Errorf(`the problem "%d" is not a draft`, p.ID)
	}
	if err := validateTimeLimit(req.TimeLimitSec); err != nil {
		return err
	}
	if err := validateMemoryLimit(req.MemoryLimitMb); err != nil {
		return err
	}

	p.Title = req.Title
	p.Description = req.Description
	p.TimeLimitSec = req.TimeLimitSec
	p.MemoryLimitMb = req.MemoryLimitMb
	p.ExampleTestCases = req.ExampleTestCases
	p.TestCaseURLs = req.TestCaseURLs
	p.LastModified = now
	return nil
}

func (p *Problem) validateTestCaseCount() error {
	if len(p.TestCaseURLs) < MinTestCases {
		return InsufficientTestCasesError{Count: len(p.TestCaseURLs)}
	}
	return nil
}

func validateTimeLimit(v float64) error {
	if v <= 0 || v > 10 {
		return errors.New("the time limit must be greater than 0 and at most 10 seconds")
	}
	return nil
}

func validateMemoryLimit(v int) error {
	if v < 128 || v > 512 {
		return errors.New("the memory limit must be between 128 and 512 MB")
	}
	return nil
}
