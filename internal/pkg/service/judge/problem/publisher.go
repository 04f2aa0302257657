package problem

import (
	"fmt"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
)

// MinSolvedLanguages is how many distinct languages the author must solve
// the problem in before it can be published.
const MinSolvedLanguages = 2

// InsufficientSolvedLanguagesError is returned when the author has not proven
// the problem solvable in enough languages.
type InsufficientSolvedLanguagesError struct {
	Solved int
}

func (e InsufficientSolvedLanguagesError) Error() string {
	return fmt.Sprintf("the author must solve the problem in at least %d languages before publishing, solved in %d", MinSolvedLanguages, e.Solved)
}

// publish validates the author's proof of solvability and flips the problem to the public state,
// assigning the next problem number.
// It must run under the publication lock, "read max number, assign max+1"
// is a read-modify-write sequence against shared state.
func publish(authorUsername string, problem *model.Problem, submissions []model.Submission, maxProblemNumber int64) error {
	solvedLanguages := make(map[model.Language]bool)
	for i := range submissions {
		submission := submissions[i]
		if submission.Username == authorUsername && submission.IsSolved() {
			solvedLanguages[submission.Language] = true
		}
	}
	if len(solvedLanguages) < MinSolvedLanguages {
		return InsufficientSolvedLanguagesError{Solved: len(solvedLanguages)}
	}

	return problem.MakePublic(maxProblemNumber + 1)
}
