package training

import (
	"errors"
	"fmt"
)

var (
	ErrNoExercisesAvailable      = errors.New("no exercises available")
	ErrNoExercisesFound          = errors.New("no exercises found")
	ErrNoExercisesAfterFiltering = errors.New("no exercises after filtering")
)

// NoExercisesAfterFilteringError carries the request context so the caller can
// explain to the user which constraints left nothing to pick from.
type NoExercisesAfterFilteringError struct {
	Discipline  string
	Framework   string
	Discomforts []string
}

func (e *NoExercisesAfterFilteringError) Error() string {
	return fmt.Sprintf(
		"%s: discipline [%s] framework [%s] discomforts %v",
		ErrNoExercisesAfterFiltering, e.Discipline, e.Framework, e.Discomforts,
	)
}

func (e *NoExercisesAfterFilteringError) Unwrap() error {
	return ErrNoExercisesAfterFiltering
}
