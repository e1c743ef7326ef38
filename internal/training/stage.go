package training

import (
	log "github.com/sirupsen/logrus"
)

// StageOutcome tells whether a filtering stage kept its own result or fell
// back to the broader set it was given.
type StageOutcome int

const (
	UseFiltered StageOutcome = iota
	FallbackToBroader
)

func (so StageOutcome) String() string {
	switch so {
	case UseFiltered:
		return "use_filtered"
	case FallbackToBroader:
		return "fallback_to_broader"
	default:
		return "unknown"
	}
}

// StageResult is the outcome of one filtering stage of plan generation.
type StageResult struct {
	Stage     string
	Outcome   StageOutcome
	Exercises []Exercise
}

// StageObserver is notified about every stage outcome (metrics, tests).
type StageObserver func(StageResult)

// applyStage runs the filter and falls back to the broader set when the
// filter leaves nothing.
func applyStage(stage string, filtered, broader []Exercise) StageResult {
	if len(filtered) > 0 {
		return StageResult{
			Stage:     stage,
			Outcome:   UseFiltered,
			Exercises: filtered,
		}
	}
	return StageResult{
		Stage:     stage,
		Outcome:   FallbackToBroader,
		Exercises: broader,
	}
}

func (a *Assembler) stage(stage string, filtered, broader []Exercise) []Exercise {
	res := applyStage(stage, filtered, broader)
	if res.Outcome == FallbackToBroader {
		log.Warnf("training: stage [%s] left no exercises, falling back to %d broader candidates", stage, len(broader))
	}
	if a.observer != nil {
		a.observer(res)
	}
	return res.Exercises
}
