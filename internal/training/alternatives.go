package training

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/regain/internal/telemetry/tracing"
)

const (
	MaxAlternatives    = 3
	MinMuscleOverlap   = 0.5
	overlapScoreWeight = 10
)

var ErrVariationNotFound = errors.New("variation not found")

type scoredAlternative struct {
	item  PlanItem
	score float64
}

// FindAlternativeVariations looks through the other exercises of the catalog for
// variations that train mostly the same muscles but move differently, and
// returns the best ones first.
func (r Rules) FindAlternativeVariations(current Variation, exercises []Exercise, phase Phase) []PlanItem {
	criteria, boundPhase := r.Phases[phase]
	currentMuscles := muscleSet(current.TargetMuscles)

	var candidates []scoredAlternative
	for _, ex := range exercises {
		if exerciseOwnsVariation(ex, current.ID) {
			continue
		}
		for _, v := range ex.Variations {
			overlap := muscleOverlap(currentMuscles, muscleSet(v.TargetMuscles))
			if overlap < MinMuscleOverlap {
				continue
			}
			if boundPhase && !criteria.InBounds(v.DifficultyScore) {
				continue
			}
			candidates = append(candidates, scoredAlternative{
				item:  NewPlanItem(ex, v),
				score: overlap*overlapScoreWeight + biomechanicalDifference(current, v),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > MaxAlternatives {
		candidates = candidates[:MaxAlternatives]
	}

	alternatives := make([]PlanItem, 0, len(candidates))
	for _, c := range candidates {
		alternatives = append(alternatives, c.item)
	}
	return alternatives
}

func biomechanicalDifference(current, candidate Variation) float64 {
	diff := 0.0
	if !strings.EqualFold(current.Bilaterality, candidate.Bilaterality) {
		diff += 2
	}
	if !strings.EqualFold(current.ProgressionType, candidate.ProgressionType) {
		diff++
	}
	if current.DifficultyScore != candidate.DifficultyScore {
		diff++
	}
	return diff
}

func muscleSet(tm TargetMuscles) map[string]bool {
	return lowerSet(tm.All())
}

// muscleOverlap is the shared muscles count over the size of the larger set.
func muscleOverlap(a, b map[string]bool) float64 {
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	if larger == 0 {
		return 0
	}

	shared := 0
	for m := range a {
		if b[m] {
			shared++
		}
	}
	return float64(shared) / float64(larger)
}

func exerciseOwnsVariation(ex Exercise, variationID string) bool {
	for _, v := range ex.Variations {
		if v.ID == variationID {
			return true
		}
	}
	return false
}

// FindVariation looks a variation up in the catalog by its ID.
func FindVariation(exercises []Exercise, variationID string) (Exercise, Variation, bool) {
	for _, ex := range exercises {
		for _, v := range ex.Variations {
			if v.ID == variationID {
				return ex, v, true
			}
		}
	}
	return Exercise{}, Variation{}, false
}

// FindAlternatives returns the swap-in candidates for a variation of the catalog.
func (g *Generator) FindAlternatives(ctx context.Context, variationID string, phase Phase) (_ []PlanItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "training.find_alternatives")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("variation_id", variationID))
	span.SetAttributes(attribute.String("phase", phase.String()))

	exercises, err := g.catalog.Exercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	_, current, ok := FindVariation(exercises, variationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVariationNotFound, variationID)
	}

	return g.assembler.rules.FindAlternativeVariations(current, exercises, phase), nil
}
