package training

import "strings"

// FilterByDiscipline keeps exercises whose discipline is one of the given ones.
// No disciplines means no filtering.
func FilterByDiscipline(exercises []Exercise, disciplines ...string) []Exercise {
	wanted := make(map[string]bool, len(disciplines))
	for _, d := range disciplines {
		if d != "" {
			wanted[d] = true
		}
	}
	if len(wanted) == 0 {
		return exercises
	}

	filtered := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if wanted[ex.Discipline] {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

// FilterByFramework keeps exercises with at least one variation hitting a muscle
// of any framework part. An unknown framework matches nothing.
func (r Rules) FilterByFramework(exercises []Exercise, framework string) []Exercise {
	muscles, known := r.frameworkMuscleSet(framework)
	if !known {
		return []Exercise{}
	}

	filtered := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if anyVariation(ex, func(v Variation) bool {
			return containsAnyFold(muscles, v.TargetMuscles.All())
		}) {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

// FilterByPhase keeps exercises with at least one variation suited for the phase.
// An unknown phase returns the input unchanged.
func (r Rules) FilterByPhase(exercises []Exercise, phase Phase) []Exercise {
	criteria, ok := r.Phases[phase]
	if !ok {
		return exercises
	}

	filtered := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if anyVariation(ex, func(v Variation) bool {
			return variationFitsPhase(v, phase, criteria)
		}) {
			filtered = append(filtered, ex)
		}
	}
	return filtered
}

func variationFitsPhase(v Variation, phase Phase, criteria PhaseCriteria) bool {
	switch phase {
	case PhaseWarmup:
		return v.DifficultyScore <= criteria.MaxDifficulty &&
			(criteria.prefersProgression(v.ProgressionType) ||
				strings.EqualFold(v.Bilaterality, criteria.PreferredBilaterality))
	case PhaseWorkout:
		return criteria.InBounds(v.DifficultyScore)
	case PhaseCooldown:
		return v.DifficultyScore <= criteria.MaxDifficulty &&
			criteria.prefersProgression(v.ProgressionType)
	default:
		return true
	}
}

// FilterByDiscomforts drops exercises where any variation's primary muscles
// hit a discomfort area. Secondary muscles are not considered.
func FilterByDiscomforts(exercises []Exercise, discomforts []string) []Exercise {
	if len(discomforts) == 0 {
		return exercises
	}
	areas := lowerSet(discomforts)

	filtered := make([]Exercise, 0, len(exercises))
	for _, ex := range exercises {
		if anyVariation(ex, func(v Variation) bool {
			return containsAnyFold(areas, v.TargetMuscles.Primary)
		}) {
			continue
		}
		filtered = append(filtered, ex)
	}
	return filtered
}

// FilterByEquipment returns the exercises unchanged: the catalog does not
// model equipment yet.
func FilterByEquipment(exercises []Exercise, _ []string) []Exercise {
	return exercises
}

func anyVariation(ex Exercise, pred func(Variation) bool) bool {
	for _, v := range ex.Variations {
		if pred(v) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}

// containsAnyFold reports whether any value is in the lower-cased set.
func containsAnyFold(set map[string]bool, values []string) bool {
	for _, v := range values {
		if set[strings.ToLower(strings.TrimSpace(v))] {
			return true
		}
	}
	return false
}
