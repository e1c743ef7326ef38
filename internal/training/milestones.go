package training

// CurrentVariation returns the variation the user is working on: the one with
// the highest recorded session count still below the overload period. Equal
// counts resolve to the easier variation. Without such a variation the easiest
// one is returned. Nil only when the exercise has no variations.
func CurrentVariation(exercise Exercise, milestones MilestoneMap) *Variation {
	variations := GetVariationsForExercise(exercise)
	if len(variations) == 0 {
		return nil
	}

	recorded := milestones[exercise.ID]
	current := -1
	bestCount := -1
	for i, v := range variations {
		count, ok := recorded[v.ID]
		if !ok || count >= OverloadPeriodSessions {
			continue
		}
		if count > bestCount {
			bestCount = count
			current = i
		}
	}

	if current < 0 {
		return &variations[0]
	}
	return &variations[current]
}

// IsMilestoneAchieved reports whether the variation was performed for the full overload period.
func IsMilestoneAchieved(exerciseID, variationID string, milestones MilestoneMap) bool {
	return milestones.Count(exerciseID, variationID) >= OverloadPeriodSessions
}

// NextVariation returns the next harder variation, nil when the current one is
// the hardest or is not part of the exercise.
func NextVariation(exercise Exercise, currentVariationID string) *Variation {
	variations := GetVariationsForExercise(exercise)
	for i, v := range variations {
		if v.ID != currentVariationID {
			continue
		}
		if i+1 < len(variations) {
			return &variations[i+1]
		}
		return nil
	}
	return nil
}

// UpdateMilestone returns a new map with one more session recorded for the
// pair, never going above the overload period. The input map is not modified.
func UpdateMilestone(exerciseID, variationID string, milestones MilestoneMap) MilestoneMap {
	updated := milestones.Clone()
	if _, ok := updated[exerciseID]; !ok {
		updated[exerciseID] = make(map[string]int)
	}

	count := updated[exerciseID][variationID] + 1
	if count > OverloadPeriodSessions {
		count = OverloadPeriodSessions
	}
	updated[exerciseID][variationID] = count

	return updated
}

// SelectVariationForUser picks the variation to plan for the user. Once the
// current variation completed its overload period the next harder one is used.
// This is the only place where a user moves up a variation.
func SelectVariationForUser(exercise Exercise, milestones MilestoneMap, _ *UserProfile) *Variation {
	current := CurrentVariation(exercise, milestones)
	if current == nil {
		return nil
	}

	if IsMilestoneAchieved(exercise.ID, current.ID, milestones) {
		if next := NextVariation(exercise, current.ID); next != nil {
			return next
		}
	}

	return current
}
