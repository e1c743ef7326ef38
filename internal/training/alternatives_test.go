package training

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_FindAlternativeVariations(t *testing.T) {
	rules := DefaultRules()
	catalog := testCatalog()

	_, current, ok := FindVariation(catalog, "push-up-standard")
	require.True(t, ok)

	alternatives := rules.FindAlternativeVariations(current, catalog, PhaseWorkout)
	require.Len(t, alternatives, 2)
	// full overlap beats partial overlap
	assert.Equal(t, "dip-parallel", alternatives[0].VariationID)
	assert.Equal(t, "dip-bench", alternatives[1].VariationID)
	for _, alt := range alternatives {
		assert.NotEqual(t, "push-up", alt.ExerciseID)
		assert.Nil(t, alt.Sets)
		assert.Nil(t, alt.Reps)
	}

	// warm-up bounds drop the harder dip
	alternatives = rules.FindAlternativeVariations(current, catalog, PhaseWarmup)
	require.Len(t, alternatives, 1)
	assert.Equal(t, "dip-bench", alternatives[0].VariationID)
}

func TestRules_FindAlternativeVariations_NoOverlap(t *testing.T) {
	rules := DefaultRules()
	current := variation("curl", 4, "strength", "bilateral", []string{"biceps"})

	catalog := []Exercise{
		exercise("squat", "Weights",
			variation("squat-goblet", 4, "strength", "bilateral", []string{"quads", "glutes"}),
		),
		exercise("calf-raise", "Weights",
			variation("calf-raise-standing", 3, "strength", "bilateral", []string{"calves"}),
		),
	}

	assert.Empty(t, rules.FindAlternativeVariations(current, catalog, PhaseWorkout))
}

func TestRules_FindAlternativeVariations_ScoringAndLimit(t *testing.T) {
	rules := DefaultRules()
	current := variation("row-db", 4, "strength", "unilateral", []string{"lats", "back"}, "biceps")

	catalog := []Exercise{
		exercise("row", "Weights",
			current,
			variation("row-bb", 6, "strength", "bilateral", []string{"lats", "back"}, "biceps"),
		),
		// same muscles and same movement: lowest difference
		exercise("row-clone", "Weights",
			variation("row-clone-db", 4, "strength", "unilateral", []string{"lats", "back"}, "biceps"),
		),
		// same muscles, every biomechanical trait differs
		exercise("pull-up", "Calisthenics",
			variation("pull-up-standard", 6, "power", "bilateral", []string{"lats", "back"}, "biceps"),
		),
		// two thirds overlap, bilaterality differs
		exercise("face-pull", "Weights",
			variation("face-pull-cable", 4, "strength", "bilateral", []string{"back", "rear delts"}, "biceps"),
		),
		// full overlap, only difficulty differs, first in catalog order
		exercise("seal-row", "Weights",
			variation("seal-row-db", 5, "strength", "unilateral", []string{"lats", "back"}, "biceps"),
		),
		exercise("chest-row", "Weights",
			variation("chest-row-db", 5, "strength", "unilateral", []string{"lats", "back"}, "biceps"),
		),
	}

	alternatives := rules.FindAlternativeVariations(current, catalog, PhaseWorkout)
	require.Len(t, alternatives, MaxAlternatives)

	assert.Equal(t, "pull-up-standard", alternatives[0].VariationID)
	// equal scores keep the catalog order
	assert.Equal(t, "seal-row-db", alternatives[1].VariationID)
	assert.Equal(t, "chest-row-db", alternatives[2].VariationID)
}

func TestMuscleOverlap(t *testing.T) {
	a := lowerSet([]string{"Chest", "triceps", "front delts"})
	b := lowerSet([]string{"chest", "Triceps"})

	assert.InDelta(t, 2.0/3.0, muscleOverlap(a, b), 0.0001)
	assert.InDelta(t, 1.0, muscleOverlap(a, a), 0.0001)
	assert.Equal(t, 0.0, muscleOverlap(a, lowerSet([]string{"quads"})))
	assert.Equal(t, 0.0, muscleOverlap(map[string]bool{}, map[string]bool{}))
}

func TestBiomechanicalDifference(t *testing.T) {
	base := variation("a", 4, "strength", "bilateral", nil)

	assert.Equal(t, 0.0, biomechanicalDifference(base, variation("b", 4, "Strength", "Bilateral", nil)))
	assert.Equal(t, 2.0, biomechanicalDifference(base, variation("b", 4, "strength", "unilateral", nil)))
	assert.Equal(t, 1.0, biomechanicalDifference(base, variation("b", 4, "power", "bilateral", nil)))
	// binary, not scaled by the gap
	assert.Equal(t, 1.0, biomechanicalDifference(base, variation("b", 9, "strength", "bilateral", nil)))
	assert.Equal(t, 4.0, biomechanicalDifference(base, variation("b", 4.5, "power", "unilateral", nil)))
}

func TestGenerator_FindAlternatives(t *testing.T) {
	generator := NewGenerator(
		catalogFunc(func(context.Context) ([]Exercise, error) {
			return testCatalog(), nil
		}),
		newTestAssembler(1),
	)

	alternatives, err := generator.FindAlternatives(context.Background(), "push-up-standard", PhaseWorkout)
	require.NoError(t, err)
	assert.Len(t, alternatives, 2)

	alternatives, err = generator.FindAlternatives(context.Background(), "nope", PhaseWorkout)
	require.ErrorIs(t, err, ErrVariationNotFound)
	assert.Nil(t, alternatives)
}
