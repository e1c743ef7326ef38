package training

import (
	"math/rand"
	"time"
)

var testNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func variation(id string, difficulty float64, progression, bilaterality string, primary []string, secondary ...string) Variation {
	return Variation{
		ID:              id,
		Name:            id,
		DifficultyScore: difficulty,
		ProgressionType: progression,
		Bilaterality:    bilaterality,
		TargetMuscles: TargetMuscles{
			Primary:   primary,
			Secondary: secondary,
		},
	}
}

func exercise(id, discipline string, variations ...Variation) Exercise {
	return Exercise{
		ID:         id,
		Name:       id,
		Discipline: discipline,
		Variations: variations,
	}
}

// testCatalog holds enough exercises for every phase of a Calisthenics session
// and a few Pilates ones.
func testCatalog() []Exercise {
	return []Exercise{
		exercise("push-up", "Calisthenics",
			variation("push-up-incline", 2.5, "strength", "bilateral", []string{"chest", "triceps"}, "front delts"),
			variation("push-up-standard", 4, "strength", "bilateral", []string{"chest", "triceps"}, "front delts"),
			variation("push-up-archer", 6.5, "strength", "unilateral", []string{"chest", "triceps"}, "shoulders"),
		),
		exercise("dip", "Calisthenics",
			variation("dip-bench", 3, "strength", "bilateral", []string{"triceps", "chest"}),
			variation("dip-parallel", 5.5, "strength", "bilateral", []string{"triceps", "chest"}, "front delts"),
		),
		exercise("pull-up", "Calisthenics",
			variation("pull-up-row", 3, "strength", "bilateral", []string{"back", "lats"}, "biceps"),
			variation("pull-up-standard", 6, "strength", "bilateral", []string{"lats", "back"}, "biceps"),
		),
		exercise("squat", "Calisthenics",
			variation("squat-air", 2, "mobility", "bilateral", []string{"quads", "glutes"}),
			variation("squat-split", 4.5, "strength", "unilateral", []string{"quads", "glutes"}, "hamstrings"),
			variation("squat-pistol", 7.5, "strength", "unilateral", []string{"quads", "glutes"}, "core"),
		),
		exercise("leg-raise", "Calisthenics",
			variation("leg-raise-knee", 3.5, "strength", "bilateral", []string{"abs", "hip flexors"}),
			variation("leg-raise-straight", 5.5, "strength", "bilateral", []string{"abs", "hip flexors"}, "obliques"),
		),
		exercise("lunge", "Calisthenics",
			variation("lunge-reverse", 3.5, "strength", "unilateral", []string{"quads", "glutes"}),
		),
		exercise("arm-circles", "Calisthenics",
			variation("arm-circles-basic", 1, "mobility", "bilateral", []string{"shoulders"}, "chest"),
		),
		exercise("scap-pull", "Calisthenics",
			variation("scap-pull-basic", 2, "activation", "bilateral", []string{"lats", "traps"}),
		),
		exercise("hamstring-stretch", "Calisthenics",
			variation("hamstring-stretch-basic", 1, "stretch", "bilateral", []string{"hamstrings"}, "calves"),
		),
		exercise("chest-opener", "Calisthenics",
			variation("chest-opener-basic", 1.5, "stretch", "unilateral", []string{"chest", "shoulders"}),
		),
		exercise("quad-stretch", "Calisthenics",
			variation("quad-stretch-basic", 1, "flexibility", "unilateral", []string{"quads", "hip flexors"}),
		),
		exercise("lat-stretch", "Calisthenics",
			variation("lat-stretch-basic", 1.5, "stretch", "bilateral", []string{"lats", "back"}),
		),
		exercise("hundred", "Pilates",
			variation("hundred-bent", 2, "activation", "bilateral", []string{"core", "abs"}),
			variation("hundred-extended", 5, "strength", "bilateral", []string{"core", "abs"}, "hip flexors"),
		),
		exercise("bridge", "Pilates",
			variation("bridge-basic", 2, "activation", "bilateral", []string{"glutes", "hamstrings"}, "lower back"),
			variation("bridge-single-leg", 4.5, "strength", "unilateral", []string{"glutes", "hamstrings"}),
		),
		exercise("spine-stretch", "Pilates",
			variation("spine-stretch-seated", 1.5, "stretch", "bilateral", []string{"lower back", "hamstrings"}),
		),
	}
}

func newTestAssembler(seed int64, opts ...AssemblerOption) *Assembler {
	defaults := []AssemblerOption{
		WithRand(rand.New(rand.NewSource(seed))),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return "system-id" }),
	}
	return NewAssembler(DefaultRules(), append(defaults, opts...)...)
}

func exerciseIDs(exercises []Exercise) []string {
	ids := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		ids = append(ids, ex.ID)
	}
	return ids
}

func planItemExerciseIDs(items []PlanItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ExerciseID)
	}
	return ids
}
