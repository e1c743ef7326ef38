package training

import (
	"fmt"
	"strings"
	"time"
)

// PhaseCriteria describes which variations are suited for a session phase.
// Zero MinDifficulty means no lower bound.
type PhaseCriteria struct {
	MinDifficulty         float64
	MaxDifficulty         float64
	PreferredProgression  []string
	PreferredBilaterality string
}

// InBounds reports whether the difficulty score fits the phase bounds.
func (pc PhaseCriteria) InBounds(difficulty float64) bool {
	return difficulty >= pc.MinDifficulty && difficulty <= pc.MaxDifficulty
}

func (pc PhaseCriteria) prefersProgression(progressionType string) bool {
	for _, p := range pc.PreferredProgression {
		if strings.EqualFold(p, progressionType) {
			return true
		}
	}
	return false
}

// WeekConfig is the caller supplied weekly configuration. Zero fields are
// replaced by the rules defaults.
type WeekConfig struct {
	DaysPerWeek int    `json:"daysPerWeek" toml:"days_per_week"`
	Framework   string `json:"framework" toml:"framework"`
	// StartDate is the date of the first training day (YYYY-MM-DD). As a
	// default it pins every generated week to one date, empty means today.
	StartDate string `json:"startDate" toml:"start_date"`
}

// Rules is the static configuration the engine runs on.
type Rules struct {
	Disciplines       []string
	DefaultDiscipline string
	// FrameworkMuscles maps a single framework part (e.g. Push) to its muscles.
	FrameworkMuscles map[string][]string
	Phases           map[Phase]PhaseCriteria

	WarmupCount   int
	WorkoutCount  int
	CooldownCount int
	// VarietyWindow is how many previous sessions are handed to the session
	// assembler when building a week.
	VarietyWindow int

	DefaultWeek WeekConfig
}

func DefaultRules() Rules {
	return Rules{
		Disciplines: []string{
			"Pilates",
			"Animal Flow",
			"Weights",
			"Crossfit",
			"Calisthenics",
		},
		DefaultDiscipline: "Pilates",
		FrameworkMuscles: map[string][]string{
			"push":  {"chest", "shoulders", "triceps", "front delts"},
			"pull":  {"back", "lats", "biceps", "rear delts", "traps", "rhomboids"},
			"upper": {"chest", "back", "lats", "shoulders", "biceps", "triceps", "traps"},
			"lower": {"quads", "hamstrings", "glutes", "calves", "adductors", "hip flexors"},
			"legs":  {"quads", "hamstrings", "glutes", "calves", "adductors"},
			"chest": {"chest", "triceps", "front delts"},
			"back":  {"back", "lats", "rhomboids", "traps", "lower back", "biceps"},
			"core":  {"core", "abs", "obliques", "lower back", "transverse abdominis"},
			"full body": {
				"chest", "back", "lats", "shoulders", "biceps", "triceps",
				"quads", "hamstrings", "glutes", "calves", "core", "abs", "obliques",
			},
		},
		Phases: map[Phase]PhaseCriteria{
			PhaseWarmup: {
				MaxDifficulty:         3,
				PreferredProgression:  []string{"mobility", "activation", "stability"},
				PreferredBilaterality: "bilateral",
			},
			PhaseWorkout: {
				MinDifficulty: 3,
				MaxDifficulty: 8,
			},
			PhaseCooldown: {
				MaxDifficulty:        3,
				PreferredProgression: []string{"mobility", "flexibility", "stretch"},
			},
		},
		WarmupCount:   3,
		WorkoutCount:  5,
		CooldownCount: 3,
		VarietyWindow: 2,
		DefaultWeek: WeekConfig{
			DaysPerWeek: 3,
			Framework:   "Full Body",
		},
	}
}

// FrameworkParts splits a composite framework name, e.g. "Push/Pull".
func FrameworkParts(framework string) []string {
	var parts []string
	for _, p := range strings.Split(framework, "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// frameworkMuscleSet returns the lower-cased muscles of every known framework
// part. The bool is false when none of the parts is known.
func (r Rules) frameworkMuscleSet(framework string) (map[string]bool, bool) {
	muscles := make(map[string]bool)
	known := false
	for _, part := range FrameworkParts(framework) {
		partMuscles, ok := r.FrameworkMuscles[strings.ToLower(part)]
		if !ok {
			continue
		}
		known = true
		for _, m := range partMuscles {
			muscles[strings.ToLower(m)] = true
		}
	}
	return muscles, known
}

// CanonicalDiscipline returns the rules spelling of a discipline matched
// case-insensitively. Filters compare disciplines exactly, so user input goes
// through here first.
func (r Rules) CanonicalDiscipline(discipline string) (string, bool) {
	discipline = strings.TrimSpace(discipline)
	for _, d := range r.Disciplines {
		if strings.EqualFold(d, discipline) {
			return d, true
		}
	}
	return "", false
}

// IsKnownDiscipline reports whether the discipline is part of the rules, case-insensitive.
func (r Rules) IsKnownDiscipline(discipline string) bool {
	_, ok := r.CanonicalDiscipline(discipline)
	return ok
}

func (r Rules) Validate() error {
	if len(r.Disciplines) == 0 {
		return fmt.Errorf("rules: no disciplines")
	}
	if r.WarmupCount < 0 || r.WorkoutCount < 0 || r.CooldownCount < 0 {
		return fmt.Errorf("rules: negative phase counts")
	}
	for _, phase := range []Phase{PhaseWarmup, PhaseWorkout, PhaseCooldown} {
		pc, ok := r.Phases[phase]
		if !ok {
			return fmt.Errorf("rules: missing criteria for phase %s", phase)
		}
		if pc.MinDifficulty > pc.MaxDifficulty {
			return fmt.Errorf("rules: phase %s min difficulty above max", phase)
		}
	}
	if r.DefaultWeek.StartDate != "" {
		if _, err := time.Parse(dateLayout, r.DefaultWeek.StartDate); err != nil {
			return fmt.Errorf("rules: default week start date [%s]: %w", r.DefaultWeek.StartDate, err)
		}
	}
	return nil
}
