package training

import (
	"sort"
	"time"
)

// OverloadPeriodSessions is the number of sessions a variation must be
// performed before the next harder variation becomes eligible.
const OverloadPeriodSessions = 3

type Phase string

const (
	PhaseWarmup   Phase = "warmup"
	PhaseWorkout  Phase = "workout"
	PhaseCooldown Phase = "cooldown"
)

func (p Phase) String() string {
	return string(p)
}

type TargetMuscles struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

// All returns primary and secondary muscles together.
func (tm TargetMuscles) All() []string {
	all := make([]string, 0, len(tm.Primary)+len(tm.Secondary))
	all = append(all, tm.Primary...)
	all = append(all, tm.Secondary...)
	return all
}

type Variation struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	DifficultyScore float64       `json:"difficulty_score"`
	ProgressionType string        `json:"progression_type"`
	Bilaterality    string        `json:"bilaterality"`
	TargetMuscles   TargetMuscles `json:"target_muscles"`
	TechniqueCues   []string      `json:"technique_cues"`
}

type Exercise struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Discipline string      `json:"discipline"`
	Variations []Variation `json:"variations"`
}

// GetVariationsForExercise returns the exercise variations ordered by difficulty,
// keeping the catalog order for equal scores.
func GetVariationsForExercise(exercise Exercise) []Variation {
	variations := make([]Variation, len(exercise.Variations))
	copy(variations, exercise.Variations)
	sort.SliceStable(variations, func(i, j int) bool {
		return variations[i].DifficultyScore < variations[j].DifficultyScore
	})
	return variations
}

// MilestoneMap holds, per exercise ID and variation ID, the number of sessions
// logged against that variation.
type MilestoneMap map[string]map[string]int

// Count returns the recorded session count, 0 when nothing was recorded.
func (m MilestoneMap) Count(exerciseID, variationID string) int {
	if m == nil {
		return 0
	}
	return m[exerciseID][variationID]
}

// Clone returns a deep copy of the map.
func (m MilestoneMap) Clone() MilestoneMap {
	clone := make(MilestoneMap, len(m))
	for exerciseID, variations := range m {
		vc := make(map[string]int, len(variations))
		for variationID, count := range variations {
			vc[variationID] = count
		}
		clone[exerciseID] = vc
	}
	return clone
}

type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAthlete, RoleCoach:
		return true
	default:
		return false
	}
}

type UserProfile struct {
	UserID               string       `json:"userId"`
	Role                 Role         `json:"role"`
	CurrentMilestones    MilestoneMap `json:"currentMilestones"`
	Goals                []string     `json:"goals"`
	Equipment            []string     `json:"equipment"`
	Discomforts          []string     `json:"discomforts"`
	PreferredDisciplines []string     `json:"preferredDisciplines"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// PlanItem is a snapshot of one exercise variation inside a generated plan.
// Weight, Sets and Reps stay nil until the athlete fills them in.
type PlanItem struct {
	ExerciseID      string        `json:"exerciseId"`
	ExerciseName    string        `json:"exerciseName"`
	VariationID     string        `json:"variationId"`
	VariationName   string        `json:"variationName"`
	DifficultyScore float64       `json:"difficulty_score"`
	Weight          *float64      `json:"weight"`
	Bilaterality    string        `json:"bilaterality"`
	ProgressionType string        `json:"progression_type"`
	TargetMuscles   TargetMuscles `json:"target_muscles"`
	TechniqueCues   []string      `json:"technique_cues"`
	Sets            *int          `json:"sets"`
	Reps            *int          `json:"reps"`
}

func NewPlanItem(exercise Exercise, variation Variation) PlanItem {
	return PlanItem{
		ExerciseID:      exercise.ID,
		ExerciseName:    exercise.Name,
		VariationID:     variation.ID,
		VariationName:   variation.Name,
		DifficultyScore: variation.DifficultyScore,
		Bilaterality:    variation.Bilaterality,
		ProgressionType: variation.ProgressionType,
		TargetMuscles:   variation.TargetMuscles,
		TechniqueCues:   variation.TechniqueCues,
	}
}

type Phases struct {
	Warmup   []PlanItem `json:"warmup"`
	Workout  []PlanItem `json:"workout"`
	Cooldown []PlanItem `json:"cooldown"`
}

type SessionPlan struct {
	Discipline  string    `json:"discipline"`
	Workout     string    `json:"workout"`
	Phases      Phases    `json:"phases"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ExerciseIDs returns the IDs of all exercises used in the plan, in phase order.
func (sp SessionPlan) ExerciseIDs() []string {
	var ids []string
	for _, items := range [][]PlanItem{sp.Phases.Warmup, sp.Phases.Workout, sp.Phases.Cooldown} {
		for _, item := range items {
			ids = append(ids, item.ExerciseID)
		}
	}
	return ids
}

type DaySession struct {
	Day        int       `json:"day"`
	Date       time.Time `json:"date"`
	Discipline string    `json:"discipline"`
	Workout    string    `json:"workout"`
	Phases     Phases    `json:"phases"`
	Editable   bool      `json:"editable"`
}

type WeeklySystem struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	StartDate   time.Time    `json:"startDate"`
	DaysPerWeek int          `json:"daysPerWeek"`
	Framework   string       `json:"framework"`
	Sessions    []DaySession `json:"sessions"`
	Editable    bool         `json:"editable"`
	CreatedAt   time.Time    `json:"createdAt"`
}
