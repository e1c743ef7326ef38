package training

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/regain/internal/telemetry/tracing"
)

const (
	WeeklySystemType = "weekly"
	MaxDaysPerWeek   = 7
	dateLayout       = "2006-01-02"
)

var ErrInvalidWeekConfig = errors.New("invalid week config")

// mergeWeekConfig applies the caller supplied fields over the defaults and
// resolves the start date.
func (a *Assembler) mergeWeekConfig(cfg WeekConfig) (WeekConfig, time.Time, error) {
	merged := a.rules.DefaultWeek
	if cfg.DaysPerWeek != 0 {
		merged.DaysPerWeek = cfg.DaysPerWeek
	}
	if cfg.Framework != "" {
		merged.Framework = cfg.Framework
	}
	if cfg.StartDate != "" {
		merged.StartDate = cfg.StartDate
	}

	if merged.DaysPerWeek < 1 || merged.DaysPerWeek > MaxDaysPerWeek {
		return WeekConfig{}, time.Time{}, fmt.Errorf("%w: days per week must be in [1, %d], got %d", ErrInvalidWeekConfig, MaxDaysPerWeek, merged.DaysPerWeek)
	}

	startDate := a.now().UTC().Truncate(24 * time.Hour)
	if merged.StartDate != "" {
		parsed, err := time.Parse(dateLayout, merged.StartDate)
		if err != nil {
			return WeekConfig{}, time.Time{}, fmt.Errorf("%w: start date [%s]: %s", ErrInvalidWeekConfig, merged.StartDate, err)
		}
		startDate = parsed
	}
	merged.StartDate = startDate.Format(dateLayout)

	return merged, startDate, nil
}

// FrameworkAssignment returns the workout of every training day for the framework.
// Two-part splits alternate, three-part splits rotate, anything else is used as is.
func FrameworkAssignment(framework string, days int) []string {
	var cycle []string
	switch strings.ToLower(framework) {
	case "push/pull":
		cycle = []string{"Push", "Pull"}
	case "upper/lower":
		cycle = []string{"Upper", "Lower"}
	case "chest/back/legs":
		cycle = []string{"Chest", "Back", "Legs"}
	case "push/pull/legs":
		cycle = []string{"Push", "Pull", "Legs"}
	default:
		cycle = []string{framework}
	}

	assignment := make([]string, days)
	for i := range assignment {
		assignment[i] = cycle[i%len(cycle)]
	}
	return assignment
}

// DisciplineAssignment spreads the disciplines over the days, each day taking
// the discipline used the least so far. Ties go to the earlier discipline.
func DisciplineAssignment(disciplines []string, days int) []string {
	unique := make([]string, 0, len(disciplines))
	seen := make(map[string]bool)
	for _, d := range disciplines {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}
	if len(unique) == 0 {
		return nil
	}

	counts := make(map[string]int, len(unique))
	assignment := make([]string, days)
	for i := range assignment {
		best := unique[0]
		for _, d := range unique[1:] {
			if counts[d] < counts[best] {
				best = d
			}
		}
		counts[best]++
		assignment[i] = best
	}
	return assignment
}

// AssembleWeeklySystem builds a week of sessions for the profile. The profile
// milestones are only read: advancing them happens when a session is completed.
func (a *Assembler) AssembleWeeklySystem(exercises []Exercise, profile UserProfile, cfg WeekConfig) (*WeeklySystem, error) {
	week, startDate, err := a.mergeWeekConfig(cfg)
	if err != nil {
		return nil, err
	}

	disciplines := profile.PreferredDisciplines
	if len(disciplines) == 0 {
		disciplines = []string{a.rules.DefaultDiscipline}
	}

	available := FilterByDiscipline(exercises, disciplines...)
	if len(available) == 0 {
		return nil, fmt.Errorf("%w: disciplines %v", ErrNoExercisesFound, disciplines)
	}
	if len(profile.Equipment) > 0 {
		available = FilterByEquipment(available, profile.Equipment)
	}
	if len(profile.Discomforts) > 0 {
		available = FilterByDiscomforts(available, profile.Discomforts)
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("%w: disciplines %v after discomforts %v", ErrNoExercisesFound, disciplines, profile.Discomforts)
	}

	workouts := FrameworkAssignment(week.Framework, week.DaysPerWeek)
	dayDisciplines := DisciplineAssignment(disciplines, week.DaysPerWeek)

	sessions := make([]DaySession, 0, week.DaysPerWeek)
	generated := make([]SessionPlan, 0, week.DaysPerWeek)
	for i := 0; i < week.DaysPerWeek; i++ {
		window := generated
		if len(window) > a.rules.VarietyWindow {
			window = window[len(window)-a.rules.VarietyWindow:]
		}

		plan, err := a.AssembleSession(exercises, SessionRequest{
			Discipline:       dayDisciplines[i],
			Framework:        workouts[i],
			User:             &profile,
			PreviousSessions: window,
		})
		if err != nil {
			return nil, fmt.Errorf("day %d [%s/%s]: %w", i+1, dayDisciplines[i], workouts[i], err)
		}
		generated = append(generated, *plan)

		sessions = append(sessions, DaySession{
			Day:        i + 1,
			Date:       startDate.AddDate(0, 0, i),
			Discipline: dayDisciplines[i],
			Workout:    workouts[i],
			Phases:     plan.Phases,
			Editable:   true,
		})
	}

	log.Debugf("training: weekly system [%s] assembled with %d days", week.Framework, len(sessions))

	return &WeeklySystem{
		ID:          a.newID(),
		Type:        WeeklySystemType,
		StartDate:   startDate,
		DaysPerWeek: week.DaysPerWeek,
		Framework:   week.Framework,
		Sessions:    sessions,
		Editable:    true,
		CreatedAt:   a.now(),
	}, nil
}

func (g *Generator) GenerateWeeklySystem(ctx context.Context, profile UserProfile, cfg WeekConfig) (_ *WeeklySystem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "training.generate_weekly_system")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", profile.UserID))
	span.SetAttributes(attribute.String("framework", cfg.Framework))
	span.SetAttributes(attribute.Int("days_per_week", cfg.DaysPerWeek))

	exercises, err := g.catalog.Exercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return g.assembler.AssembleWeeklySystem(exercises, profile, cfg)
}
