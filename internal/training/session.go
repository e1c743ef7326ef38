package training

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/regain/internal/telemetry/tracing"
)

// CatalogProvider gives read-only access to the exercise catalog.
type CatalogProvider interface {
	Exercises(ctx context.Context) ([]Exercise, error)
}

type SessionRequest struct {
	Discipline string
	Framework  string
	// User is optional; its milestones, equipment and discomforts are used when set.
	User *UserProfile
	// PreviousSessions are ordered oldest first; the last one drives the variety constraint.
	PreviousSessions []SessionPlan
}

// Assembler builds sessions and weekly systems out of an already loaded catalog.
// It never mutates the catalog or the milestones it is given.
type Assembler struct {
	rules    Rules
	observer StageObserver
	now      func() time.Time
	newID    func() string

	randMu sync.Mutex
	rand   *rand.Rand
}

type AssemblerOption func(*Assembler)

// WithRand sets the randomness source used to pick exercises, e.g. a seeded one in tests.
func WithRand(r *rand.Rand) AssemblerOption {
	return func(a *Assembler) {
		a.rand = r
	}
}

func WithStageObserver(observer StageObserver) AssemblerOption {
	return func(a *Assembler) {
		a.observer = observer
	}
}

func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

func WithIDGenerator(newID func() string) AssemblerOption {
	return func(a *Assembler) {
		a.newID = newID
	}
}

func NewAssembler(rules Rules, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		rules: rules,
		now:   time.Now,
		newID: uuid.NewString,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Rules() Rules {
	return a.rules
}

// AssembleSession generates one session (warm-up, workout, cool-down) out of the given catalog.
func (a *Assembler) AssembleSession(exercises []Exercise, req SessionRequest) (*SessionPlan, error) {
	if len(exercises) == 0 {
		return nil, ErrNoExercisesAvailable
	}

	byDiscipline := a.stage("discipline", FilterByDiscipline(exercises, req.Discipline), exercises)

	candidates := byDiscipline
	if req.Framework != "" {
		candidates = a.stage("framework", a.rules.FilterByFramework(byDiscipline, req.Framework), byDiscipline)
	}

	var milestones MilestoneMap
	var discomforts []string
	if req.User != nil {
		milestones = req.User.CurrentMilestones
		discomforts = req.User.Discomforts
		if len(req.User.Equipment) > 0 {
			candidates = FilterByEquipment(candidates, req.User.Equipment)
		}
		if len(req.User.Discomforts) > 0 {
			candidates = FilterByDiscomforts(candidates, req.User.Discomforts)
		}
	}

	if len(candidates) == 0 {
		return nil, &NoExercisesAfterFilteringError{
			Discipline:  req.Discipline,
			Framework:   req.Framework,
			Discomforts: discomforts,
		}
	}

	warmupCandidates := a.stage("phase:warmup", a.rules.FilterByPhase(candidates, PhaseWarmup), candidates)
	workoutCandidates := a.stage("phase:workout", a.rules.FilterByPhase(candidates, PhaseWorkout), candidates)
	cooldownCandidates := a.stage("phase:cooldown", a.rules.FilterByPhase(candidates, PhaseCooldown), candidates)

	recent := recentExerciseIDs(req.PreviousSessions)

	warmup := a.planItems(a.pick(warmupCandidates, a.rules.WarmupCount, recent), milestones, req.User)
	workout := a.planItems(a.pick(workoutCandidates, a.rules.WorkoutCount, recent), milestones, req.User)

	// cool-down only stretches what the workout actually trained
	linked := exercisesSharingMuscles(cooldownCandidates, workout)
	cooldown := a.planItems(a.pick(linked, a.rules.CooldownCount, recent), milestones, req.User)

	log.Debugf(
		"training: session [%s/%s] assembled: %d warmup, %d workout, %d cooldown",
		req.Discipline, req.Framework, len(warmup), len(workout), len(cooldown),
	)

	return &SessionPlan{
		Discipline: req.Discipline,
		Workout:    req.Framework,
		Phases: Phases{
			Warmup:   warmup,
			Workout:  workout,
			Cooldown: cooldown,
		},
		GeneratedAt: a.now(),
	}, nil
}

// pick applies the variety constraint and randomly takes up to count exercises.
// When too few exercises are left after dropping the recent ones, the full
// candidate list is used instead.
func (a *Assembler) pick(candidates []Exercise, count int, recent map[string]bool) []Exercise {
	if count <= 0 || len(candidates) == 0 {
		return []Exercise{}
	}

	pool := make([]Exercise, 0, len(candidates))
	for _, ex := range candidates {
		if !recent[ex.ID] {
			pool = append(pool, ex)
		}
	}
	if len(pool) < count {
		pool = make([]Exercise, len(candidates))
		copy(pool, candidates)
	}

	a.shuffle(pool)

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

func (a *Assembler) shuffle(exercises []Exercise) {
	a.randMu.Lock()
	defer a.randMu.Unlock()
	a.rand.Shuffle(len(exercises), func(i, j int) {
		exercises[i], exercises[j] = exercises[j], exercises[i]
	})
}

func (a *Assembler) planItems(exercises []Exercise, milestones MilestoneMap, user *UserProfile) []PlanItem {
	items := make([]PlanItem, 0, len(exercises))
	for _, ex := range exercises {
		variation := SelectVariationForUser(ex, milestones, user)
		if variation == nil {
			log.Debugf("training: exercise [%s] has no variations, skipping", ex.ID)
			continue
		}
		items = append(items, NewPlanItem(ex, *variation))
	}
	return items
}

func recentExerciseIDs(previous []SessionPlan) map[string]bool {
	recent := make(map[string]bool)
	if len(previous) == 0 {
		return recent
	}
	for _, id := range previous[len(previous)-1].ExerciseIDs() {
		recent[id] = true
	}
	return recent
}

func exercisesSharingMuscles(candidates []Exercise, workout []PlanItem) []Exercise {
	trained := make(map[string]bool)
	for _, item := range workout {
		for _, m := range item.TargetMuscles.All() {
			trained[strings.ToLower(strings.TrimSpace(m))] = true
		}
	}

	linked := make([]Exercise, 0, len(candidates))
	for _, ex := range candidates {
		if anyVariation(ex, func(v Variation) bool {
			return containsAnyFold(trained, v.TargetMuscles.All())
		}) {
			linked = append(linked, ex)
		}
	}
	return linked
}

// Generator is the entry point of plan generation: it loads the catalog and
// hands it to the assembler.
type Generator struct {
	catalog   CatalogProvider
	assembler *Assembler
}

func NewGenerator(catalog CatalogProvider, assembler *Assembler) *Generator {
	return &Generator{
		catalog:   catalog,
		assembler: assembler,
	}
}

func (g *Generator) Assembler() *Assembler {
	return g.assembler
}

func (g *Generator) GenerateSession(ctx context.Context, req SessionRequest) (_ *SessionPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "training.generate_session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("discipline", req.Discipline))
	span.SetAttributes(attribute.String("framework", req.Framework))

	exercises, err := g.catalog.Exercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return g.assembler.AssembleSession(exercises, req)
}
