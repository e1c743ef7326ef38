package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/regain/internal/store"
	"github.com/2beens/regain/internal/telemetry/metrics"
	"github.com/2beens/regain/internal/telemetry/tracing"
	"github.com/2beens/regain/internal/training"
	"github.com/2beens/regain/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=plans_test

type planGenerator interface {
	GenerateSession(ctx context.Context, req training.SessionRequest) (*training.SessionPlan, error)
	GenerateWeeklySystem(ctx context.Context, profile training.UserProfile, cfg training.WeekConfig) (*training.WeeklySystem, error)
	FindAlternatives(ctx context.Context, variationID string, phase training.Phase) ([]training.PlanItem, error)
}

type exercisesProvider interface {
	Exercises(ctx context.Context) ([]training.Exercise, error)
}

type sessionCompleter interface {
	CompleteSession(ctx context.Context, userID string, plan training.SessionPlan) (training.MilestoneMap, error)
}

type SessionPlanRequest struct {
	UserID           string                 `json:"userId"`
	Discipline       string                 `json:"discipline"`
	Framework        string                 `json:"framework"`
	PreviousSessions []training.SessionPlan `json:"previousSessions"`
}

type WeeklyPlanRequest struct {
	UserID      string `json:"userId"`
	DaysPerWeek int    `json:"daysPerWeek"`
	Framework   string `json:"framework"`
	StartDate   string `json:"startDate"`
}

type AlternativesRequest struct {
	VariationID string         `json:"variationId"`
	Phase       training.Phase `json:"phase"`
}

type AlternativesResponse struct {
	VariationID  string              `json:"variationId"`
	Alternatives []training.PlanItem `json:"alternatives"`
}

type ExercisesResponse struct {
	Exercises []training.Exercise `json:"exercises"`
	Total     int                 `json:"total"`
}

type CompleteSessionResponse struct {
	UserID     string                `json:"userId"`
	Milestones training.MilestoneMap `json:"milestones"`
}

type Handler struct {
	generator planGenerator
	catalog   exercisesProvider
	completer sessionCompleter
	store     store.Store
	rules     training.Rules
	metrics   *metrics.Manager
	now       func() time.Time

	alternativesCache *AlternativesCache
}

type NewHandlerParams struct {
	Generator planGenerator
	Catalog   exercisesProvider
	Completer sessionCompleter
	Store     store.Store
	Rules     training.Rules
	Metrics   *metrics.Manager
	// AlternativesCache is optional, nil disables caching.
	AlternativesCache *AlternativesCache
}

func NewHandler(params NewHandlerParams) *Handler {
	return &Handler{
		generator: params.Generator,
		catalog:   params.Catalog,
		completer: params.Completer,
		store:     params.Store,
		rules:     params.Rules,
		metrics:   params.Metrics,
		now:       time.Now,

		alternativesCache: params.AlternativesCache,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, plansRouter *mux.Router) {
	router.HandleFunc("/catalog/exercises", handler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	router.HandleFunc("/users/{id}/profile", handler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	router.HandleFunc("/users/{id}/profile", handler.HandlePutProfile).Methods("PUT", "OPTIONS").Name("put-profile")
	router.HandleFunc("/users/{id}/training-system", handler.HandleGetTrainingSystem).Methods("GET", "OPTIONS").Name("get-training-system")
	router.HandleFunc("/users/{id}/sessions/complete", handler.HandleCompleteSession).Methods("POST", "OPTIONS").Name("complete-session")

	plansRouter.HandleFunc("/session", handler.HandleGenerateSession).Methods("POST", "OPTIONS").Name("generate-session")
	plansRouter.HandleFunc("/weekly", handler.HandleGenerateWeekly).Methods("POST", "OPTIONS").Name("generate-weekly")
	plansRouter.HandleFunc("/alternatives", handler.HandleAlternatives).Methods("POST", "OPTIONS").Name("find-alternatives")
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	exercises, err := handler.catalog.Exercises(ctx)
	if err != nil {
		log.Errorf("list exercises: %s", err)
		writeError(w, err)
		return
	}

	if discipline := r.URL.Query().Get("discipline"); discipline != "" {
		exercises = training.FilterByDiscipline(exercises, discipline)
	}
	if exercises == nil {
		exercises = []training.Exercise{}
	}

	pkg.WriteJSON(w, ExercisesResponse{
		Exercises: exercises,
		Total:     len(exercises),
	}, http.StatusOK)
}

func (handler *Handler) HandleGenerateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.session")
	defer span.End()

	var req SessionPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Tracef("generate session, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Discipline == "" {
		http.Error(w, "error, discipline empty", http.StatusBadRequest)
		return
	}

	sessionReq := training.SessionRequest{
		Discipline:       req.Discipline,
		Framework:        req.Framework,
		PreviousSessions: req.PreviousSessions,
	}
	if req.UserID != "" {
		profile, err := handler.store.GetProfile(ctx, req.UserID)
		if err != nil {
			log.Errorf("generate session, get profile [%s]: %s", req.UserID, err)
			writeError(w, err)
			return
		}
		sessionReq.User = profile
	}

	start := handler.now()
	plan, err := handler.generator.GenerateSession(ctx, sessionReq)
	handler.observeGeneration("session", start, err)
	if err != nil {
		log.Errorf("generate session [%s/%s]: %s", req.Discipline, req.Framework, err)
		writeError(w, err)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterSessionsGenerated.Inc()
	}
	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (handler *Handler) HandleGenerateWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.weekly")
	defer span.End()

	var req WeeklyPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Tracef("generate weekly, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	profile, err := handler.store.GetProfile(ctx, req.UserID)
	if err != nil {
		log.Errorf("generate weekly, get profile [%s]: %s", req.UserID, err)
		writeError(w, err)
		return
	}

	start := handler.now()
	system, err := handler.generator.GenerateWeeklySystem(ctx, handler.rules.NormalizeProfile(*profile), training.WeekConfig{
		DaysPerWeek: req.DaysPerWeek,
		Framework:   req.Framework,
		StartDate:   req.StartDate,
	})
	handler.observeGeneration("weekly", start, err)
	if err != nil {
		log.Errorf("generate weekly [%s]: %s", req.UserID, err)
		writeError(w, err)
		return
	}

	if err := handler.store.SaveTrainingSystem(ctx, req.UserID, *system); err != nil {
		log.Errorf("save training system [%s]: %s", req.UserID, err)
		http.Error(w, "error, failed to save training system", http.StatusInternalServerError)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterWeeklyGenerated.Inc()
	}
	log.Debugf("weekly system [%s] saved for user [%s]", system.ID, req.UserID)
	pkg.WriteJSON(w, system, http.StatusCreated)
}

func (handler *Handler) HandleAlternatives(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.alternatives")
	defer span.End()

	var req AlternativesRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Tracef("alternatives, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.VariationID == "" {
		http.Error(w, "error, variation id empty", http.StatusBadRequest)
		return
	}

	if handler.alternativesCache != nil {
		if cached, ok := handler.alternativesCache.Get(req.VariationID, req.Phase); ok {
			log.Tracef("alternatives for [%s] found in cache", req.VariationID)
			pkg.WriteJSON(w, AlternativesResponse{
				VariationID:  req.VariationID,
				Alternatives: cached,
			}, http.StatusOK)
			return
		}
	}

	alternatives, err := handler.generator.FindAlternatives(ctx, req.VariationID, req.Phase)
	if err != nil {
		log.Errorf("find alternatives [%s]: %s", req.VariationID, err)
		writeError(w, err)
		return
	}
	if alternatives == nil {
		alternatives = []training.PlanItem{}
	}
	if handler.alternativesCache != nil {
		handler.alternativesCache.Set(req.VariationID, req.Phase, alternatives)
	}

	pkg.WriteJSON(w, AlternativesResponse{
		VariationID:  req.VariationID,
		Alternatives: alternatives,
	}, http.StatusOK)
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get_profile")
	defer span.End()

	userID := mux.Vars(r)["id"]
	profile, err := handler.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Errorf("get profile [%s]: %s", userID, err)
		}
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, profile, http.StatusOK)
}

func (handler *Handler) HandlePutProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.put_profile")
	defer span.End()

	userID := mux.Vars(r)["id"]

	var profile training.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		log.Tracef("put profile, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if profile.UserID == "" {
		profile.UserID = userID
	}
	if profile.UserID != userID {
		http.Error(w, "error, user id mismatch", http.StatusBadRequest)
		return
	}
	if profile.Role == "" {
		profile.Role = training.RoleAthlete
	}
	profile = handler.rules.NormalizeProfile(profile)
	if err := handler.rules.ValidateProfile(profile); err != nil {
		writeError(w, err)
		return
	}
	if profile.CurrentMilestones == nil {
		profile.CurrentMilestones = training.MilestoneMap{}
	}
	profile.UpdatedAt = handler.now().UTC()

	if err := handler.store.SaveProfile(ctx, userID, profile); err != nil {
		log.Errorf("save profile [%s]: %s", userID, err)
		http.Error(w, "error, failed to save profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, profile, http.StatusOK)
}

func (handler *Handler) HandleGetTrainingSystem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get_training_system")
	defer span.End()

	userID := mux.Vars(r)["id"]
	system, err := handler.store.GetTrainingSystem(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Errorf("get training system [%s]: %s", userID, err)
		}
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, system, http.StatusOK)
}

func (handler *Handler) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.complete_session")
	defer span.End()

	userID := mux.Vars(r)["id"]

	var plan training.SessionPlan
	if err := decodeJSON(r, &plan); err != nil {
		log.Tracef("complete session, unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	milestones, err := handler.completer.CompleteSession(ctx, userID, plan)
	if err != nil {
		log.Errorf("complete session [%s]: %s", userID, err)
		writeError(w, err)
		return
	}

	pkg.WriteJSON(w, CompleteSessionResponse{
		UserID:     userID,
		Milestones: milestones,
	}, http.StatusOK)
}

func (handler *Handler) observeGeneration(kind string, start time.Time, err error) {
	if handler.metrics == nil {
		return
	}
	handler.metrics.HistogramGenerationDuration.WithLabelValues(kind).Observe(handler.now().Sub(start).Seconds())
	if err != nil {
		_, reason := classifyError(err)
		handler.metrics.CounterGenerationFailures.WithLabelValues(reason).Inc()
	}
}

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dest)
}

// StageMetricsObserver counts the filtering stage outcomes of plan generation.
func StageMetricsObserver(metricsManager *metrics.Manager) training.StageObserver {
	return func(res training.StageResult) {
		metricsManager.CounterStageFallbacks.WithLabelValues(res.Stage, res.Outcome.String()).Inc()
	}
}
