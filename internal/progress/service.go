package progress

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/regain/internal/store"
	"github.com/2beens/regain/internal/telemetry/metrics"
	"github.com/2beens/regain/internal/telemetry/tracing"
	"github.com/2beens/regain/internal/training"
)

var ErrEmptySession = errors.New("completed session has no workout exercises")

const userLockStripes = 64

// Service records completed sessions against the user milestones. Plan
// generation never advances milestones, only CompleteSession does.
//
// Completions of one user are serialised within this process. Instances
// sharing a store can still overwrite each other's milestone updates.
type Service struct {
	profiles  store.ProfileStore
	metrics   *metrics.Manager
	now       func() time.Time
	userLocks [userLockStripes]sync.Mutex
}

func NewService(profiles store.ProfileStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		profiles: profiles,
		metrics:  metricsManager,
		now:      time.Now,
	}
}

func (s *Service) CompleteSession(ctx context.Context, userID string, plan training.SessionPlan) (_ training.MilestoneMap, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.complete_session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	if len(plan.Phases.Workout) == 0 {
		return nil, ErrEmptySession
	}

	unlock := s.lockUser(userID)
	defer unlock()

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	milestones := profile.CurrentMilestones
	seen := make(map[[2]string]bool, len(plan.Phases.Workout))
	for _, item := range plan.Phases.Workout {
		pair := [2]string{item.ExerciseID, item.VariationID}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		milestones = training.UpdateMilestone(item.ExerciseID, item.VariationID, milestones)
		if training.IsMilestoneAchieved(item.ExerciseID, item.VariationID, milestones) {
			log.Debugf("progress: user [%s] completed overload period of [%s/%s]", userID, item.ExerciseID, item.VariationID)
		}
	}
	span.SetAttributes(attribute.Int("updated_pairs", len(seen)))

	profile.CurrentMilestones = milestones
	profile.UpdatedAt = s.now().UTC()
	if err := s.profiles.SaveProfile(ctx, userID, *profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterMilestoneUpdates.Add(float64(len(seen)))
	}

	return milestones, nil
}

// lockUser guards the load-modify-save of a user profile.
func (s *Service) lockUser(userID string) func() {
	mu := &s.userLocks[userLockStripe(userID)]
	mu.Lock()
	return mu.Unlock
}

func userLockStripe(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % userLockStripes
}
