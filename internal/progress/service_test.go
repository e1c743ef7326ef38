package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/regain/internal/store"
	"github.com/2beens/regain/internal/telemetry/metrics"
	"github.com/2beens/regain/internal/training"
)

type failingSaveStore struct {
	*store.MemoryStore
}

func (s failingSaveStore) SaveProfile(context.Context, string, training.UserProfile) error {
	return errors.New("disk full")
}

func workoutItem(exerciseID, variationID string) training.PlanItem {
	return training.PlanItem{ExerciseID: exerciseID, VariationID: variationID}
}

func completedPlan(items ...training.PlanItem) training.SessionPlan {
	return training.SessionPlan{
		Discipline: "Pilates",
		Workout:    "Full Body",
		Phases: training.Phases{
			Warmup:   []training.PlanItem{workoutItem("ex-cat-cow", "var-cat-cow")},
			Workout:  items,
			Cooldown: []training.PlanItem{workoutItem("ex-child-pose", "var-child-pose")},
		},
	}
}

func newTestService(t *testing.T, profile training.UserProfile) (*Service, *store.MemoryStore, *metrics.Manager) {
	t.Helper()
	memStore := store.NewMemoryStore()
	require.NoError(t, memStore.SaveProfile(context.Background(), profile.UserID, profile))

	metricsManager := metrics.NewTestManager()
	s := NewService(memStore, metricsManager)
	s.now = func() time.Time {
		return time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	}
	return s, memStore, metricsManager
}

func TestService_CompleteSession(t *testing.T) {
	profile := training.UserProfile{
		UserID: "user-1",
		Role:   training.RoleAthlete,
		CurrentMilestones: training.MilestoneMap{
			"ex-squat": {"var-air-squat": 1},
		},
	}
	s, memStore, metricsManager := newTestService(t, profile)

	plan := completedPlan(
		workoutItem("ex-squat", "var-air-squat"),
		workoutItem("ex-plank", "var-forearm-plank"),
		workoutItem("ex-squat", "var-air-squat"),
	)

	milestones, err := s.CompleteSession(context.Background(), "user-1", plan)
	require.NoError(t, err)

	assert.Equal(t, 2, milestones.Count("ex-squat", "var-air-squat"))
	assert.Equal(t, 1, milestones.Count("ex-plank", "var-forearm-plank"))
	// warmup and cooldown are not tracked
	assert.Zero(t, milestones.Count("ex-cat-cow", "var-cat-cow"))
	assert.Zero(t, milestones.Count("ex-child-pose", "var-child-pose"))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterMilestoneUpdates))

	stored, err := memStore.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, milestones, stored.CurrentMilestones)
	assert.Equal(t, time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC), stored.UpdatedAt)
}

func TestService_CompleteSession_SaturatesAtOverloadPeriod(t *testing.T) {
	profile := training.UserProfile{
		UserID:            "user-1",
		Role:              training.RoleAthlete,
		CurrentMilestones: training.MilestoneMap{},
	}
	s, _, _ := newTestService(t, profile)
	plan := completedPlan(workoutItem("ex-squat", "var-air-squat"))

	var milestones training.MilestoneMap
	var err error
	for i := 0; i < training.OverloadPeriodSessions+2; i++ {
		milestones, err = s.CompleteSession(context.Background(), "user-1", plan)
		require.NoError(t, err)
	}

	assert.Equal(t, training.OverloadPeriodSessions, milestones.Count("ex-squat", "var-air-squat"))
	assert.True(t, training.IsMilestoneAchieved("ex-squat", "var-air-squat", milestones))
}

func TestService_CompleteSession_Errors(t *testing.T) {
	profile := training.UserProfile{UserID: "user-1", Role: training.RoleAthlete}
	s, memStore, _ := newTestService(t, profile)

	_, err := s.CompleteSession(context.Background(), "user-1", completedPlan())
	require.ErrorIs(t, err, ErrEmptySession)

	_, err = s.CompleteSession(context.Background(), "ghost", completedPlan(workoutItem("ex-squat", "var-air-squat")))
	require.ErrorIs(t, err, store.ErrNotFound)

	s.profiles = failingSaveStore{MemoryStore: memStore}
	_, err = s.CompleteSession(context.Background(), "user-1", completedPlan(workoutItem("ex-squat", "var-air-squat")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	stored, err := memStore.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, stored.CurrentMilestones.Count("ex-squat", "var-air-squat"))
}

// slowStore widens the window between load and save so lost updates show up.
type slowStore struct {
	*store.MemoryStore
}

func (s slowStore) GetProfile(ctx context.Context, userID string) (*training.UserProfile, error) {
	profile, err := s.MemoryStore.GetProfile(ctx, userID)
	time.Sleep(2 * time.Millisecond)
	return profile, err
}

func TestService_CompleteSession_ConcurrentSameUser(t *testing.T) {
	profile := training.UserProfile{
		UserID:            "user-1",
		Role:              training.RoleAthlete,
		CurrentMilestones: training.MilestoneMap{},
	}
	s, memStore, _ := newTestService(t, profile)
	s.profiles = slowStore{MemoryStore: memStore}

	const sessions = 20
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plan := completedPlan(
				workoutItem("ex-squat", "var-air-squat"),
				workoutItem(fmt.Sprintf("ex-%d", i), fmt.Sprintf("var-%d", i)),
			)
			_, err := s.CompleteSession(context.Background(), "user-1", plan)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := memStore.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	for i := 0; i < sessions; i++ {
		assert.Equal(t, 1, stored.CurrentMilestones.Count(fmt.Sprintf("ex-%d", i), fmt.Sprintf("var-%d", i)), "session %d lost", i)
	}
	assert.Equal(t, training.OverloadPeriodSessions, stored.CurrentMilestones.Count("ex-squat", "var-air-squat"))
}

func TestService_CompleteSession_OtherUsersNotBlocked(t *testing.T) {
	profile := training.UserProfile{UserID: "user-1", Role: training.RoleAthlete}
	s, memStore, _ := newTestService(t, profile)
	require.NoError(t, memStore.SaveProfile(context.Background(), "user-2", training.UserProfile{UserID: "user-2", Role: training.RoleAthlete}))

	unlock := s.lockUser("user-1")
	done := make(chan error, 1)
	go func() {
		_, err := s.CompleteSession(context.Background(), "user-2", completedPlan(workoutItem("ex-squat", "var-air-squat")))
		done <- err
	}()

	if userLockStripe("user-1") == userLockStripe("user-2") {
		unlock()
		require.NoError(t, <-done)
		return
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("user-2 completion blocked by user-1 lock")
	}
	unlock()
}
