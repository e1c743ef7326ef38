//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/regain/internal/plans"
	"github.com/2beens/regain/internal/training"
)

func (s *IntegrationTestSuite) doJSONRequest(ctx context.Context, method, path string, body, dest any) int {
	t := s.T()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, &reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if dest != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) TestProfileAndWeeklySystem() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	userID := "integration-user"

	var saved training.UserProfile
	status := s.doJSONRequest(ctx, http.MethodPut, fmt.Sprintf("/users/%s/profile", userID), training.UserProfile{
		PreferredDisciplines: []string{"Pilates", "Animal Flow"},
		Goals:                []string{"mobility"},
	}, &saved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, training.RoleAthlete, saved.Role)

	var storedRows int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_profile WHERE user_id = $1", userID,
	).Scan(&storedRows))
	assert.Equal(t, 1, storedRows)

	var system training.WeeklySystem
	status = s.doJSONRequest(ctx, http.MethodPost, "/plans/weekly", plans.WeeklyPlanRequest{
		UserID:    userID,
		StartDate: "2024-03-04",
	}, &system)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, system.Sessions, 3)
	assert.Equal(t, "Full Body", system.Framework)
	for i, session := range system.Sessions {
		assert.Equal(t, i+1, session.Day)
		assert.Equal(t, "Full Body", session.Workout)
		assert.True(t, session.Editable)
	}

	var storedSystemID string
	require.NoError(t, s.DB.QueryRowContext(ctx,
		"SELECT system_id FROM training_system WHERE user_id = $1", userID,
	).Scan(&storedSystemID))
	assert.Equal(t, system.ID, storedSystemID)

	completed := training.SessionPlan{
		Discipline: system.Sessions[0].Discipline,
		Workout:    system.Sessions[0].Workout,
		Phases:     system.Sessions[0].Phases,
	}
	var completion plans.CompleteSessionResponse
	status = s.doJSONRequest(ctx, http.MethodPost, fmt.Sprintf("/users/%s/sessions/complete", userID), completed, &completion)
	require.Equal(t, http.StatusOK, status)

	var fetched training.UserProfile
	status = s.doJSONRequest(ctx, http.MethodGet, fmt.Sprintf("/users/%s/profile", userID), nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	for _, item := range completed.Phases.Workout {
		assert.Equal(t, 1, fetched.CurrentMilestones.Count(item.ExerciseID, item.VariationID))
	}
}

func (s *IntegrationTestSuite) TestAlternatives() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	var resp plans.AlternativesResponse
	status := s.doJSONRequest(ctx, http.MethodPost, "/plans/alternatives", plans.AlternativesRequest{
		VariationID: "cal-push-up-standard",
		Phase:       training.PhaseWorkout,
	}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, resp.Alternatives)
	assert.LessOrEqual(t, len(resp.Alternatives), training.MaxAlternatives)
	for _, alt := range resp.Alternatives {
		assert.NotEqual(t, "cal-push-up", alt.ExerciseID)
	}

	status = s.doJSONRequest(ctx, http.MethodPost, "/plans/alternatives", plans.AlternativesRequest{
		VariationID: "does-not-exist",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// keep last, it eats the plans rate limit budget
func (s *IntegrationTestSuite) TestZRateLimit() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	require.NoError(t, s.redisClient.FlushAll(ctx).Err())

	limited := 0
	for i := 0; i < testRateSize+2; i++ {
		status := s.doJSONRequest(ctx, http.MethodPost, "/plans/session", plans.SessionPlanRequest{
			Discipline: "Crossfit",
		}, nil)
		if status == http.StatusTooManyRequests {
			limited++
			continue
		}
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, 2, limited)
}
