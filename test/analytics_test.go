//go:build integration

package test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitnesstracking/internal/analytics"
)

func (s *IntegrationTestSuite) TestAnalytics_Report() {
	ctx := context.Background()
	t := s.T()

	user := s.createUser(ctx, "analyst")
	s.seedWorkout(user.ID, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), "RUNNING", 30, 300, intPtr(7))
	s.seedWorkout(user.ID, time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC), "RUNNING", 60, 540, intPtr(8))
	s.seedWorkout(user.ID, time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC), "CYCLING", 45, 450, intPtr(7))

	var report analytics.Report
	status, body := s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/analytics/%d", user.ID), nil, &report)
	require.Equal(t, http.StatusOK, status, body)

	assert.Equal(t, 3, report.TotalWorkouts)
	assert.InDelta(t, 430.0, report.AverageCaloriesBurned, 1e-9)
	assert.Equal(t, map[string]int{"RUNNING": 2, "CYCLING": 1}, report.WorkoutTypeDistribution)
	assert.Equal(t, []float64{10, 9}, report.PerformanceTrends.ProgressionByType["RUNNING"])
	assert.Equal(t, []float64{10}, report.PerformanceTrends.ProgressionByType["CYCLING"])

	week10 := report.PerformanceTrends.WeeklyAverages[analytics.WeekKey{Year: 2024, Week: 10}]
	assert.InDelta(t, 420.0, week10.AvgCalories, 1e-9)
	assert.InDelta(t, 45.0, week10.AvgDuration, 1e-9)
	week11 := report.PerformanceTrends.WeeklyAverages[analytics.WeekKey{Year: 2024, Week: 11}]
	assert.InDelta(t, 450.0, week11.AvgCalories, 1e-9)

	var vectors []analytics.FeatureVector
	status, body = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/ml-data/%d", user.ID), nil, &vectors)
	require.Equal(t, http.StatusOK, status, body)
	require.Len(t, vectors, 3)
	assert.Equal(t, analytics.FeatureVector{30, 140, 175, 60, 20.5, 7, 3}, vectors[0])

	// export is not configured in the test server
	status, _ = s.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/workouts/ml-data/%d/export", user.ID), nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func (s *IntegrationTestSuite) TestAnalytics_Errors() {
	ctx := context.Background()
	t := s.T()

	status, _ := s.doJSON(ctx, http.MethodGet, "/api/workouts/analytics/999999", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// a user without workouts gets an empty report
	empty := s.createUser(ctx, "idle")
	var report analytics.Report
	status, _ = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/analytics/%d", empty.ID), nil, &report)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, report.TotalWorkouts)
	assert.Zero(t, report.AverageCaloriesBurned)

	incomplete := s.createUser(ctx, "sleepless")
	s.seedWorkout(incomplete.ID, time.Now().Add(-time.Hour), "ROWING", 20, 150, nil)
	status, body := s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/ml-data/%d", incomplete.ID), nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "hoursSlept")

	zeroDuration := s.createUser(ctx, "instant")
	s.seedWorkout(zeroDuration.ID, time.Now().Add(-time.Hour), "HIIT", 0, 90, intPtr(7))
	status, _ = s.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/workouts/analytics/%d", zeroDuration.ID), nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func (s *IntegrationTestSuite) TestHealth() {
	ctx := context.Background()
	t := s.T()

	status, body := s.doJSON(ctx, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"up","postgres":"up","redis":"up"}`, body)

	status, body = s.doJSON(ctx, http.MethodGet, "/version", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test-version-info", body)
}
