package analytics

import (
	"context"
	"fmt"

	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=analytics_test

// WorkoutStore provides the workouts of a user, ordered as stored.
type WorkoutStore interface {
	// ListWorkoutsForUser may skip the existence check: callers resolve the user
	// through UserExists first. Users without workouts get an empty slice.
	ListWorkoutsForUser(ctx context.Context, userID int) ([]Workout, error)
	UserExists(ctx context.Context, userID int) (bool, error)
}

type Report struct {
	TotalWorkouts           int               `json:"totalWorkouts" yaml:"totalWorkouts"`
	AverageCaloriesBurned   float64           `json:"averageCaloriesBurned" yaml:"averageCaloriesBurned"`
	WorkoutTypeDistribution map[string]int    `json:"workoutTypeDistribution" yaml:"workoutTypeDistribution"`
	PerformanceTrends       PerformanceTrends `json:"performanceTrends" yaml:"performanceTrends"`
}

// Analyzer builds analytics reports and feature vectors from a user's workouts.
// It holds no state between calls.
type Analyzer struct {
	store WorkoutStore
}

func NewAnalyzer(store WorkoutStore) *Analyzer {
	return &Analyzer{
		store: store,
	}
}

func (a *Analyzer) GenerateAnalytics(ctx context.Context, userID int) (_ *Report, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.analytics.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	workouts, err := a.userWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workouts", len(workouts)))

	trends, err := CalculatePerformanceTrends(workouts)
	if err != nil {
		return nil, err
	}

	return &Report{
		TotalWorkouts:           len(workouts),
		AverageCaloriesBurned:   AverageCalories(workouts),
		WorkoutTypeDistribution: TypeDistribution(workouts),
		PerformanceTrends:       trends,
	}, nil
}

func (a *Analyzer) ExtractFeatures(ctx context.Context, userID int) (_ []FeatureVector, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.analytics.features")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	workouts, err := a.userWorkouts(ctx, userID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workouts", len(workouts)))

	return FeatureVectors(workouts)
}

func (a *Analyzer) userWorkouts(ctx context.Context, userID int) ([]Workout, error) {
	exists, err := a.store.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d exists: %w", userID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	workouts, err := a.store.ListWorkoutsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list workouts of user %d: %w", userID, err)
	}
	return workouts, nil
}
