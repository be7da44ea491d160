package analytics

import (
	"context"

	"github.com/2beens/fitnesstracking/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=analytics_test

type workoutLister interface {
	ListByUser(ctx context.Context, userID int) ([]workouts.Workout, error)
}

type userExister interface {
	Exists(ctx context.Context, id int) (bool, error)
}

var _ WorkoutStore = (*RepoStore)(nil)

// RepoStore adapts the users and workouts repositories to WorkoutStore.
type RepoStore struct {
	workouts workoutLister
	users    userExister
}

func NewRepoStore(workouts workoutLister, users userExister) *RepoStore {
	return &RepoStore{
		workouts: workouts,
		users:    users,
	}
}

func (s *RepoStore) UserExists(ctx context.Context, userID int) (bool, error) {
	return s.users.Exists(ctx, userID)
}

// ListWorkoutsForUser does not check the user; an unknown user yields an empty slice.
func (s *RepoStore) ListWorkoutsForUser(ctx context.Context, userID int) ([]Workout, error) {
	stored, err := s.workouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	converted := make([]Workout, 0, len(stored))
	for _, w := range stored {
		converted = append(converted, fromStored(w))
	}
	return converted, nil
}

func fromStored(w workouts.Workout) Workout {
	return Workout{
		ID:               w.ID,
		WorkoutType:      w.WorkoutType,
		Timestamp:        w.Timestamp,
		DurationMinutes:  float64(w.DurationMinutes),
		CaloriesBurned:   w.CaloriesBurned,
		AverageHeartRate: float64(w.AverageHeartRate),
		MaxHeartRate:     w.MaxHeartRate,
		RestingHeartRate: w.RestingHeartRate,
		Temperature:      w.Temperature,
		HoursSlept:       intToFloatPtr(w.HoursSlept),
		StressLevel:      intToFloatPtr(w.StressLevel),
	}
}

func intToFloatPtr(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
