package workouts

import (
	"errors"
	"strings"
	"time"
)

type Workout struct {
	ID                int       `json:"id"`
	UserID            int       `json:"userId"`
	Timestamp         time.Time `json:"timestamp"`
	WorkoutType       string    `json:"workoutType"`
	DurationMinutes   int       `json:"durationMinutes"`
	CaloriesBurned    float64   `json:"caloriesBurned"`
	AverageHeartRate  int       `json:"averageHeartRate"`
	MaxHeartRate      float64   `json:"maxHeartRate"`
	RestingHeartRate  float64   `json:"restingHeartRate"`
	RecoveryTime      *float64  `json:"recoveryTime,omitempty"`
	WeatherConditions string    `json:"weatherConditions,omitempty"`
	Temperature       *float64  `json:"temperature,omitempty"`
	HoursSlept        *int      `json:"hoursSlept,omitempty"`
	StressLevel       *int      `json:"stressLevel,omitempty"`
}

func (w Workout) Validate() error {
	if w.UserID <= 0 {
		return errors.New("user id missing")
	}
	if strings.TrimSpace(w.WorkoutType) == "" {
		return errors.New("workout type empty")
	}
	if w.DurationMinutes < 0 {
		return errors.New("duration cannot be negative")
	}
	if w.CaloriesBurned < 0 {
		return errors.New("calories cannot be negative")
	}
	return nil
}

type TypeCalories struct {
	WorkoutType     string  `json:"workoutType"`
	AverageCalories float64 `json:"averageCalories"`
}
