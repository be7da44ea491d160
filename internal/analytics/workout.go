package analytics

import "time"

// Workout is the read-only view of a workout record the analytics work on.
// All physiological metrics are float64 regardless of how they are stored.
type Workout struct {
	ID               int
	WorkoutType      string
	Timestamp        time.Time
	DurationMinutes  float64
	CaloriesBurned   float64
	AverageHeartRate float64
	MaxHeartRate     float64
	RestingHeartRate float64

	// optional context metrics, nil when not reported
	Temperature *float64
	HoursSlept  *float64
	StressLevel *float64
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
