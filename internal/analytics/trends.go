package analytics

import (
	"fmt"
	"sort"
	"time"
)

// WeekKey identifies an ISO week. The year is part of the key, so the same
// week number in different years lands in different buckets.
type WeekKey struct {
	Year int
	Week int
}

func WeekKeyOf(t time.Time) WeekKey {
	year, week := t.UTC().ISOWeek()
	return WeekKey{Year: year, Week: week}
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%d-W%02d", k.Year, k.Week)
}

func (k WeekKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *WeekKey) UnmarshalText(text []byte) error {
	var year, week int
	if _, err := fmt.Sscanf(string(text), "%d-W%d", &year, &week); err != nil {
		return fmt.Errorf("parse week key %q: %w", text, err)
	}
	if week < 1 || week > 53 {
		return fmt.Errorf("parse week key %q: week out of range", text)
	}
	k.Year, k.Week = year, week
	return nil
}

type WeeklyAverage struct {
	AvgCalories  float64 `json:"avgCalories" yaml:"avgCalories"`
	AvgDuration  float64 `json:"avgDuration" yaml:"avgDuration"`
	AvgHeartRate float64 `json:"avgHeartRate" yaml:"avgHeartRate"`
}

type IntensityTrends struct {
	AverageIntensity            float64 `json:"averageIntensity" yaml:"averageIntensity"`
	AverageHeartRateVariability float64 `json:"averageHeartRateVariability" yaml:"averageHeartRateVariability"`
}

type PerformanceTrends struct {
	WeeklyAverages    map[WeekKey]WeeklyAverage `json:"weeklyAverages" yaml:"weeklyAverages"`
	ProgressionByType map[string][]float64      `json:"progressionByType" yaml:"progressionByType"`
	IntensityTrends   IntensityTrends           `json:"intensityTrends" yaml:"intensityTrends"`
}

// Intensity is calories burned per minute of the workout.
func Intensity(w Workout) (float64, error) {
	if w.DurationMinutes <= 0 {
		return 0, &InvalidMetricError{
			WorkoutID: w.ID,
			Metric:    "intensity",
			Reason:    fmt.Sprintf("non-positive duration %v", w.DurationMinutes),
		}
	}
	return w.CaloriesBurned / w.DurationMinutes, nil
}

// WeeklyAverages buckets workouts by ISO week and averages calories, duration and heart rate per bucket.
func WeeklyAverages(workouts []Workout) map[WeekKey]WeeklyAverage {
	buckets := make(map[WeekKey][]Workout)
	for _, w := range workouts {
		key := WeekKeyOf(w.Timestamp)
		buckets[key] = append(buckets[key], w)
	}

	averages := make(map[WeekKey]WeeklyAverage, len(buckets))
	for key, bucket := range buckets {
		calories := make([]float64, 0, len(bucket))
		durations := make([]float64, 0, len(bucket))
		heartRates := make([]float64, 0, len(bucket))
		for _, w := range bucket {
			calories = append(calories, w.CaloriesBurned)
			durations = append(durations, w.DurationMinutes)
			heartRates = append(heartRates, w.AverageHeartRate)
		}
		averages[key] = WeeklyAverage{
			AvgCalories:  mean(calories),
			AvgDuration:  mean(durations),
			AvgHeartRate: mean(heartRates),
		}
	}

	return averages
}

// ProgressionByType returns, per workout type, the intensities of its workouts in chronological order.
// Workouts with equal timestamps keep their input order.
func ProgressionByType(workouts []Workout) (map[string][]float64, error) {
	partitions := make(map[string][]Workout)
	for _, w := range workouts {
		partitions[w.WorkoutType] = append(partitions[w.WorkoutType], w)
	}

	progression := make(map[string][]float64, len(partitions))
	for workoutType, partition := range partitions {
		sort.SliceStable(partition, func(i, j int) bool {
			return partition[i].Timestamp.Before(partition[j].Timestamp)
		})

		intensities := make([]float64, 0, len(partition))
		for _, w := range partition {
			intensity, err := Intensity(w)
			if err != nil {
				return nil, err
			}
			intensities = append(intensities, intensity)
		}
		progression[workoutType] = intensities
	}

	return progression, nil
}

func CalculateIntensityTrends(workouts []Workout) (IntensityTrends, error) {
	intensities := make([]float64, 0, len(workouts))
	variabilities := make([]float64, 0, len(workouts))
	for _, w := range workouts {
		intensity, err := Intensity(w)
		if err != nil {
			return IntensityTrends{}, err
		}
		intensities = append(intensities, intensity)
		variabilities = append(variabilities, w.MaxHeartRate-w.RestingHeartRate)
	}

	return IntensityTrends{
		AverageIntensity:            mean(intensities),
		AverageHeartRateVariability: mean(variabilities),
	}, nil
}

func CalculatePerformanceTrends(workouts []Workout) (PerformanceTrends, error) {
	progression, err := ProgressionByType(workouts)
	if err != nil {
		return PerformanceTrends{}, fmt.Errorf("progression by type: %w", err)
	}

	intensityTrends, err := CalculateIntensityTrends(workouts)
	if err != nil {
		return PerformanceTrends{}, fmt.Errorf("intensity trends: %w", err)
	}

	return PerformanceTrends{
		WeeklyAverages:    WeeklyAverages(workouts),
		ProgressionByType: progression,
		IntensityTrends:   intensityTrends,
	}, nil
}
