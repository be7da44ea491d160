package analytics

// AverageCalories returns the mean of calories burned, 0 for no workouts.
func AverageCalories(workouts []Workout) float64 {
	calories := make([]float64, 0, len(workouts))
	for _, w := range workouts {
		calories = append(calories, w.CaloriesBurned)
	}
	return mean(calories)
}

// TypeDistribution counts workouts per workout type.
// Only types present in the input appear as keys.
func TypeDistribution(workouts []Workout) map[string]int {
	distribution := make(map[string]int)
	for _, w := range workouts {
		distribution[w.WorkoutType]++
	}
	return distribution
}
