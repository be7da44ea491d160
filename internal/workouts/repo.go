package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/pkg"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrUnknownUser     = errors.New("workout references unknown user")
)

const workoutColumns = `id, user_id, timestamp, workout_type, duration_minutes, calories_burned,
	average_heart_rate, max_heart_rate, resting_heart_rate, recovery_time, weather_conditions,
	temperature, hours_slept, stress_level`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	span.SetAttributes(attribute.Int("user.id", workout.UserID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		INSERT INTO workout (
			user_id, timestamp, workout_type, duration_minutes, calories_burned,
			average_heart_rate, max_heart_rate, resting_heart_rate, recovery_time,
			weather_conditions, temperature, hours_slept, stress_level
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+workoutColumns,
		workout.UserID, workout.Timestamp, workout.WorkoutType, workout.DurationMinutes,
		workout.CaloriesBurned, workout.AverageHeartRate, workout.MaxHeartRate,
		workout.RestingHeartRate, workout.RecoveryTime, nullableString(workout.WeatherConditions),
		workout.Temperature, workout.HoursSlept, workout.StressLevel,
	)
	added, err := scanWorkout(row)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return added, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	span.SetAttributes(attribute.Int("workout.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := scanWorkout(r.db.QueryRow(ctx,
		`SELECT `+workoutColumns+` FROM workout WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return workout, nil
}

func (r *Repo) Update(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		UPDATE workout SET
			user_id = $1, timestamp = $2, workout_type = $3, duration_minutes = $4,
			calories_burned = $5, average_heart_rate = $6, max_heart_rate = $7,
			resting_heart_rate = $8, recovery_time = $9, weather_conditions = $10,
			temperature = $11, hours_slept = $12, stress_level = $13
		WHERE id = $14
		RETURNING `+workoutColumns,
		workout.UserID, workout.Timestamp, workout.WorkoutType, workout.DurationMinutes,
		workout.CaloriesBurned, workout.AverageHeartRate, workout.MaxHeartRate,
		workout.RestingHeartRate, workout.RecoveryTime, nullableString(workout.WeatherConditions),
		workout.Temperature, workout.HoursSlept, workout.StressLevel, workout.ID,
	)
	updated, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	span.SetAttributes(attribute.Int("workout.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	deleted, err := scanWorkout(r.db.QueryRow(ctx,
		`DELETE FROM workout WHERE id = $1 RETURNING `+workoutColumns, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ListByUser returns the workouts of a user in chronological order.
func (r *Repo) ListByUser(ctx context.Context, userID int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_by_user")
	span.SetAttributes(attribute.Int("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.list(ctx, `
		SELECT `+workoutColumns+` FROM workout
		WHERE user_id = $1
		ORDER BY timestamp ASC, id ASC`,
		userID,
	)
}

func (r *Repo) ListByUserInRange(ctx context.Context, userID int, start, end time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_by_user_in_range")
	span.SetAttributes(attribute.Int("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.list(ctx, `
		SELECT `+workoutColumns+` FROM workout
		WHERE user_id = $1 AND timestamp BETWEEN $2 AND $3
		ORDER BY timestamp ASC, id ASC`,
		userID, start, end,
	)
}

func (r *Repo) ListByUserSince(ctx context.Context, userID int, since time.Time) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_by_user_since")
	span.SetAttributes(attribute.Int("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.list(ctx, `
		SELECT `+workoutColumns+` FROM workout
		WHERE user_id = $1 AND timestamp > $2
		ORDER BY timestamp DESC, id DESC`,
		userID, since,
	)
}

func (r *Repo) ListByType(ctx context.Context, workoutType string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list_by_type")
	span.SetAttributes(attribute.String("workout.type", workoutType))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.list(ctx, `
		SELECT `+workoutColumns+` FROM workout
		WHERE workout_type = $1
		ORDER BY timestamp ASC, id ASC`,
		workoutType,
	)
}

func (r *Repo) CountByUser(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count_by_user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM workout`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AverageCaloriesByUser is 0 for a user without workouts.
func (r *Repo) AverageCaloriesByUser(ctx context.Context, userID int) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.average_calories_by_user")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var avg float64
	if err := r.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(calories_burned), 0) FROM workout WHERE user_id = $1`, userID,
	).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

func (r *Repo) AverageCaloriesByType(ctx context.Context, userID int) (_ []TypeCalories, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.average_calories_by_type")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT workout_type, AVG(calories_burned)
		FROM workout
		WHERE user_id = $1
		GROUP BY workout_type
		ORDER BY workout_type`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []TypeCalories{}
	for rows.Next() {
		var tc TypeCalories
		if err := rows.Scan(&tc.WorkoutType, &tc.AverageCalories); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result = append(result, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Workout, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		workouts = append(workouts, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

func scanWorkout(row pgx.Row) (*Workout, error) {
	var w Workout
	var weather *string
	if err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Timestamp,
		&w.WorkoutType,
		&w.DurationMinutes,
		&w.CaloriesBurned,
		&w.AverageHeartRate,
		&w.MaxHeartRate,
		&w.RestingHeartRate,
		&w.RecoveryTime,
		&weather,
		&w.Temperature,
		&w.HoursSlept,
		&w.StressLevel,
	); err != nil {
		return nil, err
	}
	if weather != nil {
		w.WeatherConditions = *weather
	}
	return &w, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
