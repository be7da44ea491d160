package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/pkg"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already in use")
	ErrUsernameTaken = errors.New("username already taken")
)

const userColumns = `id, username, email, password_hash, age, height, weight, gender,
	fitness_level, primary_goal, weekly_workout_target, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		INSERT INTO users (
			username, email, password_hash, age, height, weight, gender,
			fitness_level, primary_goal, weekly_workout_target, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash, user.Age, user.Height, user.Weight,
		nullableString(string(user.Gender)), nullableString(string(user.FitnessLevel)),
		nullableString(user.PrimaryGoal), user.WeeklyWorkoutTarget,
	)
	added, err := scanUser(row)
	if err != nil {
		return nil, mapConstraintErr(err)
	}
	return added, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	span.SetAttributes(attribute.Int("user.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get_by_email")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get_by_username")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *Repo) getOne(ctx context.Context, query string, arg any) (*User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repo) ListByFitnessLevel(ctx context.Context, level FitnessLevel) (_ []User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list_by_fitness_level")
	span.SetAttributes(attribute.String("fitness_level", string(level)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE fitness_level = $1 ORDER BY id`,
		string(level),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repo) Update(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update")
	span.SetAttributes(attribute.Int("user.id", user.ID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		UPDATE users SET
			username = $1, email = $2, password_hash = COALESCE(NULLIF($3, ''), password_hash), age = $4, height = $5, weight = $6,
			gender = $7, fitness_level = $8, primary_goal = $9, weekly_workout_target = $10,
			updated_at = now()
		WHERE id = $11
		RETURNING `+userColumns,
		user.Username, user.Email, user.PasswordHash, user.Age, user.Height, user.Weight,
		nullableString(string(user.Gender)), nullableString(string(user.FitnessLevel)),
		nullableString(user.PrimaryGoal), user.WeeklyWorkoutTarget, user.ID,
	)
	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, mapConstraintErr(err)
	}
	return updated, nil
}

func (r *Repo) UpdateFitnessLevel(ctx context.Context, id int, level FitnessLevel) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update_fitness_level")
	span.SetAttributes(attribute.Int("user.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(ctx, `
		UPDATE users SET fitness_level = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userColumns,
		string(level), id,
	)
	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.delete")
	span.SetAttributes(attribute.Int("user.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) Exists(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.exists")
	span.SetAttributes(attribute.Int("user.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var user User
	var gender, fitnessLevel, primaryGoal *string
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Age,
		&user.Height,
		&user.Weight,
		&gender,
		&fitnessLevel,
		&primaryGoal,
		&user.WeeklyWorkoutTarget,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if gender != nil {
		user.Gender = Gender(*gender)
	}
	if fitnessLevel != nil {
		user.FitnessLevel = FitnessLevel(*fitnessLevel)
	}
	if primaryGoal != nil {
		user.PrimaryGoal = *primaryGoal
	}
	return &user, nil
}

func mapConstraintErr(err error) error {
	if !pkg.IsUniqueViolationError(err) {
		return err
	}
	switch pkg.ViolatedConstraint(err) {
	case "users_email_key":
		return ErrEmailTaken
	case "users_username_key":
		return ErrUsernameTaken
	}
	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
