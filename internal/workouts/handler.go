package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

const defaultRecentWindow = 7 * 24 * time.Hour

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, id int) (*Workout, error)
	Update(ctx context.Context, workout Workout) (*Workout, error)
	Delete(ctx context.Context, id int) (*Workout, error)
	ListByUser(ctx context.Context, userID int) ([]Workout, error)
	ListByUserInRange(ctx context.Context, userID int, start, end time.Time) ([]Workout, error)
	ListByUserSince(ctx context.Context, userID int, since time.Time) ([]Workout, error)
	ListByType(ctx context.Context, workoutType string) ([]Workout, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	AverageCaloriesByUser(ctx context.Context, userID int) (float64, error)
	AverageCaloriesByType(ctx context.Context, userID int) ([]TypeCalories, error)
}

type usersChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type CountResponse struct {
	UserID int `json:"userId"`
	Count  int `json:"count"`
}

type AverageCaloriesResponse struct {
	UserID          int     `json:"userId"`
	AverageCalories float64 `json:"averageCalories"`
}

type Handler struct {
	repo           workoutsRepo
	users          usersChecker
	events         *EventEmitter
	metricsManager *metrics.Manager
}

func NewHandler(
	repo workoutsRepo,
	users usersChecker,
	events *EventEmitter,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		users:          users,
		events:         events,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("create workout, unmarshal json: %s", err)
		http.Error(w, "invalid workout payload", http.StatusBadRequest)
		return
	}
	if workout.Timestamp.IsZero() {
		workout.Timestamp = time.Now()
	}
	if err := workout.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	exists, err := handler.users.Exists(ctx, workout.UserID)
	if err != nil {
		log.Errorf("create workout, check user %d: %s", workout.UserID, err)
		http.Error(w, "failed to create workout", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "user not found", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, workout)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			http.Error(w, "user not found", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add workout for user %d: %s", workout.UserID, err)
		http.Error(w, "failed to create workout", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterWorkoutsCreated.Inc()
	handler.events.Emit(ctx, EventWorkoutCreated, *added)

	log.Debugf("new workout added: %d [user %d]", added.ID, added.UserID)
	writeJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, ok := intFromVars(w, r, "id")
	if !ok {
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		writeRepoError(w, "get workout", err)
		return
	}
	writeJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	id, ok := intFromVars(w, r, "id")
	if !ok {
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("update workout, unmarshal json: %s", err)
		http.Error(w, "invalid workout payload", http.StatusBadRequest)
		return
	}

	existing, err := handler.repo.Get(ctx, id)
	if err != nil {
		writeRepoError(w, "update workout", err)
		return
	}

	workout.ID = id
	if workout.UserID == 0 {
		workout.UserID = existing.UserID
	}
	if workout.Timestamp.IsZero() {
		workout.Timestamp = existing.Timestamp
	}
	if err := workout.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.Update(ctx, workout)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			http.Error(w, "user not found", http.StatusBadRequest)
			return
		}
		writeRepoError(w, "update workout", err)
		return
	}
	handler.events.Emit(ctx, EventWorkoutUpdated, *updated)

	writeJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, ok := intFromVars(w, r, "id")
	if !ok {
		return
	}

	deleted, err := handler.repo.Delete(ctx, id)
	if err != nil {
		writeRepoError(w, "delete workout", err)
		return
	}
	handler.events.Emit(ctx, EventWorkoutDeleted, *deleted)

	writeJSON(w, DeleteWorkoutResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list_by_user")
	defer span.End()

	userID, ok := handler.existingUser(ctx, w, r)
	if !ok {
		return
	}

	workouts, err := handler.repo.ListByUser(ctx, userID)
	if err != nil {
		writeRepoError(w, "list workouts by user", err)
		return
	}
	writeJSON(w, workouts, http.StatusOK)
}

func (handler *Handler) HandleListByUserInRange(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list_by_user_in_range")
	defer span.End()

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		http.Error(w, "error, invalid start (RFC3339 expected)", http.StatusBadRequest)
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "error, invalid end (RFC3339 expected)", http.StatusBadRequest)
		return
	}
	if end.Before(start) {
		http.Error(w, "error, end before start", http.StatusBadRequest)
		return
	}

	userID, ok := handler.existingUser(ctx, w, r)
	if !ok {
		return
	}

	workouts, err := handler.repo.ListByUserInRange(ctx, userID, start, end)
	if err != nil {
		writeRepoError(w, "list workouts in range", err)
		return
	}
	writeJSON(w, workouts, http.StatusOK)
}

func (handler *Handler) HandleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list_recent")
	defer span.End()

	since := time.Now().Add(-defaultRecentWindow)
	if sinceParam := r.URL.Query().Get("since"); sinceParam != "" {
		parsed, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			http.Error(w, "error, invalid since (RFC3339 expected)", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	userID, ok := handler.existingUser(ctx, w, r)
	if !ok {
		return
	}

	workouts, err := handler.repo.ListByUserSince(ctx, userID, since)
	if err != nil {
		writeRepoError(w, "list recent workouts", err)
		return
	}
	writeJSON(w, workouts, http.StatusOK)
}

func (handler *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.count")
	defer span.End()

	userID, ok := handler.existingUser(ctx, w, r)
	if !ok {
		return
	}

	count, err := handler.repo.CountByUser(ctx, userID)
	if err != nil {
		writeRepoError(w, "count workouts", err)
		return
	}
	writeJSON(w, CountResponse{UserID: userID, Count: count}, http.StatusOK)
}

func (handler *Handler) HandleAverageCalories(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.average_calories")
	defer span.End()

	userID, ok := handler.existingUser(ctx, w, r)
	if !ok {
		return
	}

	avg, err := handler.repo.AverageCaloriesByUser(ctx, userID)
	if err != nil {
		writeRepoError(w, "average calories", err)
		return
	}
	writeJSON(w, AverageCaloriesResponse{UserID: userID, AverageCalories: avg}, http.StatusOK)
}

func (handler *Handler) HandleCaloriesByType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.calories_by_type")
	defer span.End()

	userID, ok := handler.existingUser(ctx, w, r)
	if !ok {
		return
	}

	byType, err := handler.repo.AverageCaloriesByType(ctx, userID)
	if err != nil {
		writeRepoError(w, "calories by type", err)
		return
	}
	writeJSON(w, byType, http.StatusOK)
}

func (handler *Handler) HandleListByType(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list_by_type")
	defer span.End()

	workoutType := mux.Vars(r)["workoutType"]
	if workoutType == "" {
		http.Error(w, "error, workout type empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("workout.type", workoutType))

	workouts, err := handler.repo.ListByType(ctx, workoutType)
	if err != nil {
		writeRepoError(w, "list workouts by type", err)
		return
	}
	writeJSON(w, workouts, http.StatusOK)
}

// existingUser reads the userId path var and writes a 404 if no such user exists.
func (handler *Handler) existingUser(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := intFromVars(w, r, "userId")
	if !ok {
		return 0, false
	}

	exists, err := handler.users.Exists(ctx, userID)
	if err != nil {
		log.Errorf("check user %d exists: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return 0, false
	}
	if !exists {
		http.Error(w, "user not found", http.StatusNotFound)
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, status)
}

func writeRepoError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s: %s", op, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func intFromVars(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	idStr := mux.Vars(r)[key]
	if idStr == "" {
		http.Error(w, "error, "+key+" empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, "+key+" NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
