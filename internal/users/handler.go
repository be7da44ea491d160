package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitnesstracking/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByFitnessLevel(ctx context.Context, level FitnessLevel) ([]User, error)
	Update(ctx context.Context, user User) (*User, error)
	UpdateFitnessLevel(ctx context.Context, id int, level FitnessLevel) (*User, error)
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
}

type DeleteUserResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo           usersRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo usersRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.create")
	defer span.End()

	var user User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		log.Tracef("create user, unmarshal json: %s", err)
		http.Error(w, "invalid user payload", http.StatusBadRequest)
		return
	}

	if err := ValidateNew(user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	normalizeEnums(&user)

	hash, err := pkg.HashPassword(user.Password)
	if err != nil {
		log.Errorf("create user, hash password: %s", err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	user.PasswordHash = hash
	user.Password = ""

	added, err := handler.repo.Add(ctx, user)
	if err != nil {
		if status, msg, ok := conflictResponse(err); ok {
			http.Error(w, msg, status)
			return
		}
		log.Errorf("failed to add user [%s]: %s", user.Username, err)
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterUsersCreated.Inc()

	log.Debugf("new user added: %d", added.ID)
	handler.writeUser(w, added, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}

	user, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "get user", err)
		return
	}
	handler.writeUser(w, user, http.StatusOK)
}

func (handler *Handler) HandleGetByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get_by_email")
	defer span.End()

	email := mux.Vars(r)["email"]
	if email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, email)
	if err != nil {
		handler.writeRepoError(w, "get user by email", err)
		return
	}
	handler.writeUser(w, user, http.StatusOK)
}

func (handler *Handler) HandleListByFitnessLevel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list_by_fitness_level")
	defer span.End()

	level, err := ParseFitnessLevel(mux.Vars(r)["level"])
	if err != nil {
		http.Error(w, "invalid fitness level", http.StatusBadRequest)
		return
	}

	users, err := handler.repo.ListByFitnessLevel(ctx, level)
	if err != nil {
		log.Errorf("list users by fitness level %s: %s", level, err)
		http.Error(w, "failed to list users", http.StatusInternalServerError)
		return
	}

	usersJson, err := json.Marshal(users)
	if err != nil {
		log.Errorf("failed to marshal users: %s", err)
		http.Error(w, "failed to marshal users", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, usersJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update user, unmarshal json: %s", err)
		http.Error(w, "invalid user payload", http.StatusBadRequest)
		return
	}
	if err := ValidateUpdate(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := handler.repo.Get(ctx, id)
	if err != nil {
		handler.writeRepoError(w, "update user", err)
		return
	}

	req.ApplyTo(user)
	normalizeEnums(user)
	user.PasswordHash = ""
	if user.Password != "" {
		hash, err := pkg.HashPassword(user.Password)
		if err != nil {
			log.Errorf("update user, hash password: %s", err)
			http.Error(w, "failed to update user", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
		user.Password = ""
	}

	updated, err := handler.repo.Update(ctx, *user)
	if err != nil {
		if status, msg, ok := conflictResponse(err); ok {
			http.Error(w, msg, status)
			return
		}
		handler.writeRepoError(w, "update user", err)
		return
	}
	handler.writeUser(w, updated, http.StatusOK)
}

func (handler *Handler) HandleUpdateFitnessLevel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update_fitness_level")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}

	level, err := ParseFitnessLevel(r.URL.Query().Get("level"))
	if err != nil {
		http.Error(w, "invalid fitness level", http.StatusBadRequest)
		return
	}

	updated, err := handler.repo.UpdateFitnessLevel(ctx, id, level)
	if err != nil {
		handler.writeRepoError(w, "update fitness level", err)
		return
	}
	handler.writeUser(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.delete")
	defer span.End()

	id, ok := idFromVars(w, r, "id")
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		handler.writeRepoError(w, "delete user", err)
		return
	}

	resJson, err := json.Marshal(DeleteUserResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, http.StatusOK)
}

func (handler *Handler) writeUser(w http.ResponseWriter, user *User, status int) {
	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal user: %s", err)
		http.Error(w, "failed to marshal user", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, status)
}

func (handler *Handler) writeRepoError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s: %s", op, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func conflictResponse(err error) (int, string, bool) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, "Email is already in use", true
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict, "Username is already taken", true
	}
	return 0, "", false
}

func normalizeEnums(user *User) {
	if g, err := ParseGender(string(user.Gender)); err == nil {
		user.Gender = g
	}
	if l, err := ParseFitnessLevel(string(user.FitnessLevel)); err == nil {
		user.FitnessLevel = l
	}
}

func idFromVars(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	idStr := mux.Vars(r)[key]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
