package misc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/pkg"
)

const (
	statusUp   = "up"
	statusDown = "down"

	pingTimeout = 2 * time.Second
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

type Handler struct {
	versionInfo string
	db          dbPinger
	rdb         redisPinger
}

func NewHandler(versionInfo string, db dbPinger, rdb redisPinger) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		db:          db,
		rdb:         rdb,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/health", handler.handleHealth).Methods("GET").Name("health")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.health")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:   statusUp,
		Postgres: statusUp,
		Redis:    statusUp,
	}

	if err := handler.db.Ping(ctx); err != nil {
		log.Errorf("health: postgres ping: %s", err)
		resp.Postgres = statusDown
		resp.Status = statusDown
	}
	if err := handler.rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("health: redis ping: %s", err)
		resp.Redis = statusDown
		resp.Status = statusDown
	}

	span.SetAttributes(
		attribute.String("health.postgres", resp.Postgres),
		attribute.String("health.redis", resp.Redis),
	)

	respBytes, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal health response: %s", err)
		http.Error(w, "marshal health response", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if resp.Status != statusUp {
		status = http.StatusServiceUnavailable
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, status)
}
