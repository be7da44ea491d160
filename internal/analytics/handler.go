package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fitnesstracking/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracking/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracking/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=analytics_test

type reportGenerator interface {
	GenerateAnalytics(ctx context.Context, userID int) (*Report, error)
	ExtractFeatures(ctx context.Context, userID int) ([]FeatureVector, error)
}

type objectStore interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType string) error
	Bucket() string
}

type ExportResponse struct {
	Bucket string `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
	Rows   int    `json:"rows" yaml:"rows"`
}

type Handler struct {
	analyzer       reportGenerator
	exports        objectStore
	exportPrefix   string
	metricsManager *metrics.Manager
}

// NewHandler creates the analytics handler. exports may be nil, in which
// case feature set exports are reported as unavailable.
func NewHandler(
	analyzer reportGenerator,
	exports objectStore,
	exportPrefix string,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		analyzer:       analyzer,
		exports:        exports,
		exportPrefix:   exportPrefix,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.report")
	defer span.End()

	userID, ok := userIDFromVars(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	report, err := handler.analyzer.GenerateAnalytics(ctx, userID)
	if err != nil {
		outcome := handler.writeAnalyticsError(w, userID, "generate analytics", err)
		handler.metricsManager.CounterAnalyticsReports.WithLabelValues(outcome).Inc()
		return
	}
	handler.metricsManager.CounterAnalyticsReports.WithLabelValues("ok").Inc()
	handler.metricsManager.HistogramReportWorkouts.Observe(float64(report.TotalWorkouts))

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal analytics report for user %d: %s", userID, err)
		http.Error(w, "failed to marshal analytics report", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, reportJson)
}

func (handler *Handler) HandleFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.features")
	defer span.End()

	userID, ok := userIDFromVars(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	vectors, err := handler.analyzer.ExtractFeatures(ctx, userID)
	if err != nil {
		handler.writeAnalyticsError(w, userID, "extract features", err)
		return
	}
	handler.metricsManager.CounterFeatureVectors.Add(float64(len(vectors)))

	vectorsJson, err := json.Marshal(vectors)
	if err != nil {
		log.Errorf("failed to marshal feature vectors for user %d: %s", userID, err)
		http.Error(w, "failed to marshal feature vectors", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, vectorsJson)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.export")
	defer span.End()

	if handler.exports == nil {
		handler.metricsManager.CounterFeatureExports.WithLabelValues("disabled").Inc()
		http.Error(w, "feature export is not enabled", http.StatusServiceUnavailable)
		return
	}

	userID, ok := userIDFromVars(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	vectors, err := handler.analyzer.ExtractFeatures(ctx, userID)
	if err != nil {
		outcome := handler.writeAnalyticsError(w, userID, "export features", err)
		handler.metricsManager.CounterFeatureExports.WithLabelValues(outcome).Inc()
		return
	}

	var buf bytes.Buffer
	if err := WriteFeaturesCSV(&buf, vectors); err != nil {
		log.Errorf("write features csv for user %d: %s", userID, err)
		handler.metricsManager.CounterFeatureExports.WithLabelValues("error").Inc()
		http.Error(w, "failed to export features", http.StatusInternalServerError)
		return
	}

	key := ExportKey(handler.exportPrefix, userID, time.Now())
	if err := handler.exports.PutObject(ctx, key, &buf, pkg.ContentType.CSV); err != nil {
		log.Errorf("upload features of user %d to %s: %s", userID, key, err)
		handler.metricsManager.CounterFeatureExports.WithLabelValues("error").Inc()
		http.Error(w, "failed to export features", http.StatusBadGateway)
		return
	}
	handler.metricsManager.CounterFeatureExports.WithLabelValues("ok").Inc()
	log.Infof("exported %d feature vectors of user %d to %s/%s", len(vectors), userID, handler.exports.Bucket(), key)

	resJson, err := json.Marshal(ExportResponse{
		Bucket: handler.exports.Bucket(),
		Key:    key,
		Rows:   len(vectors),
	})
	if err != nil {
		log.Errorf("failed to marshal export response: %s", err)
		http.Error(w, "failed to marshal export response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, http.StatusCreated)
}

// ExportKey builds the object key of a feature set export.
func ExportKey(prefix string, userID int, at time.Time) string {
	key := fmt.Sprintf("user-%d/%s-%s.csv", userID, at.UTC().Format("20060102T150405Z"), uuid.NewString())
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// writeAnalyticsError maps analytics errors to responses and returns the metric outcome label.
func (handler *Handler) writeAnalyticsError(w http.ResponseWriter, userID int, op string, err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
		return "not_found"
	case errors.Is(err, ErrInvalidMetric):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return "invalid_metric"
	case errors.Is(err, ErrIncompleteRecord):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return "incomplete_record"
	}
	log.Errorf("%s for user %d: %s", op, userID, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
	return "error"
}

func userIDFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["userId"]
	if idStr == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
