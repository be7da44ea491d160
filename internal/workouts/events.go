package workouts

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitnesstracking/internal/telemetry/metrics"
)

//go:generate mockgen -source=$GOFILE -destination=events_mocks_test.go -package=workouts_test

type EventType string

const (
	EventWorkoutCreated EventType = "workout.created"
	EventWorkoutUpdated EventType = "workout.updated"
	EventWorkoutDeleted EventType = "workout.deleted"
)

type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	WorkoutID   int       `json:"workoutId"`
	UserID      int       `json:"userId"`
	WorkoutType string    `json:"workoutType"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func NewEvent(eventType EventType, workout Workout) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		WorkoutID:   workout.ID,
		UserID:      workout.UserID,
		WorkoutType: workout.WorkoutType,
		OccurredAt:  time.Now().UTC(),
	}
}

type eventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// EventEmitter publishes workout lifecycle events. Failures are logged and
// counted, never returned to the caller.
type EventEmitter struct {
	publisher      eventPublisher
	metricsManager *metrics.Manager
}

func NewEventEmitter(publisher eventPublisher, metricsManager *metrics.Manager) *EventEmitter {
	return &EventEmitter{
		publisher:      publisher,
		metricsManager: metricsManager,
	}
}

func (e *EventEmitter) Emit(ctx context.Context, eventType EventType, workout Workout) {
	event := NewEvent(eventType, workout)
	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("marshal workout event %s: %s", event.ID, err)
		e.metricsManager.CounterWorkoutEvents.WithLabelValues(string(eventType), "error").Inc()
		return
	}

	// keyed by user so a user's events stay ordered within a partition
	if err := e.publisher.Publish(ctx, strconv.Itoa(workout.UserID), payload); err != nil {
		log.Errorf("publish workout event %s [%s]: %s", event.ID, eventType, err)
		e.metricsManager.CounterWorkoutEvents.WithLabelValues(string(eventType), "error").Inc()
		return
	}

	log.Tracef("workout event published: %s [%s]", event.ID, eventType)
	e.metricsManager.CounterWorkoutEvents.WithLabelValues(string(eventType), "ok").Inc()
}
