package analytics

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrInvalidMetric    = errors.New("invalid metric")
	ErrIncompleteRecord = errors.New("incomplete record")
)

// InvalidMetricError is returned when a derived metric cannot be computed for a workout,
// e.g. intensity of a workout with zero duration.
type InvalidMetricError struct {
	WorkoutID int
	Metric    string
	Reason    string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("workout %d: invalid %s: %s", e.WorkoutID, e.Metric, e.Reason)
}

func (e *InvalidMetricError) Is(target error) bool {
	return target == ErrInvalidMetric
}

// IncompleteRecordError is returned when a workout lacks a field needed for feature extraction.
type IncompleteRecordError struct {
	WorkoutID int
	Field     string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("workout %d: missing field %s", e.WorkoutID, e.Field)
}

func (e *IncompleteRecordError) Is(target error) bool {
	return target == ErrIncompleteRecord
}
