package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
)

// FeatureNames lists the feature vector fields in vector order.
var FeatureNames = [FeatureCount]string{
	"durationMinutes",
	"averageHeartRate",
	"maxHeartRate",
	"restingHeartRate",
	"temperature",
	"hoursSlept",
	"stressLevel",
}

const FeatureCount = 7

type FeatureVector [FeatureCount]float64

// Features maps a single workout to its feature vector.
// Missing optional metrics are reported, never defaulted.
func Features(w Workout) (FeatureVector, error) {
	optional := []struct {
		field string
		value *float64
	}{
		{field: "temperature", value: w.Temperature},
		{field: "hoursSlept", value: w.HoursSlept},
		{field: "stressLevel", value: w.StressLevel},
	}
	for _, o := range optional {
		if o.value == nil {
			return FeatureVector{}, &IncompleteRecordError{
				WorkoutID: w.ID,
				Field:     o.field,
			}
		}
	}

	return FeatureVector{
		w.DurationMinutes,
		w.AverageHeartRate,
		w.MaxHeartRate,
		w.RestingHeartRate,
		*w.Temperature,
		*w.HoursSlept,
		*w.StressLevel,
	}, nil
}

// FeatureVectors extracts one vector per workout, keeping the input order.
// The first incomplete workout fails the whole extraction.
func FeatureVectors(workouts []Workout) ([]FeatureVector, error) {
	vectors := make([]FeatureVector, 0, len(workouts))
	for _, w := range workouts {
		v, err := Features(w)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

// WriteFeaturesCSV writes a header row with FeatureNames followed by one row per vector.
func WriteFeaturesCSV(w io.Writer, vectors []FeatureVector) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(FeatureNames[:]); err != nil {
		return err
	}

	row := make([]string, FeatureCount)
	for _, v := range vectors {
		for i, f := range v {
			row[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
