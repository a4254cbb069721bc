package calclog

import (
	"fmt"
	"math"
	"strings"
)

// WorkoutType describes a supported sensor package code.
type WorkoutType struct {
	Code   string      `json:"code"`
	Kind   WorkoutKind `json:"-"`
	Label  string      `json:"label"`
	Fields []string    `json:"fields"`
}

type recordBuilder func(values []float64) (TrainingRecord, error)

type workoutEntry struct {
	WorkoutType
	build recordBuilder
}

var workoutTypes = []workoutEntry{
	{
		WorkoutType: WorkoutType{Code: "SWM", Kind: Swimming, Fields: []string{"action", "duration", "weight", "length_pool", "count_pool"}},
		build: func(v []float64) (TrainingRecord, error) {
			action, err := integral("action", v[0])
			if err != nil {
				return TrainingRecord{}, err
			}
			length, err := integral("length_pool", v[3])
			if err != nil {
				return TrainingRecord{}, err
			}
			count, err := integral("count_pool", v[4])
			if err != nil {
				return TrainingRecord{}, err
			}
			return NewSwimming(action, v[1], v[2], length, count)
		},
	},
	{
		WorkoutType: WorkoutType{Code: "RUN", Kind: Running, Fields: []string{"action", "duration", "weight"}},
		build: func(v []float64) (TrainingRecord, error) {
			action, err := integral("action", v[0])
			if err != nil {
				return TrainingRecord{}, err
			}
			return NewRunning(action, v[1], v[2])
		},
	},
	{
		WorkoutType: WorkoutType{Code: "WLK", Kind: Walking, Fields: []string{"action", "duration", "weight", "height"}},
		build: func(v []float64) (TrainingRecord, error) {
			action, err := integral("action", v[0])
			if err != nil {
				return TrainingRecord{}, err
			}
			return NewWalking(action, v[1], v[2], v[3])
		},
	},
}

// WorkoutTypes returns the supported package codes in dispatch order.
func WorkoutTypes() []WorkoutType {
	out := make([]WorkoutType, 0, len(workoutTypes))
	for _, entry := range workoutTypes {
		wt := entry.WorkoutType
		wt.Label = wt.Kind.String()
		wt.Fields = append([]string(nil), entry.Fields...)
		out = append(out, wt)
	}
	return out
}

// WorkoutCodes returns the supported package codes.
func WorkoutCodes() []string {
	codes := make([]string, 0, len(workoutTypes))
	for _, entry := range workoutTypes {
		codes = append(codes, entry.Code)
	}
	return codes
}

func normalizeWorkoutCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// BuildRecord turns a raw sensor package into a training record.
// Values are positional: action, duration, weight, then the
// workout-specific fields listed by WorkoutTypes.
func BuildRecord(code string, values []float64) (TrainingRecord, error) {
	normalized := normalizeWorkoutCode(code)
	for _, entry := range workoutTypes {
		if entry.Code != normalized {
			continue
		}
		if len(values) != len(entry.Fields) {
			return TrainingRecord{}, invalidInputf("%s expects %d values (%s), got %d",
				entry.Code, len(entry.Fields), strings.Join(entry.Fields, ", "), len(values))
		}
		return entry.build(values)
	}
	return TrainingRecord{}, NewError(ErrCodeUnknownWorkoutType,
		fmt.Sprintf("%q is not a known workout type (expected one of %s)", code, strings.Join(WorkoutCodes(), ", ")))
}

func integral(field string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, invalidInputf("%s must be a whole number, got %v", field, v)
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, invalidInputf("%s is out of range: %v", field, v)
	}
	return int(v), nil
}
