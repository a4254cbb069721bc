package calclog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecord_Dispatch(t *testing.T) {
	tests := []struct {
		code   string
		values []float64
		kind   WorkoutKind
	}{
		{code: "SWM", values: []float64{720, 1, 80, 25, 40}, kind: Swimming},
		{code: "RUN", values: []float64{15000, 1, 75}, kind: Running},
		{code: "WLK", values: []float64{9000, 1, 75, 180}, kind: Walking},
		{code: " run ", values: []float64{15000, 1, 75}, kind: Running},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			record, err := BuildRecord(tc.code, tc.values)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, record.Kind())
		})
	}
}

func TestBuildRecord_UnknownCode(t *testing.T) {
	_, err := BuildRecord("XYZ", []float64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeUnknownWorkoutType))
	assert.Contains(t, err.Error(), "XYZ")
}

func TestBuildRecord_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		values []float64
	}{
		{name: "running arity", code: "RUN", values: []float64{15000, 1}},
		{name: "walking arity", code: "WLK", values: []float64{9000, 1, 75}},
		{name: "swimming arity", code: "SWM", values: []float64{720, 1, 80, 25, 40, 1}},
		{name: "fractional actions", code: "RUN", values: []float64{150.5, 1, 75}},
		{name: "fractional laps", code: "SWM", values: []float64{720, 1, 80, 25, 40.2}},
		{name: "zero duration", code: "RUN", values: []float64{15000, 0, 75}},
		{name: "zero height", code: "WLK", values: []float64{9000, 1, 75, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildRecord(tc.code, tc.values)
			require.Error(t, err)
			assert.True(t, IsErrorCode(err, ErrCodeInvalidInput), "unexpected error: %v", err)
		})
	}
}

func TestWorkoutTypes(t *testing.T) {
	assert.Equal(t, []string{"SWM", "RUN", "WLK"}, WorkoutCodes())

	types := WorkoutTypes()
	require.Len(t, types, 3)
	assert.Equal(t, "Swimming", types[0].Label)
	assert.Len(t, types[0].Fields, 5)
	assert.Len(t, types[1].Fields, 3)
	assert.Len(t, types[2].Fields, 4)

	types[0].Fields[0] = "mutated"
	assert.Equal(t, "action", WorkoutTypes()[0].Fields[0])
}
