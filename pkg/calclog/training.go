package calclog

import "math"

// WorkoutKind identifies the formula family used for a training record.
type WorkoutKind int

const (
	Running WorkoutKind = iota + 1
	Walking
	Swimming
)

const (
	stepLengthM    = 0.65
	swimStrokeM    = 1.38
	metersInKm     = 1000
	minutesInHour  = 60
	runSpeedFactor = 18
	runSpeedShift  = 20
	walkWeightCoef = 0.035
	walkHeightCoef = 0.029
	swimSpeedShift = 1.1
	swimWeightCoef = 2
)

var workoutLabels = map[WorkoutKind]string{
	Running:  "Running",
	Walking:  "SportsWalking",
	Swimming: "Swimming",
}

// String returns the label printed in training summaries.
func (k WorkoutKind) String() string {
	if label, ok := workoutLabels[k]; ok {
		return label
	}
	return "Unknown"
}

// TrainingRecord holds raw sensor readings for a single workout.
// Build it with NewRunning, NewWalking, NewSwimming or BuildRecord;
// the zero value is not a valid record.
type TrainingRecord struct {
	kind          WorkoutKind
	actionCount   int
	durationHours float64
	weightKg      float64
	heightCm      float64
	poolLengthM   int
	poolLapCount  int
}

// NewRunning builds a running record.
func NewRunning(actionCount int, durationHours, weightKg float64) (TrainingRecord, error) {
	r := TrainingRecord{kind: Running, actionCount: actionCount, durationHours: durationHours, weightKg: weightKg}
	if err := r.validate(); err != nil {
		return TrainingRecord{}, err
	}
	return r, nil
}

// NewWalking builds a sports walking record; heightCm must be positive.
func NewWalking(actionCount int, durationHours, weightKg, heightCm float64) (TrainingRecord, error) {
	r := TrainingRecord{
		kind:          Walking,
		actionCount:   actionCount,
		durationHours: durationHours,
		weightKg:      weightKg,
		heightCm:      heightCm,
	}
	if err := r.validate(); err != nil {
		return TrainingRecord{}, err
	}
	return r, nil
}

// NewSwimming builds a swimming record.
func NewSwimming(actionCount int, durationHours, weightKg float64, poolLengthM, poolLapCount int) (TrainingRecord, error) {
	r := TrainingRecord{
		kind:          Swimming,
		actionCount:   actionCount,
		durationHours: durationHours,
		weightKg:      weightKg,
		poolLengthM:   poolLengthM,
		poolLapCount:  poolLapCount,
	}
	if err := r.validate(); err != nil {
		return TrainingRecord{}, err
	}
	return r, nil
}

func (r TrainingRecord) validate() error {
	if _, ok := workoutLabels[r.kind]; !ok {
		return invalidInputf("unknown workout kind %d", int(r.kind))
	}
	if r.actionCount < 0 {
		return invalidInputf("action count must not be negative, got %d", r.actionCount)
	}
	if !isPositiveFinite(r.durationHours) {
		return invalidInputf("duration must be greater than 0, got %v", r.durationHours)
	}
	if !isPositiveFinite(r.weightKg) {
		return invalidInputf("weight must be greater than 0, got %v", r.weightKg)
	}
	switch r.kind {
	case Walking:
		if !isPositiveFinite(r.heightCm) {
			return invalidInputf("height must be greater than 0, got %v", r.heightCm)
		}
	case Swimming:
		if r.poolLengthM <= 0 {
			return invalidInputf("pool length must be greater than 0, got %d", r.poolLengthM)
		}
		if r.poolLapCount < 0 {
			return invalidInputf("pool lap count must not be negative, got %d", r.poolLapCount)
		}
	}
	return nil
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Kind returns the workout kind.
func (r TrainingRecord) Kind() WorkoutKind { return r.kind }

// ActionCount returns the number of steps or strokes.
func (r TrainingRecord) ActionCount() int { return r.actionCount }

// DurationHours returns the workout duration in hours.
func (r TrainingRecord) DurationHours() float64 { return r.durationHours }

// WeightKg returns the athlete weight.
func (r TrainingRecord) WeightKg() float64 { return r.weightKg }

// HeightCm returns the athlete height; zero unless the record is a walk.
func (r TrainingRecord) HeightCm() float64 { return r.heightCm }

// PoolLengthM returns the pool length; zero unless the record is a swim.
func (r TrainingRecord) PoolLengthM() int { return r.poolLengthM }

// PoolLapCount returns the number of pool laps; zero unless the record is a swim.
func (r TrainingRecord) PoolLapCount() int { return r.poolLapCount }

// Distance returns the covered distance in km.
func (r TrainingRecord) Distance() float64 {
	step := stepLengthM
	if r.kind == Swimming {
		step = swimStrokeM
	}
	return float64(r.actionCount) * step / metersInKm
}

// MeanSpeed returns the mean speed in km/h.
// Swimming speed is derived from pool laps rather than strokes.
func (r TrainingRecord) MeanSpeed() float64 {
	if r.kind == Swimming {
		return float64(r.poolLengthM) * float64(r.poolLapCount) / metersInKm / r.durationHours
	}
	return r.Distance() / r.durationHours
}

// SpentCalories returns the burned kcal using the formula for the record's kind.
func (r TrainingRecord) SpentCalories() float64 {
	speed := r.MeanSpeed()
	switch r.kind {
	case Running:
		return (runSpeedFactor*speed - runSpeedShift) * r.weightKg / metersInKm * (r.durationHours * minutesInHour)
	case Walking:
		// The squared speed over height term is floor-divided.
		return (walkWeightCoef*r.weightKg +
			math.Floor(speed*speed/r.heightCm)*walkHeightCoef*r.weightKg) *
			r.durationHours * minutesInHour
	case Swimming:
		return (speed + swimSpeedShift) * swimWeightCoef * r.weightKg
	}
	return 0
}

// ComputeSummary derives distance, speed and calories for a record.
func ComputeSummary(r TrainingRecord) (TrainingSummary, error) {
	if err := r.validate(); err != nil {
		return TrainingSummary{}, err
	}
	return TrainingSummary{
		Kind:          r.kind.String(),
		DurationHours: r.durationHours,
		DistanceKm:    r.Distance(),
		MeanSpeedKmh:  r.MeanSpeed(),
		CaloriesKcal:  r.SpentCalories(),
	}, nil
}
