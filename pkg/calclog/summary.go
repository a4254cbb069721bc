package calclog

import (
	"fmt"
	"regexp"
	"strconv"
)

// TrainingSummary is the human-readable result of a workout.
type TrainingSummary struct {
	Kind          string  `json:"training_type"`
	DurationHours float64 `json:"duration"`
	DistanceKm    float64 `json:"distance"`
	MeanSpeedKmh  float64 `json:"speed"`
	CaloriesKcal  float64 `json:"calories"`
}

const summaryFormat = "Тип тренировки: %s; " +
	"Длительность: %.3f ч.; " +
	"Дистанция: %.3f км; " +
	"Ср. скорость: %.3f км/ч; " +
	"Потрачено ккал: %.3f."

var summaryPattern = regexp.MustCompile(`^Тип тренировки: (\S+); ` +
	`Длительность: (-?\d+\.\d{3}) ч\.; ` +
	`Дистанция: (-?\d+\.\d{3}) км; ` +
	`Ср\. скорость: (-?\d+\.\d{3}) км/ч; ` +
	`Потрачено ккал: (-?\d+\.\d{3})\.$`)

// FormatSummary renders a summary with three decimals for every number.
func FormatSummary(s TrainingSummary) string {
	return fmt.Sprintf(summaryFormat, s.Kind, s.DurationHours, s.DistanceKm, s.MeanSpeedKmh, s.CaloriesKcal)
}

// String implements fmt.Stringer.
func (s TrainingSummary) String() string {
	return FormatSummary(s)
}

// ParseSummary reads a line produced by FormatSummary.
// Values come back rounded to three decimals.
func ParseSummary(line string) (TrainingSummary, error) {
	m := summaryPattern.FindStringSubmatch(line)
	if m == nil {
		return TrainingSummary{}, invalidInputf("not a training summary: %q", line)
	}
	nums := make([]float64, 4)
	for i := range nums {
		v, err := strconv.ParseFloat(m[i+2], 64)
		if err != nil {
			return TrainingSummary{}, WrapError(ErrCodeInvalidInput, "parse summary value", err)
		}
		nums[i] = v
	}
	return TrainingSummary{
		Kind:          m[1],
		DurationHours: nums[0],
		DistanceKm:    nums[1],
		MeanSpeedKmh:  nums[2],
		CaloriesKcal:  nums[3],
	}, nil
}

// ProcessPackage builds a record from one sensor package and computes its summary.
func ProcessPackage(code string, values []float64) (TrainingSummary, error) {
	record, err := BuildRecord(code, values)
	if err != nil {
		return TrainingSummary{}, err
	}
	return ComputeSummary(record)
}
