// Package priority scores how worth testing a word or line is, from its
// knowledge status and recognition history.
package priority

import (
	"fmt"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/store"
)

// FocusMode weighs the knowledge and recognition signals against each other.
type FocusMode string

const (
	// FocusBalanced counts both signals fully.
	FocusBalanced FocusMode = "balanced"
	// FocusUnknown favours breadth: raw deck status dominates.
	FocusUnknown FocusMode = "unknown"
	// FocusWeak favours words the learner keeps missing.
	FocusWeak FocusMode = "weak"
)

// Weights scales the two signals for a focus mode.
type Weights struct {
	Knowledge   float64
	Recognition float64
}

var focusWeights = map[FocusMode]Weights{
	FocusBalanced: {Knowledge: 1.0, Recognition: 1.0},
	FocusUnknown:  {Knowledge: 1.0, Recognition: 0.25},
	FocusWeak:     {Knowledge: 0.6, Recognition: 1.5},
}

// ParseFocusMode validates a focus mode name.
func ParseFocusMode(s string) (FocusMode, error) {
	m := FocusMode(s)
	if _, ok := focusWeights[m]; !ok {
		return "", fmt.Errorf("unknown focus mode %q", s)
	}
	return m, nil
}

// WeightsFor returns the weights of mode, falling back to balanced.
func WeightsFor(mode FocusMode) Weights {
	if w, ok := focusWeights[mode]; ok {
		return w
	}
	return focusWeights[FocusBalanced]
}

// Intensity controls how readily knowledge-driven testing triggers.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// IntensityThresholds maps an intensity to the line score a line must reach
// to be tested. Higher intensity means a lower bar.
var IntensityThresholds = map[Intensity]float64{
	IntensityLow:    6.0,
	IntensityMedium: 4.0,
	IntensityHigh:   2.0,
}

// ParseIntensity validates an intensity name.
func ParseIntensity(s string) (Intensity, error) {
	i := Intensity(s)
	if _, ok := IntensityThresholds[i]; !ok {
		return "", fmt.Errorf("unknown intensity %q", s)
	}
	return i, nil
}

// ShouldTrigger compares a line score with the threshold for intensity.
// Unknown intensities use the medium threshold.
func ShouldTrigger(score float64, intensity Intensity) (threshold float64, ok bool) {
	threshold, found := IntensityThresholds[intensity]
	if !found {
		threshold = IntensityThresholds[IntensityMedium]
	}
	return threshold, score >= threshold
}

// Result is the scored priority of one token.
type Result struct {
	Status                knowledge.Status
	BaseWeight            float64
	RecognitionAdjustment float64
	Mode                  FocusMode

	// FinalPriority is never negative. Higher means more worth testing.
	FinalPriority float64
}

// Calculator turns knowledge status and recognition history into a priority.
type Calculator struct {
	BaseWeights map[knowledge.Status]float64

	// FailureWeight scales the failure rate into a positive adjustment.
	FailureWeight float64
	// StreakWeight is subtracted per consecutive success, up to MaxStreak.
	StreakWeight float64
	MaxStreak    int
}

// NewCalculator returns a Calculator with the default weighting.
func NewCalculator() *Calculator {
	return &Calculator{
		BaseWeights: map[knowledge.Status]float64{
			knowledge.StatusUncollected: 1.0,
			knowledge.StatusNew:         0.8,
			knowledge.StatusLearning:    0.6,
			knowledge.StatusYoung:       0.3,
			knowledge.StatusMature:      0.1,
		},
		FailureWeight: 0.5,
		StreakWeight:  0.1,
		MaxStreak:     5,
	}
}

// Calculate scores a single token.
func (c *Calculator) Calculate(status knowledge.Status, stats store.RecognitionStats, mode FocusMode) Result {
	w := WeightsFor(mode)
	base := c.BaseWeights[status]
	adj := c.recognitionAdjustment(stats)

	final := w.Knowledge*base + w.Recognition*adj
	if final < 0 {
		final = 0
	}
	return Result{
		Status:                status,
		BaseWeight:            base,
		RecognitionAdjustment: adj,
		Mode:                  mode,
		FinalPriority:         final,
	}
}

func (c *Calculator) recognitionAdjustment(stats store.RecognitionStats) float64 {
	if stats.Attempts == 0 {
		return 0
	}
	streak := stats.ConsecutiveSuccesses
	if streak > c.MaxStreak {
		streak = c.MaxStreak
	}
	return c.FailureWeight*stats.FailureRate() - c.StreakWeight*float64(streak)
}

// LineScore sums token priorities into a line score.
func LineScore(results []Result) float64 {
	var sum float64
	for _, r := range results {
		sum += r.FinalPriority
	}
	return sum
}
