package priority

import (
	"testing"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/store"
)

func TestBaseWeightDecreasesWithKnowledge(t *testing.T) {
	c := NewCalculator()
	ladder := []knowledge.Status{
		knowledge.StatusUncollected,
		knowledge.StatusNew,
		knowledge.StatusLearning,
		knowledge.StatusYoung,
		knowledge.StatusMature,
	}
	prev := c.Calculate(ladder[0], store.RecognitionStats{}, FocusBalanced).FinalPriority
	for _, st := range ladder[1:] {
		got := c.Calculate(st, store.RecognitionStats{}, FocusBalanced).FinalPriority
		if got >= prev {
			t.Errorf("priority(%s) = %v, want < %v", st, got, prev)
		}
		prev = got
	}
}

func TestRecognitionAdjustment(t *testing.T) {
	c := NewCalculator()
	none := c.Calculate(knowledge.StatusLearning, store.RecognitionStats{}, FocusBalanced)
	failing := c.Calculate(knowledge.StatusLearning, store.RecognitionStats{Attempts: 4, Failures: 3, Successes: 1}, FocusBalanced)
	streak := c.Calculate(knowledge.StatusLearning, store.RecognitionStats{Attempts: 3, Successes: 3, ConsecutiveSuccesses: 3}, FocusBalanced)

	if failing.FinalPriority <= none.FinalPriority {
		t.Errorf("failures should raise priority: %v <= %v", failing.FinalPriority, none.FinalPriority)
	}
	if streak.FinalPriority >= none.FinalPriority {
		t.Errorf("consecutive successes should lower priority: %v >= %v", streak.FinalPriority, none.FinalPriority)
	}
}

func TestFinalPriorityNeverNegative(t *testing.T) {
	c := NewCalculator()
	stats := store.RecognitionStats{Attempts: 20, Successes: 20, ConsecutiveSuccesses: 20}
	for _, mode := range []FocusMode{FocusBalanced, FocusUnknown, FocusWeak, "bogus"} {
		r := c.Calculate(knowledge.StatusMature, stats, mode)
		if r.FinalPriority < 0 {
			t.Errorf("mode %q: FinalPriority = %v, want >= 0", mode, r.FinalPriority)
		}
	}
}

func TestFocusModeScalesRecognition(t *testing.T) {
	c := NewCalculator()
	stats := store.RecognitionStats{Attempts: 2, Failures: 2}

	unknown := c.Calculate(knowledge.StatusYoung, stats, FocusUnknown)
	weak := c.Calculate(knowledge.StatusYoung, stats, FocusWeak)
	if weak.FinalPriority <= unknown.FinalPriority {
		t.Errorf("weak focus should favour failing words: weak %v <= unknown %v", weak.FinalPriority, unknown.FinalPriority)
	}

	// Without history, breadth focus ranks raw status at full weight.
	bare := store.RecognitionStats{}
	if got, want := c.Calculate(knowledge.StatusUncollected, bare, FocusUnknown).FinalPriority, 1.0; got != want {
		t.Errorf("unknown focus uncollected = %v, want %v", got, want)
	}
}

func TestShouldTrigger(t *testing.T) {
	tests := []struct {
		score     float64
		intensity Intensity
		threshold float64
		ok        bool
	}{
		{3.2, IntensityMedium, 4.0, false},
		{4.0, IntensityMedium, 4.0, true},
		{2.5, IntensityHigh, 2.0, true},
		{5.9, IntensityLow, 6.0, false},
		{4.5, "unknown", 4.0, true},
	}
	for _, tt := range tests {
		threshold, ok := ShouldTrigger(tt.score, tt.intensity)
		if threshold != tt.threshold || ok != tt.ok {
			t.Errorf("ShouldTrigger(%v, %q) = (%v, %v), want (%v, %v)",
				tt.score, tt.intensity, threshold, ok, tt.threshold, tt.ok)
		}
	}
}

func TestLineScore(t *testing.T) {
	results := []Result{{FinalPriority: 1}, {FinalPriority: 0.8}, {FinalPriority: 0.3}}
	if got := LineScore(results); got < 2.0999 || got > 2.1001 {
		t.Errorf("LineScore = %v, want 2.1", got)
	}
	if got := LineScore(nil); got != 0 {
		t.Errorf("LineScore(nil) = %v, want 0", got)
	}
}

func TestParse(t *testing.T) {
	if _, err := ParseFocusMode("weak"); err != nil {
		t.Errorf("ParseFocusMode(weak): %v", err)
	}
	if _, err := ParseFocusMode("loud"); err == nil {
		t.Error("ParseFocusMode(loud) should fail")
	}
	if _, err := ParseIntensity("high"); err != nil {
		t.Errorf("ParseIntensity(high): %v", err)
	}
	if _, err := ParseIntensity("extreme"); err == nil {
		t.Error("ParseIntensity(extreme) should fail")
	}
}
