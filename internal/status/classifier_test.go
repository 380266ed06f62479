package status

import (
	"testing"
	"time"

	"github.com/statuspulse/statuspulse/internal/models"
)

func hb(success bool, latencyMs float64, at time.Time) models.Heartbeat {
	return models.Heartbeat{
		Success:        success,
		ResponseTimeMs: &latencyMs,
		ExecutedAt:     at,
	}
}

func hbNoLatency(success bool, at time.Time) models.Heartbeat {
	return models.Heartbeat{Success: success, ExecutedAt: at}
}

func beats(latencies []float64, failures int) []models.Heartbeat {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.Heartbeat, 0, len(latencies)+failures)
	for _, l := range latencies {
		out = append(out, hb(true, l, at))
		at = at.Add(time.Second)
	}
	for i := 0; i < failures; i++ {
		out = append(out, hbNoLatency(false, at))
		at = at.Add(time.Second)
	}
	return out
}

func TestClassify_EmptyIsNoDataNeverDown(t *testing.T) {
	c := Classify(nil, 500, 1000, 0)
	if c.Verdict != VerdictNoData {
		t.Fatalf("Verdict = %q, want %q", c.Verdict, VerdictNoData)
	}
	if c.SuccessRate != 0 || c.SampleCount != 0 {
		t.Errorf("empty classification carried numbers: %+v", c)
	}
}

// Nine fast successes and one trailing failure must read as operational with
// the 90.00 rate surfaced: availability and latency are independent axes.
func TestClassify_SingleFailureAtNormalLatency(t *testing.T) {
	group := beats([]float64{100, 100, 100, 100, 100, 100, 100, 100, 100}, 1)

	c := Classify(group, 500, 1000, 0)
	if c.Verdict != VerdictOperational {
		t.Errorf("Verdict = %q, want %q", c.Verdict, VerdictOperational)
	}
	if c.SuccessRate != 90.00 {
		t.Errorf("SuccessRate = %v, want 90.00", c.SuccessRate)
	}
	if c.AverageLatencyMs != 100 {
		t.Errorf("AverageLatencyMs = %v, want 100", c.AverageLatencyMs)
	}
}

func TestClassify_AllFailedIsDown(t *testing.T) {
	c := Classify(beats(nil, 5), 500, 1000, 0)
	if c.Verdict != VerdictDown {
		t.Errorf("Verdict = %q, want %q", c.Verdict, VerdictDown)
	}
	if c.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", c.SuccessRate)
	}
}

func TestClassify_ThresholdBoundariesInclusive(t *testing.T) {
	tests := []struct {
		name    string
		latency float64
		want    Verdict
	}{
		{"below warning", 499, VerdictOperational},
		{"exactly warning", 500, VerdictDegradedOrange},
		{"between", 700, VerdictDegradedOrange},
		{"exactly critical", 1000, VerdictDegradedRed},
		{"above critical", 1500, VerdictDegradedRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(beats([]float64{tt.latency}, 0), 500, 1000, 0)
			if c.Verdict != tt.want {
				t.Errorf("latency %v: Verdict = %q, want %q", tt.latency, c.Verdict, tt.want)
			}
			if c.SuccessRate != 100 {
				t.Errorf("SuccessRate = %v, want 100", c.SuccessRate)
			}
		})
	}
}

func TestClassify_SlowButSucceedingIsNeverDown(t *testing.T) {
	c := Classify(beats([]float64{5000, 5000, 5000}, 0), 500, 1000, 0)
	if c.Verdict != VerdictDegradedRed {
		t.Errorf("Verdict = %q, want %q", c.Verdict, VerdictDegradedRed)
	}
}

func TestClassify_DownRequiresLatestFailure(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// 40% success, floor 50: down only when the most recent beat failed.
	failedLast := []models.Heartbeat{
		hb(true, 100, at),
		hb(true, 100, at.Add(time.Second)),
		hbNoLatency(false, at.Add(2*time.Second)),
		hbNoLatency(false, at.Add(3*time.Second)),
		hbNoLatency(false, at.Add(4*time.Second)),
	}
	if c := Classify(failedLast, 500, 1000, 50); c.Verdict != VerdictDown {
		t.Errorf("latest failed: Verdict = %q, want %q", c.Verdict, VerdictDown)
	}

	recoveredLast := []models.Heartbeat{
		hbNoLatency(false, at),
		hbNoLatency(false, at.Add(time.Second)),
		hbNoLatency(false, at.Add(2*time.Second)),
		hb(true, 100, at.Add(3*time.Second)),
		hb(true, 100, at.Add(4*time.Second)),
	}
	if c := Classify(recoveredLast, 500, 1000, 50); c.Verdict != VerdictOperational {
		t.Errorf("latest succeeded: Verdict = %q, want %q", c.Verdict, VerdictOperational)
	}
}

func TestClassify_SuccessRateRoundsHalfUp(t *testing.T) {
	tests := []struct {
		up, down int
		want     float64
	}{
		{1, 2, 33.33},
		{2, 1, 66.67},
		{1, 7, 12.5},
		{1, 0, 100},
		{0, 1, 0},
	}

	for _, tt := range tests {
		latencies := make([]float64, tt.up)
		for i := range latencies {
			latencies[i] = 10
		}
		c := Classify(beats(latencies, tt.down), 500, 1000, 0)
		if c.SuccessRate != tt.want {
			t.Errorf("%d up / %d down: SuccessRate = %v, want %v", tt.up, tt.down, c.SuccessRate, tt.want)
		}
	}
}

func TestClassify_RateBoundedAndMonotonicUnderFailure(t *testing.T) {
	group := beats([]float64{100, 100, 100}, 0)
	prev := 101.0
	at := time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		c := Classify(group, 500, 1000, 0)
		if c.SuccessRate < 0 || c.SuccessRate > 100 {
			t.Fatalf("SuccessRate out of range: %v", c.SuccessRate)
		}
		if c.SuccessRate > prev {
			t.Fatalf("SuccessRate increased after adding a failure: %v > %v", c.SuccessRate, prev)
		}
		prev = c.SuccessRate
		group = append(group, hbNoLatency(false, at.Add(time.Duration(i)*time.Second)))
	}
}

func TestClassify_LatencyAverageSkipsFailedAndUnmeasured(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := []models.Heartbeat{
		hb(true, 100, at),
		hb(true, 300, at.Add(time.Second)),
		hb(false, 9999, at.Add(2*time.Second)), // failed: excluded even with a latency
		hbNoLatency(true, at.Add(3*time.Second)),
	}

	c := Classify(group, 500, 1000, 0)
	if c.AverageLatencyMs != 200 {
		t.Errorf("AverageLatencyMs = %v, want 200", c.AverageLatencyMs)
	}
	if c.SuccessRate != 75 {
		t.Errorf("SuccessRate = %v, want 75", c.SuccessRate)
	}
}
