package status

import (
	"math"

	"github.com/statuspulse/statuspulse/internal/models"
)

// Verdict is the classified health label for a (monitor, datacenter) pair
// over a window.
type Verdict string

const (
	VerdictOperational    Verdict = "operational"
	VerdictDegradedOrange Verdict = "degraded-orange"
	VerdictDegradedRed    Verdict = "degraded-red"
	VerdictDown           Verdict = "down"

	// VerdictNoData marks a pair with zero heartbeats in the window. It is a
	// valid outcome, not an error, and is deliberately distinct from down so
	// stale pairs render gray instead of red.
	VerdictNoData Verdict = "no-data"
)

// Classification is the classifier output for one heartbeat group.
type Classification struct {
	Verdict          Verdict
	SuccessRate      float64 // 0-100, two decimals; meaningless when Verdict is no-data
	AverageLatencyMs float64 // mean over successful latency-bearing records
	SampleCount      int
}

// Classify computes success rate, representative latency and a status verdict
// for one (monitor, datacenter) group of heartbeats ordered by executed_at
// ascending. downFloorPercent is the success-rate floor at or below which a
// group whose most recent heartbeat failed reads as down (0 by default, so
// only total failure does).
//
// Availability and latency are independent axes: a slow but succeeding
// monitor is degraded, never down, and a partially failing monitor at normal
// latency reads as operational with its numeric success rate shown. That last
// outcome mirrors the behavior the dashboards have always had; whether a
// partial failure deserves its own degraded color is a product question, not
// one this function answers.
func Classify(heartbeats []models.Heartbeat, warningMs, criticalMs int, downFloorPercent float64) Classification {
	if len(heartbeats) == 0 {
		return Classification{Verdict: VerdictNoData}
	}

	upCount := 0
	latencySum := 0.0
	latencyCount := 0
	for _, hb := range heartbeats {
		if !hb.Success {
			continue
		}
		upCount++
		if hb.ResponseTimeMs != nil {
			latencySum += *hb.ResponseTimeMs
			latencyCount++
		}
	}

	rate := round2(float64(upCount) / float64(len(heartbeats)) * 100)

	// Failed and latency-less records are excluded from the average; they
	// already penalize the success rate.
	avgLatency := 0.0
	if latencyCount > 0 {
		avgLatency = latencySum / float64(latencyCount)
	}

	verdict := VerdictOperational
	latestFailed := !heartbeats[len(heartbeats)-1].Success
	switch {
	case rate <= downFloorPercent && latestFailed:
		verdict = VerdictDown
	case avgLatency >= float64(criticalMs):
		verdict = VerdictDegradedRed
	case avgLatency >= float64(warningMs):
		verdict = VerdictDegradedOrange
	}

	return Classification{
		Verdict:          verdict,
		SuccessRate:      rate,
		AverageLatencyMs: avgLatency,
		SampleCount:      len(heartbeats),
	}
}

// round2 rounds half-up to two decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
