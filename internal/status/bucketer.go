package status

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BucketedSeriesPoint is one fixed-size time slice of a window with
// per-severity heartbeat counts, shaped for stacked sparkline rendering.
type BucketedSeriesPoint struct {
	BucketStart time.Time `json:"bucketStart"`
	BucketEnd   time.Time `json:"bucketEnd"`
	Healthy     int       `json:"healthy"`
	Warning     int       `json:"warning"`
	Critical    int       `json:"critical"`
	Failed      int       `json:"failed"`
	Total       int       `json:"total"`
}

// ComputeSeries divides the resolved window into numBuckets fixed slices and
// tallies each heartbeat of the (monitor, datacenter) pair into exactly one
// of them by severity. Severity is classified per record with the monitor's
// thresholds, not per bucket average, so mixed severity inside a short
// interval stays visible. The series always has exactly numBuckets points;
// empty buckets carry all-zero counts.
//
// Bucket i spans [windowStart+i*size, windowStart+(i+1)*size): starts are
// computed from the window start each time, never from the previous bucket's
// end, so truncation in the size division cannot accumulate drift. A record
// stamped exactly at the window's outer boundary lands in the last bucket.
func (e *Engine) ComputeSeries(ctx context.Context, monitorID, datacenterID int, window string, numBuckets int) ([]BucketedSeriesPoint, error) {
	if numBuckets <= 0 {
		numBuckets = e.cfg.SeriesBuckets
	}

	duration := ResolveWindow(window)
	windowEnd := e.now()
	windowStart := windowEnd.Add(-duration)
	bucketSize := duration / time.Duration(numBuckets)

	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()

	mon, err := e.reference.GetMonitor(ctx, monitorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("monitor %d: %w", monitorID, ErrNotFound)
		}
		return nil, dataUnavailable(err)
	}
	warningMs, criticalMs := mon.Thresholds()

	heartbeats, err := e.heartbeats.Query(ctx, HeartbeatFilter{
		ExecutedAfter: windowStart,
		MonitorID:     &monitorID,
		DatacenterID:  &datacenterID,
	})
	if err != nil {
		return nil, dataUnavailable(err)
	}

	points := make([]BucketedSeriesPoint, numBuckets)
	for i := range points {
		points[i].BucketStart = windowStart.Add(time.Duration(i) * bucketSize)
		points[i].BucketEnd = windowStart.Add(time.Duration(i+1) * bucketSize)
	}

	for _, hb := range heartbeats {
		if hb.ExecutedAt.Before(windowStart) || hb.ExecutedAt.After(windowEnd) {
			continue
		}
		idx := int(hb.ExecutedAt.Sub(windowStart) / bucketSize)
		if idx >= numBuckets {
			// Size truncation can leave a sliver between the last computed
			// bucket end and the window end; fold it into the last bucket.
			idx = numBuckets - 1
		}

		p := &points[idx]
		p.Total++
		switch {
		case !hb.Success:
			p.Failed++
		case hb.ResponseTimeMs != nil && *hb.ResponseTimeMs >= float64(criticalMs):
			p.Critical++
		case hb.ResponseTimeMs != nil && *hb.ResponseTimeMs >= float64(warningMs):
			p.Warning++
		default:
			p.Healthy++
		}
	}

	return points, nil
}
