package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/statuspulse/statuspulse/internal/models"
)

// Config holds the engine tunables. They are passed in explicitly rather than
// read from process state so tests can pin them.
type Config struct {
	DefaultWarningMs  int
	DefaultCriticalMs int
	DownFloorPercent  float64
	SeriesBuckets     int
	QueryTimeout      time.Duration
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		DefaultWarningMs:  models.DefaultWarningThresholdMs,
		DefaultCriticalMs: models.DefaultCriticalThresholdMs,
		DownFloorPercent:  0,
		SeriesBuckets:     50,
		QueryTimeout:      10 * time.Second,
	}
}

// Engine turns raw heartbeat ranges into per-(monitor, datacenter) status
// snapshots and bucketed series. It holds no mutable state; every call is an
// independent read-compute pass, so concurrent queries need no coordination.
type Engine struct {
	heartbeats HeartbeatStore
	reference  ReferenceData
	cfg        Config
	now        func() time.Time
}

// NewEngine creates an aggregation engine over the given store contracts.
func NewEngine(heartbeats HeartbeatStore, reference ReferenceData, cfg Config) *Engine {
	if cfg.SeriesBuckets <= 0 {
		cfg.SeriesBuckets = 50
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	return &Engine{
		heartbeats: heartbeats,
		reference:  reference,
		cfg:        cfg,
		now:        time.Now,
	}
}

// StatusResult is the per-(monitor, datacenter) snapshot row. It is computed
// per query and never persisted.
type StatusResult struct {
	MonitorID           int        `json:"monitorId"`
	MonitorName         string     `json:"monitorName"`
	DatacenterID        int        `json:"datacenterId"`
	Datacenter          string     `json:"datacenter"`
	RegionID            int        `json:"regionId"`
	Region              string     `json:"region"`
	Status              Verdict    `json:"status"`
	SuccessRate         float64    `json:"successRate"`
	AverageLatencyMs    float64    `json:"avgLatencyMs"`
	WarningThresholdMs  int        `json:"warningThresholdMs"`
	CriticalThresholdMs int        `json:"criticalThresholdMs"`
	SampleCount         int        `json:"sampleCount"`
	LastCheckedAt       *time.Time `json:"lastCheckedAt,omitempty"`
}

// Snapshot is the result of one current-status query. Reason is set (and
// Results empty) when a user-supplied filter referenced an unknown id:
// filters are routinely stale, so that case is an empty answer with an
// explanation, not an error.
type Snapshot struct {
	Results []StatusResult `json:"results"`
	Reason  string         `json:"reason,omitempty"`
}

type groupKey struct {
	monitorID    int
	datacenterID int
}

// ComputeCurrentStatus aggregates all heartbeats in the resolved window into
// one StatusResult per (monitor, datacenter) pair. Assigned pairs with no
// heartbeats are included with the no-data verdict. Output is sorted by
// (monitorId, datacenterId) so identical inputs yield identical results.
func (e *Engine) ComputeCurrentStatus(ctx context.Context, window string, regionID, datacenterID *int) (*Snapshot, error) {
	duration := ResolveWindow(window)
	since := e.now().Add(-duration)

	if reason, err := e.validateFilters(ctx, regionID, datacenterID); err != nil {
		return nil, err
	} else if reason != "" {
		return &Snapshot{Results: []StatusResult{}, Reason: reason}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.QueryTimeout)
	defer cancel()

	assignments, err := e.reference.ListAssignments(ctx, regionID, datacenterID)
	if err != nil {
		return nil, dataUnavailable(err)
	}

	heartbeats, err := e.heartbeats.Query(ctx, HeartbeatFilter{
		ExecutedAfter: since,
		RegionID:      regionID,
		DatacenterID:  datacenterID,
	})
	if err != nil {
		return nil, dataUnavailable(err)
	}

	groups := make(map[groupKey][]models.Heartbeat)
	for _, hb := range heartbeats {
		key := groupKey{monitorID: hb.MonitorID, datacenterID: hb.DatacenterID}
		groups[key] = append(groups[key], hb)
	}

	assigned := make(map[groupKey]Assignment, len(assignments))
	for _, a := range assignments {
		assigned[groupKey{monitorID: a.MonitorID, datacenterID: a.DatacenterID}] = a
	}

	// Heartbeats can outlive their assignment row; resolve names for those
	// groups individually so recent data is never silently dropped.
	for key := range groups {
		if _, ok := assigned[key]; !ok {
			a, err := e.resolveAssignment(ctx, key)
			if err != nil {
				return nil, err
			}
			assigned[key] = a
		}
	}

	results := make([]StatusResult, 0, len(assigned))
	for key, a := range assigned {
		results = append(results, e.classifyGroup(a, groups[key]))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].MonitorID != results[j].MonitorID {
			return results[i].MonitorID < results[j].MonitorID
		}
		return results[i].DatacenterID < results[j].DatacenterID
	})

	return &Snapshot{Results: results}, nil
}

func (e *Engine) classifyGroup(a Assignment, heartbeats []models.Heartbeat) StatusResult {
	warningMs, criticalMs := e.thresholds(a)
	c := Classify(heartbeats, warningMs, criticalMs, e.cfg.DownFloorPercent)

	result := StatusResult{
		MonitorID:           a.MonitorID,
		MonitorName:         a.MonitorName,
		DatacenterID:        a.DatacenterID,
		Datacenter:          a.DatacenterName,
		RegionID:            a.RegionID,
		Region:              a.RegionName,
		Status:              c.Verdict,
		SuccessRate:         c.SuccessRate,
		AverageLatencyMs:    c.AverageLatencyMs,
		WarningThresholdMs:  warningMs,
		CriticalThresholdMs: criticalMs,
		SampleCount:         c.SampleCount,
	}
	if len(heartbeats) > 0 {
		last := heartbeats[len(heartbeats)-1].ExecutedAt
		result.LastCheckedAt = &last
	}
	return result
}

func (e *Engine) thresholds(a Assignment) (warningMs, criticalMs int) {
	warningMs = e.cfg.DefaultWarningMs
	criticalMs = e.cfg.DefaultCriticalMs
	if a.WarningThresholdMs != nil && *a.WarningThresholdMs >= 0 {
		warningMs = *a.WarningThresholdMs
	}
	if a.CriticalThresholdMs != nil && *a.CriticalThresholdMs >= 0 {
		criticalMs = *a.CriticalThresholdMs
	}
	if criticalMs < warningMs {
		criticalMs = warningMs
	}
	return warningMs, criticalMs
}

// validateFilters checks user-supplied filter ids against reference data.
// It returns a non-empty reason for unknown ids and an error only for
// reference-store failures.
func (e *Engine) validateFilters(ctx context.Context, regionID, datacenterID *int) (string, error) {
	if regionID != nil {
		if _, err := e.reference.GetRegion(ctx, *regionID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Sprintf("unknown region id %d", *regionID), nil
			}
			return "", dataUnavailable(err)
		}
	}
	if datacenterID != nil {
		if _, err := e.reference.GetDatacenter(ctx, *datacenterID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Sprintf("unknown datacenter id %d", *datacenterID), nil
			}
			return "", dataUnavailable(err)
		}
	}
	return "", nil
}

func (e *Engine) resolveAssignment(ctx context.Context, key groupKey) (Assignment, error) {
	a := Assignment{MonitorID: key.monitorID, DatacenterID: key.datacenterID}

	mon, err := e.reference.GetMonitor(ctx, key.monitorID)
	switch {
	case err == nil:
		a.MonitorName = mon.Name
		a.WarningThresholdMs = mon.WarningThresholdMs
		a.CriticalThresholdMs = mon.CriticalThresholdMs
	case !errors.Is(err, ErrNotFound):
		return a, dataUnavailable(err)
	}

	dc, err := e.reference.GetDatacenter(ctx, key.datacenterID)
	switch {
	case err == nil:
		a.DatacenterName = dc.Name
		a.RegionID = dc.RegionID
		if region, rerr := e.reference.GetRegion(ctx, dc.RegionID); rerr == nil {
			a.RegionName = region.Name
		} else if !errors.Is(rerr, ErrNotFound) {
			return a, dataUnavailable(rerr)
		}
	case !errors.Is(err, ErrNotFound):
		return a, dataUnavailable(err)
	}

	return a, nil
}
