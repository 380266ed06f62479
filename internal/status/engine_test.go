package status

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/statuspulse/statuspulse/internal/models"
)

type fakeHeartbeatStore struct {
	heartbeats []models.Heartbeat
	err        error
	lastFilter HeartbeatFilter
	queries    int
}

func (f *fakeHeartbeatStore) Query(ctx context.Context, filter HeartbeatFilter) ([]models.Heartbeat, error) {
	f.queries++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}

	var out []models.Heartbeat
	for _, hb := range f.heartbeats {
		if hb.ExecutedAt.Before(filter.ExecutedAfter) {
			continue
		}
		if filter.MonitorID != nil && hb.MonitorID != *filter.MonitorID {
			continue
		}
		if filter.DatacenterID != nil && hb.DatacenterID != *filter.DatacenterID {
			continue
		}
		out = append(out, hb)
	}
	return out, nil
}

type fakeReference struct {
	monitors    map[int]*models.Monitor
	datacenters map[int]*models.Datacenter
	regions     map[int]*models.Region
	assignments []Assignment
	err         error
}

func (f *fakeReference) GetMonitor(ctx context.Context, id int) (*models.Monitor, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.monitors[id]; ok {
		return m, nil
	}
	return nil, ErrNotFound
}

func (f *fakeReference) GetDatacenter(ctx context.Context, id int) (*models.Datacenter, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.datacenters[id]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

func (f *fakeReference) GetRegion(ctx context.Context, id int) (*models.Region, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.regions[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (f *fakeReference) ListAssignments(ctx context.Context, regionID, datacenterID *int) ([]Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Assignment
	for _, a := range f.assignments {
		if regionID != nil && a.RegionID != *regionID {
			continue
		}
		if datacenterID != nil && a.DatacenterID != *datacenterID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

var engineNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestEngine(hbs *fakeHeartbeatStore, ref *fakeReference) *Engine {
	e := NewEngine(hbs, ref, Config{
		DefaultWarningMs:  500,
		DefaultCriticalMs: 1000,
		DownFloorPercent:  0,
		SeriesBuckets:     50,
		QueryTimeout:      time.Second,
	})
	e.now = func() time.Time { return engineNow }
	return e
}

func testReference() *fakeReference {
	return &fakeReference{
		monitors: map[int]*models.Monitor{
			1: {ID: 1, Name: "checkout-api", Type: "HTTP", Active: true},
			2: {ID: 2, Name: "payments-api", Type: "HTTP", Active: true},
		},
		datacenters: map[int]*models.Datacenter{
			10: {ID: 10, Name: "fra-1", RegionID: 100},
			11: {ID: 11, Name: "iad-1", RegionID: 101},
		},
		regions: map[int]*models.Region{
			100: {ID: 100, Name: "eu-central"},
			101: {ID: 101, Name: "us-east"},
		},
		assignments: []Assignment{
			{MonitorID: 1, MonitorName: "checkout-api", DatacenterID: 10, DatacenterName: "fra-1", RegionID: 100, RegionName: "eu-central"},
			{MonitorID: 1, MonitorName: "checkout-api", DatacenterID: 11, DatacenterName: "iad-1", RegionID: 101, RegionName: "us-east"},
			{MonitorID: 2, MonitorName: "payments-api", DatacenterID: 10, DatacenterName: "fra-1", RegionID: 100, RegionName: "eu-central"},
		},
	}
}

func engineBeat(monitorID, datacenterID int, success bool, latency float64, age time.Duration) models.Heartbeat {
	return models.Heartbeat{
		MonitorID:      monitorID,
		DatacenterID:   datacenterID,
		Success:        success,
		ResponseTimeMs: &latency,
		ExecutedAt:     engineNow.Add(-age),
	}
}

func TestComputeCurrentStatus_GroupsByMonitorAndDatacenter(t *testing.T) {
	hbs := &fakeHeartbeatStore{heartbeats: []models.Heartbeat{
		engineBeat(1, 10, true, 100, 10*time.Minute),
		engineBeat(1, 10, true, 200, 5*time.Minute),
		engineBeat(1, 11, true, 700, 5*time.Minute),
		engineBeat(2, 10, false, 0, 5*time.Minute),
	}}
	engine := newTestEngine(hbs, testReference())

	snapshot, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if err != nil {
		t.Fatalf("ComputeCurrentStatus failed: %v", err)
	}
	if len(snapshot.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(snapshot.Results))
	}

	byKey := make(map[[2]int]StatusResult)
	for _, res := range snapshot.Results {
		byKey[[2]int{res.MonitorID, res.DatacenterID}] = res
	}

	fra := byKey[[2]int{1, 10}]
	if fra.Status != VerdictOperational || fra.AverageLatencyMs != 150 || fra.SuccessRate != 100 {
		t.Errorf("monitor 1 fra-1 = %+v, want operational/150ms/100%%", fra)
	}
	if fra.Region != "eu-central" || fra.Datacenter != "fra-1" || fra.MonitorName != "checkout-api" {
		t.Errorf("reference names not joined: %+v", fra)
	}

	if iad := byKey[[2]int{1, 11}]; iad.Status != VerdictDegradedOrange {
		t.Errorf("monitor 1 iad-1 status = %q, want %q", iad.Status, VerdictDegradedOrange)
	}
	if pay := byKey[[2]int{2, 10}]; pay.Status != VerdictDown {
		t.Errorf("monitor 2 fra-1 status = %q, want %q", pay.Status, VerdictDown)
	}
}

func TestComputeCurrentStatus_AssignedPairWithoutDataIsNoData(t *testing.T) {
	hbs := &fakeHeartbeatStore{heartbeats: []models.Heartbeat{
		engineBeat(1, 10, true, 100, 5*time.Minute),
	}}
	engine := newTestEngine(hbs, testReference())

	snapshot, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if err != nil {
		t.Fatalf("ComputeCurrentStatus failed: %v", err)
	}
	if len(snapshot.Results) != 3 {
		t.Fatalf("got %d results, want all 3 assigned pairs", len(snapshot.Results))
	}

	noData := 0
	for _, res := range snapshot.Results {
		if res.Status == VerdictNoData {
			noData++
			if res.LastCheckedAt != nil {
				t.Errorf("no-data pair has LastCheckedAt: %+v", res)
			}
		}
	}
	if noData != 2 {
		t.Errorf("got %d no-data pairs, want 2", noData)
	}
}

func TestComputeCurrentStatus_DeterministicOrderAndIdempotent(t *testing.T) {
	hbs := &fakeHeartbeatStore{heartbeats: []models.Heartbeat{
		engineBeat(2, 10, true, 100, 5*time.Minute),
		engineBeat(1, 11, true, 100, 5*time.Minute),
		engineBeat(1, 10, true, 100, 5*time.Minute),
	}}
	engine := newTestEngine(hbs, testReference())

	first, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different snapshots")
	}

	for i := 1; i < len(first.Results); i++ {
		prev, cur := first.Results[i-1], first.Results[i]
		if prev.MonitorID > cur.MonitorID ||
			(prev.MonitorID == cur.MonitorID && prev.DatacenterID > cur.DatacenterID) {
			t.Errorf("results not sorted at index %d: %+v before %+v", i, prev, cur)
		}
	}
}

func TestComputeCurrentStatus_FilterPushdown(t *testing.T) {
	hbs := &fakeHeartbeatStore{}
	engine := newTestEngine(hbs, testReference())

	region := 100
	if _, err := engine.ComputeCurrentStatus(context.Background(), "4h", &region, nil); err != nil {
		t.Fatalf("ComputeCurrentStatus failed: %v", err)
	}

	if hbs.lastFilter.RegionID == nil || *hbs.lastFilter.RegionID != 100 {
		t.Error("region filter was not pushed down to the store query")
	}
	wantAfter := engineNow.Add(-4 * time.Hour)
	if !hbs.lastFilter.ExecutedAfter.Equal(wantAfter) {
		t.Errorf("ExecutedAfter = %v, want %v", hbs.lastFilter.ExecutedAfter, wantAfter)
	}
}

func TestComputeCurrentStatus_UnknownFilterIsEmptyWithReason(t *testing.T) {
	hbs := &fakeHeartbeatStore{}
	engine := newTestEngine(hbs, testReference())

	unknown := 999
	snapshot, err := engine.ComputeCurrentStatus(context.Background(), "1h", &unknown, nil)
	if err != nil {
		t.Fatalf("unknown region must not be an error, got %v", err)
	}
	if len(snapshot.Results) != 0 {
		t.Errorf("got %d results, want empty", len(snapshot.Results))
	}
	if snapshot.Reason == "" {
		t.Error("expected an explanatory reason for the unknown region filter")
	}
	if hbs.queries != 0 {
		t.Error("store should not be queried for an unknown filter")
	}
}

func TestComputeCurrentStatus_StoreFailureIsDataUnavailable(t *testing.T) {
	hbs := &fakeHeartbeatStore{err: errors.New("connection refused")}
	engine := newTestEngine(hbs, testReference())

	snapshot, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("err = %v, want ErrDataUnavailable", err)
	}
	if snapshot != nil {
		t.Error("a failed query must not return a partial snapshot")
	}
}

func TestComputeCurrentStatus_UnassignedPairWithDataIsResolved(t *testing.T) {
	// Heartbeats for a pair whose assignment row was removed must still
	// surface, with names resolved from reference data.
	ref := testReference()
	ref.assignments = ref.assignments[:1] // only monitor 1 / datacenter 10 remains assigned

	hbs := &fakeHeartbeatStore{heartbeats: []models.Heartbeat{
		engineBeat(2, 10, true, 100, 5*time.Minute),
	}}
	engine := newTestEngine(hbs, ref)

	snapshot, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if err != nil {
		t.Fatalf("ComputeCurrentStatus failed: %v", err)
	}
	if len(snapshot.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(snapshot.Results))
	}

	var found bool
	for _, res := range snapshot.Results {
		if res.MonitorID == 2 && res.DatacenterID == 10 {
			found = true
			if res.MonitorName != "payments-api" || res.Datacenter != "fra-1" || res.Region != "eu-central" {
				t.Errorf("unassigned pair names not resolved: %+v", res)
			}
		}
	}
	if !found {
		t.Error("pair with data but no assignment row was dropped")
	}
}

func TestComputeCurrentStatus_MonitorThresholdsOverrideDefaults(t *testing.T) {
	ref := testReference()
	warn, crit := 100, 200
	ref.assignments[0].WarningThresholdMs = &warn
	ref.assignments[0].CriticalThresholdMs = &crit

	hbs := &fakeHeartbeatStore{heartbeats: []models.Heartbeat{
		engineBeat(1, 10, true, 150, 5*time.Minute),
	}}
	engine := newTestEngine(hbs, ref)

	snapshot, err := engine.ComputeCurrentStatus(context.Background(), "1h", nil, nil)
	if err != nil {
		t.Fatalf("ComputeCurrentStatus failed: %v", err)
	}

	for _, res := range snapshot.Results {
		if res.MonitorID == 1 && res.DatacenterID == 10 {
			if res.Status != VerdictDegradedOrange {
				t.Errorf("Status = %q, want %q under per-monitor thresholds", res.Status, VerdictDegradedOrange)
			}
			if res.WarningThresholdMs != 100 || res.CriticalThresholdMs != 200 {
				t.Errorf("thresholds not reported: %+v", res)
			}
			return
		}
	}
	t.Fatal("pair not present in snapshot")
}
