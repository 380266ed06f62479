package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/models"
	"github.com/statuspulse/statuspulse/internal/status"
)

// Reference is the gorm-backed implementation of the engine's reference-data
// contract. The reference entities are owned by an external admin surface;
// everything here is read-only.
type Reference struct {
	db *gorm.DB
}

// NewReference creates a reference-data accessor over the given database
func NewReference(db *gorm.DB) *Reference {
	return &Reference{db: db}
}

// GetMonitor looks up one monitor by id
func (r *Reference) GetMonitor(ctx context.Context, id int) (*models.Monitor, error) {
	var mon models.Monitor
	if err := r.db.WithContext(ctx).First(&mon, id).Error; err != nil {
		return nil, wrapLookupErr("monitor", id, err)
	}
	return &mon, nil
}

// GetDatacenter looks up one datacenter by id
func (r *Reference) GetDatacenter(ctx context.Context, id int) (*models.Datacenter, error) {
	var dc models.Datacenter
	if err := r.db.WithContext(ctx).First(&dc, id).Error; err != nil {
		return nil, wrapLookupErr("datacenter", id, err)
	}
	return &dc, nil
}

// GetRegion looks up one region by id
func (r *Reference) GetRegion(ctx context.Context, id int) (*models.Region, error) {
	var region models.Region
	if err := r.db.WithContext(ctx).First(&region, id).Error; err != nil {
		return nil, wrapLookupErr("region", id, err)
	}
	return &region, nil
}

// GetAgent looks up one agent by uuid. Used by the ingest path to resolve the
// reporting agent's datacenter.
func (r *Reference) GetAgent(ctx context.Context, id string) (*models.Agent, error) {
	var agent models.Agent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("agent %s: %w", id, status.ErrNotFound)
		}
		return nil, fmt.Errorf("get agent %s: %w", id, err)
	}
	return &agent, nil
}

// ListAssignments returns every expected (monitor, datacenter) pair joined
// with display names and thresholds, optionally narrowed by region or
// datacenter. Inactive monitors are excluded.
func (r *Reference) ListAssignments(ctx context.Context, regionID, datacenterID *int) ([]status.Assignment, error) {
	q := r.db.WithContext(ctx).
		Table("datacenter_monitors AS dm").
		Select(`dm.monitor_id, m.name AS monitor_name,
			m.warning_threshold_ms, m.critical_threshold_ms,
			dm.datacenter_id, d.name AS datacenter_name,
			r.id AS region_id, r.name AS region_name`).
		Joins("JOIN monitors m ON m.id = dm.monitor_id").
		Joins("JOIN datacenters d ON d.id = dm.datacenter_id").
		Joins("JOIN regions r ON r.id = d.region_id").
		Where("m.active = ?", true)

	if regionID != nil {
		q = q.Where("r.id = ?", *regionID)
	}
	if datacenterID != nil {
		q = q.Where("d.id = ?", *datacenterID)
	}

	var rows []struct {
		MonitorID           int
		MonitorName         string
		WarningThresholdMs  *int
		CriticalThresholdMs *int
		DatacenterID        int
		DatacenterName      string
		RegionID            int
		RegionName          string
	}
	if err := q.Order("dm.monitor_id, dm.datacenter_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	assignments := make([]status.Assignment, len(rows))
	for i, row := range rows {
		assignments[i] = status.Assignment{
			MonitorID:           row.MonitorID,
			MonitorName:         row.MonitorName,
			WarningThresholdMs:  row.WarningThresholdMs,
			CriticalThresholdMs: row.CriticalThresholdMs,
			DatacenterID:        row.DatacenterID,
			DatacenterName:      row.DatacenterName,
			RegionID:            row.RegionID,
			RegionName:          row.RegionName,
		}
	}
	return assignments, nil
}

// ListMonitors returns all monitors ordered by id
func (r *Reference) ListMonitors(ctx context.Context) ([]models.Monitor, error) {
	var monitors []models.Monitor
	if err := r.db.WithContext(ctx).Order("id").Find(&monitors).Error; err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	return monitors, nil
}

// ListRegions returns all regions ordered by name
func (r *Reference) ListRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	if err := r.db.WithContext(ctx).Order("name").Find(&regions).Error; err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

// ListDatacenters returns all datacenters ordered by name
func (r *Reference) ListDatacenters(ctx context.Context) ([]models.Datacenter, error) {
	var datacenters []models.Datacenter
	if err := r.db.WithContext(ctx).Order("name").Find(&datacenters).Error; err != nil {
		return nil, fmt.Errorf("list datacenters: %w", err)
	}
	return datacenters, nil
}

func wrapLookupErr(kind string, id int, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, status.ErrNotFound)
	}
	return fmt.Errorf("get %s %d: %w", kind, id, err)
}
