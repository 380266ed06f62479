package status

import (
	"context"
	"time"

	"github.com/statuspulse/statuspulse/internal/models"
)

// HeartbeatFilter selects a heartbeat range. ExecutedAfter is mandatory; the
// optional id filters must be pushed down to the store's query, not applied
// in memory, so query cost stays bounded by the window.
type HeartbeatFilter struct {
	ExecutedAfter time.Time
	MonitorID     *int
	DatacenterID  *int
	RegionID      *int
}

// HeartbeatStore is the engine's read contract against the append-only
// heartbeat log. Results are ordered by executed_at ascending.
type HeartbeatStore interface {
	Query(ctx context.Context, filter HeartbeatFilter) ([]models.Heartbeat, error)
}

// Assignment is one expected (monitor, datacenter) pair joined with its
// display names and thresholds. Pairs come from the datacenter_monitors
// reference table, so a pair with zero heartbeats in the window still shows
// up in the snapshot.
type Assignment struct {
	MonitorID           int
	MonitorName         string
	WarningThresholdMs  *int
	CriticalThresholdMs *int
	DatacenterID        int
	DatacenterName      string
	RegionID            int
	RegionName          string
}

// ReferenceData exposes the read-only reference entities the engine joins
// against. Lookups are treated as eventually-consistent snapshots; unknown
// ids return ErrNotFound, transport failures anything else.
type ReferenceData interface {
	GetMonitor(ctx context.Context, id int) (*models.Monitor, error)
	GetDatacenter(ctx context.Context, id int) (*models.Datacenter, error)
	GetRegion(ctx context.Context, id int) (*models.Region, error)
	ListAssignments(ctx context.Context, regionID, datacenterID *int) ([]Assignment, error)
}
