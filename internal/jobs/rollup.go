package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/statuspulse/statuspulse/internal/models"
)

// HourlyRollup aggregates raw heartbeats into per-(monitor, datacenter)
// hourly statistics so long-range views don't have to scan the raw log.
type HourlyRollup struct {
	db *gorm.DB
}

// NewHourlyRollup creates a new hourly rollup job
func NewHourlyRollup(db *gorm.DB) *HourlyRollup {
	return &HourlyRollup{db: db}
}

// Run rolls up the previous clock hour for every pair that produced data.
func (r *HourlyRollup) Run(ctx context.Context) error {
	log.Println("Starting hourly statistics rollup...")

	hourStart := time.Now().UTC().Add(-1 * time.Hour).Truncate(time.Hour)
	hourEnd := hourStart.Add(time.Hour)

	var groups []struct {
		MonitorID    int
		DatacenterID int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Heartbeat{}).
		Select("DISTINCT monitor_id, datacenter_id").
		Where("executed_at >= ? AND executed_at < ?", hourStart, hourEnd).
		Scan(&groups).Error
	if err != nil {
		return fmt.Errorf("list rollup groups: %w", err)
	}

	for _, g := range groups {
		if err := r.rollupPair(ctx, g.MonitorID, g.DatacenterID, hourStart, hourEnd); err != nil {
			log.Printf("Failed to roll up monitor %d datacenter %d: %v", g.MonitorID, g.DatacenterID, err)
			// Continue with other pairs
		}
	}

	log.Printf("Hourly statistics rollup completed (%d pairs)", len(groups))
	return nil
}

func (r *HourlyRollup) rollupPair(ctx context.Context, monitorID, datacenterID int, hourStart, hourEnd time.Time) error {
	var stats struct {
		LatencyMin *float64
		LatencyMax *float64
		LatencyAvg *float64
		UpCount    int
		DownCount  int
		TotalCount int
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			MIN(response_time_ms) AS latency_min,
			MAX(response_time_ms) AS latency_max,
			AVG(CASE WHEN success THEN response_time_ms ELSE NULL END) AS latency_avg,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) AS up_count,
			SUM(CASE WHEN success THEN 0 ELSE 1 END) AS down_count,
			COUNT(*) AS total_count
		FROM heartbeats
		WHERE monitor_id = ? AND datacenter_id = ? AND executed_at >= ? AND executed_at < ?
	`, monitorID, datacenterID, hourStart, hourEnd).Scan(&stats).Error
	if err != nil {
		return err
	}

	if stats.TotalCount == 0 {
		return nil
	}

	uptimePercentage := float64(stats.UpCount) / float64(stats.TotalCount) * 100

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO hourly_stats (monitor_id, datacenter_id, hour,
			latency_min_ms, latency_max_ms, latency_avg_ms,
			up_count, down_count, total_count, uptime_percentage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (monitor_id, datacenter_id, hour) DO UPDATE SET
			latency_min_ms = EXCLUDED.latency_min_ms,
			latency_max_ms = EXCLUDED.latency_max_ms,
			latency_avg_ms = EXCLUDED.latency_avg_ms,
			up_count = EXCLUDED.up_count,
			down_count = EXCLUDED.down_count,
			total_count = EXCLUDED.total_count,
			uptime_percentage = EXCLUDED.uptime_percentage
	`, monitorID, datacenterID, hourStart,
		floatOrZero(stats.LatencyMin), floatOrZero(stats.LatencyMax), floatOrZero(stats.LatencyAvg),
		stats.UpCount, stats.DownCount, stats.TotalCount, uptimePercentage, time.Now().UTC(),
	).Error
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
