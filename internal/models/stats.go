package models

import "time"

// HourlyStat is a rolled-up hour of heartbeats for one (monitor, datacenter)
// pair, produced by the background aggregation job.
type HourlyStat struct {
	ID               int       `json:"id" gorm:"primaryKey;autoIncrement"`
	MonitorID        int       `json:"monitor_id" gorm:"not null;uniqueIndex:idx_stat_hour"`
	DatacenterID     int       `json:"datacenter_id" gorm:"not null;uniqueIndex:idx_stat_hour"`
	Hour             time.Time `json:"hour" gorm:"not null;uniqueIndex:idx_stat_hour"`
	LatencyMinMs     float64   `json:"latency_min_ms"`
	LatencyMaxMs     float64   `json:"latency_max_ms"`
	LatencyAvgMs     float64   `json:"latency_avg_ms"`
	UpCount          int       `json:"up_count"`
	DownCount        int       `json:"down_count"`
	TotalCount       int       `json:"total_count"`
	UptimePercentage float64   `json:"uptime_percentage"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName specifies the table name for HourlyStat
func (HourlyStat) TableName() string {
	return "hourly_stats"
}
